package config

import "errors"

var (
	// ErrNilConfig 配置为 nil
	ErrNilConfig = errors.New("config: config is nil")

	// ErrInvalidBits 地址宽度无效
	ErrInvalidBits = errors.New("config: invalid cluster bits")

	// ErrInvalidPort 端口无效或超出范围
	ErrInvalidPort = errors.New("config: invalid port")

	// ErrInvalidPeer 静态成员表条目无效
	ErrInvalidPeer = errors.New("config: invalid peer entry")

	// ErrInvalidTimeout 超时无效
	ErrInvalidTimeout = errors.New("config: invalid timeout")

	// ErrInvalidAttempts 重试次数无效
	ErrInvalidAttempts = errors.New("config: invalid max attempts")

	// ErrInvalidRequestSize 请求大小上限无效
	ErrInvalidRequestSize = errors.New("config: invalid max request size")

	// ErrInvalidResponseSize 响应大小上限无效
	ErrInvalidResponseSize = errors.New("config: invalid max response size")

	// ErrUnknownEngine 未知的存储引擎
	ErrUnknownEngine = errors.New("config: unknown store engine")

	// ErrInvalidQueueSize 队列长度无效
	ErrInvalidQueueSize = errors.New("config: invalid queue size")
)
