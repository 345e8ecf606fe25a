package client

import "errors"

var (
	// ErrUnreachable 无法与节点完成往返
	ErrUnreachable = errors.New("client: peer unreachable")

	// ErrResponseTooLarge 响应超过配置的大小上限
	ErrResponseTooLarge = errors.New("client: response too large")

	// ErrTopicNotFound 主题不存在
	ErrTopicNotFound = errors.New("client: topic not found")

	// ErrRejected 节点以失败状态拒绝了请求
	ErrRejected = errors.New("client: request rejected")

	// ErrUnexpectedResponse 响应形态与命令不符
	ErrUnexpectedResponse = errors.New("client: unexpected response")

	// ErrEmptyTopic 主题名为空
	ErrEmptyTopic = errors.New("client: empty topic")
)
