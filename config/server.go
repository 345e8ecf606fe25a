package config

import (
	"fmt"
	"time"
)

// DefaultMaxRequestSize 单个请求默认上限 1 MiB
const DefaultMaxRequestSize = 1 << 20

// ServerConfig 请求服务端配置
type ServerConfig struct {
	// MaxRequestSize 单个请求的最大字节数
	MaxRequestSize int `json:"max_request_size"`

	// ReadTimeout 读取请求的超时
	ReadTimeout Duration `json:"read_timeout"`

	// WriteTimeout 写回响应的超时
	WriteTimeout Duration `json:"write_timeout"`
}

// DefaultServerConfig 返回默认服务端配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		MaxRequestSize: DefaultMaxRequestSize,
		ReadTimeout:    Duration(10 * time.Second),
		WriteTimeout:   Duration(10 * time.Second),
	}
}

// Validate 验证服务端配置
func (c *ServerConfig) Validate() error {
	if c.MaxRequestSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRequestSize, c.MaxRequestSize)
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("%w: read %s write %s", ErrInvalidTimeout, c.ReadTimeout, c.WriteTimeout)
	}
	return nil
}
