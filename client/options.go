package client

import (
	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/transport/tcp"
)

// DefaultCacheSize owner 缓存的默认容量
const DefaultCacheSize = 1024

// Option 客户端选项
type Option func(*Client)

// WithForwardingConfig 设置往返超时所依据的转发配置
func WithForwardingConfig(cfg config.ForwardingConfig) Option {
	return func(c *Client) {
		c.cfg = cfg
	}
}

// WithTransport 使用外部传输，Close 时不关闭它
func WithTransport(t *tcp.Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
			c.ownTransport = false
		}
	}
}

// WithClock 设置计时用的时钟
func WithClock(clk clock.Clock) Option {
	return func(c *Client) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithCacheSize 设置 owner 缓存容量
func WithCacheSize(n int) Option {
	return func(c *Client) {
		c.cacheSize = n
	}
}

// WithMaxResponseSize 限制响应大小，<= 0 为不限
//
// 覆盖转发配置中的 MaxResponseSize。
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		c.maxResponse = &n
	}
}
