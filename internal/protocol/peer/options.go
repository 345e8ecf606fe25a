package peer

import (
	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/metrics"
)

// Option 节点选项
type Option func(*Node)

// WithServerConfig 设置请求大小上限与读写超时
func WithServerConfig(cfg config.ServerConfig) Option {
	return func(n *Node) {
		n.cfg = cfg
	}
}

// WithMetrics 设置指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Node) {
		n.metrics = m
	}
}

// WithClock 设置用于计时的时钟
func WithClock(c clock.Clock) Option {
	return func(n *Node) {
		if c != nil {
			n.clock = c
		}
	}
}
