package config

import (
	"fmt"
	"time"
)

// ForwardingConfig 转发配置
//
// 单次转发的时间预算为 BaseTimeout + PerHopTimeout × 剩余跳数，
// 剩余跳数即当前节点到目标的汉明距离。
type ForwardingConfig struct {
	// BaseTimeout 基础超时
	BaseTimeout Duration `json:"base_timeout"`

	// PerHopTimeout 每跳附加超时
	PerHopTimeout Duration `json:"per_hop_timeout"`

	// MaxAttempts 每个请求最多尝试的邻居数
	MaxAttempts int `json:"max_attempts"`

	// DialTimeout 单次建连超时（仍受总预算约束）
	DialTimeout Duration `json:"dial_timeout"`

	// MaxResponseSize 下游响应的大小上限（字节），0 为不限
	//
	// PULL 返回主题的全部消息，不应套用请求上限。
	MaxResponseSize int64 `json:"max_response_size,omitempty"`
}

// DefaultForwardingConfig 返回默认转发配置
func DefaultForwardingConfig() ForwardingConfig {
	return ForwardingConfig{
		BaseTimeout:   Duration(5 * time.Second),
		PerHopTimeout: Duration(2 * time.Second),
		MaxAttempts:   3,
		DialTimeout:   Duration(2 * time.Second),
	}
}

// Budget 返回距离目标 hops 跳时的时间预算
func (c ForwardingConfig) Budget(hops int) time.Duration {
	if hops < 0 {
		hops = 0
	}
	return c.BaseTimeout.Duration() + time.Duration(hops)*c.PerHopTimeout.Duration()
}

// Validate 验证转发配置
func (c *ForwardingConfig) Validate() error {
	if c.BaseTimeout <= 0 {
		return fmt.Errorf("%w: base_timeout %s", ErrInvalidTimeout, c.BaseTimeout)
	}
	if c.PerHopTimeout < 0 {
		return fmt.Errorf("%w: per_hop_timeout %s", ErrInvalidTimeout, c.PerHopTimeout)
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("%w: dial_timeout %s", ErrInvalidTimeout, c.DialTimeout)
	}
	if c.MaxResponseSize < 0 {
		return fmt.Errorf("%w: max_response_size %d", ErrInvalidResponseSize, c.MaxResponseSize)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidAttempts, c.MaxAttempts)
	}
	return nil
}
