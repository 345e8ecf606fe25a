package config

import (
	"fmt"
	"net"
)

// MetricsConfig 指标配置
type MetricsConfig struct {
	// Enable 是否在 ListenAddr 暴露 /metrics
	Enable bool `json:"enable"`

	// ListenAddr 指标 HTTP 监听地址
	ListenAddr string `json:"listen_addr"`
}

// DefaultMetricsConfig 返回默认指标配置（关闭）
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		ListenAddr: "127.0.0.1:9100",
	}
}

// Validate 验证指标配置
func (c *MetricsConfig) Validate() error {
	if !c.Enable {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("%w: metrics listen_addr %q: %v", ErrInvalidPort, c.ListenAddr, err)
	}
	return nil
}
