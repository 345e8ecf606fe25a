// Package config 提供 go-hypercube 的统一配置
//
// 主 Config 嵌入各子配置，每个子配置在独立文件中定义，
// 自带 DefaultXxxConfig 与 Validate。
//
// 使用示例：
//
//	cfg := config.DefaultConfig()
//	cfg.Cluster.Bits = 4
//	cfg.Forwarding.MaxAttempts = 2
//
//	// 从 JSON 文件加载（未出现的字段保留默认值）
//	cfg, err := config.LoadFile("hypercube.json")
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config go-hypercube 节点配置
type Config struct {
	// Cluster 集群拓扑与成员
	Cluster ClusterConfig `json:"cluster"`

	// Forwarding 转发超时与重试
	Forwarding ForwardingConfig `json:"forwarding"`

	// Server 请求服务端
	Server ServerConfig `json:"server"`

	// Store 主题存储
	Store StoreConfig `json:"store"`

	// Metrics 指标
	Metrics MetricsConfig `json:"metrics"`
}

// DefaultConfig 返回默认配置（8 节点，127.0.0.1:8000 起）
func DefaultConfig() *Config {
	return &Config{
		Cluster:    DefaultClusterConfig(),
		Forwarding: DefaultForwardingConfig(),
		Server:     DefaultServerConfig(),
		Store:      DefaultStoreConfig(),
		Metrics:    DefaultMetricsConfig(),
	}
}

// Validate 依次验证所有子配置
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if err := c.Cluster.Validate(); err != nil {
		return err
	}
	if err := c.Forwarding.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Metrics.Validate()
}

// Clone 深拷贝配置
func (c *Config) Clone() *Config {
	out := *c
	if c.Cluster.Peers != nil {
		out.Cluster.Peers = make(map[string]string, len(c.Cluster.Peers))
		for k, v := range c.Cluster.Peers {
			out.Cluster.Peers[k] = v
		}
	}
	return &out
}

// FromJSON 在默认配置之上解析 JSON 并验证
func FromJSON(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return FromJSON(data)
}
