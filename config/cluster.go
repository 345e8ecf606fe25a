package config

import (
	"fmt"
	"net"

	"github.com/dep2p/go-hypercube/pkg/types"
)

// ClusterConfig 集群配置
//
// 节点 n 的默认监听地址为 Host:(BasePort+n)。Peers 非空时改用静态表，
// 键为定宽二进制地址，值为 host:port。
type ClusterConfig struct {
	// Bits 地址宽度，集群规模为 2^Bits
	Bits uint8 `json:"bits"`

	// Host 端口约定下所有节点共用的主机
	Host string `json:"host"`

	// BasePort 节点 000 的端口
	BasePort int `json:"base_port"`

	// Peers 静态成员表
	Peers map[string]string `json:"peers,omitempty"`
}

// DefaultClusterConfig 返回默认集群配置
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		Bits:     types.DefaultAddressBits,
		Host:     "127.0.0.1",
		BasePort: 8000,
	}
}

// Space 返回配置对应的地址空间
func (c ClusterConfig) Space() (types.Space, error) {
	return types.NewSpace(c.Bits)
}

// Validate 验证集群配置
func (c *ClusterConfig) Validate() error {
	space, err := c.Space()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBits, err)
	}

	if len(c.Peers) > 0 {
		for k, v := range c.Peers {
			if _, err := space.Parse(k); err != nil {
				return fmt.Errorf("%w: address %q: %v", ErrInvalidPeer, k, err)
			}
			if _, _, err := net.SplitHostPort(v); err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalidPeer, k, v, err)
			}
		}
		return nil
	}

	if c.Host == "" {
		return fmt.Errorf("%w: empty host", ErrInvalidPort)
	}
	last := c.BasePort + int(space.Size()) - 1
	if c.BasePort <= 0 || last > 65535 {
		return fmt.Errorf("%w: ports %d..%d", ErrInvalidPort, c.BasePort, last)
	}
	return nil
}
