package hypercube

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/membership"
	"github.com/dep2p/go-hypercube/pkg/types"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 配置（未设置时使用默认配置）
	config *config.Config

	// 节点地址（二进制字符串）
	address string

	// 监听地址（未设置时由成员表解析）
	listenAddr string

	// 成员表（未设置时由配置构造）
	members membership.Membership

	// 指标注册器（未设置时不对外暴露指标）
	registerer prometheus.Registerer

	// 时钟
	clock clock.Clock
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{}
}

// resolved 校验并补全后的节点参数
type resolved struct {
	config     *config.Config
	self       types.NodeAddress
	listenAddr string
	members    membership.Membership
	registerer prometheus.Registerer
	clock      clock.Clock
}

// resolve 校验选项并补全默认值
func (o *options) resolve() (*resolved, error) {
	cfg := o.config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	space, err := cfg.Cluster.Space()
	if err != nil {
		return nil, err
	}

	if o.address == "" {
		return nil, ErrNoAddress
	}
	self, err := space.Parse(o.address)
	if err != nil {
		return nil, fmt.Errorf("invalid node address: %w", err)
	}

	members := o.members
	if members == nil {
		if members, err = membership.FromConfig(cfg.Cluster); err != nil {
			return nil, err
		}
	}
	if members.Space() != space {
		return nil, fmt.Errorf("%w: %s vs %s", ErrSpaceMismatch, members.Space(), space)
	}

	listenAddr := o.listenAddr
	if listenAddr == "" {
		if listenAddr, err = members.Resolve(self); err != nil {
			return nil, fmt.Errorf("resolve listen address: %w", err)
		}
	}

	clk := o.clock
	if clk == nil {
		clk = clock.New()
	}

	return &resolved{
		config:     cfg,
		self:       self,
		listenAddr: listenAddr,
		members:    members,
		registerer: o.registerer,
		clock:      clk,
	}, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              选项函数
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用完整配置
//
// 配置在创建节点时被复制，之后的修改不影响节点。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return config.ErrNilConfig
		}
		o.config = cfg.Clone()
		return nil
	}
}

// WithAddress 设置节点地址，例如 "101"
func WithAddress(addr string) Option {
	return func(o *options) error {
		if _, err := types.ParseNodeAddress(addr); err != nil {
			return fmt.Errorf("invalid node address %q: %w", addr, err)
		}
		o.address = addr
		return nil
	}
}

// WithListenAddr 覆盖监听地址（host:port，端口可为 0）
func WithListenAddr(addr string) Option {
	return func(o *options) error {
		o.listenAddr = addr
		return nil
	}
}

// WithMembership 使用自定义成员表
func WithMembership(m membership.Membership) Option {
	return func(o *options) error {
		o.members = m
		return nil
	}
}

// WithRegistry 在 reg 上注册节点指标
func WithRegistry(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = reg
		return nil
	}
}

// WithClock 设置用于超时与计时的时钟
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		o.clock = c
		return nil
	}
}
