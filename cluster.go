package hypercube

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-hypercube/client"
	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/membership"
	"github.com/dep2p/go-hypercube/pkg/types"
)

// ClusterOption 集群选项
type ClusterOption func(*clusterOptions)

type clusterOptions struct {
	ephemeral bool
	host      string
	nodeOpts  []Option
}

// WithEphemeralPorts 每个节点在 host 上绑定系统分配的端口，
// 实际地址登记到共享的静态成员表
func WithEphemeralPorts(host string) ClusterOption {
	return func(o *clusterOptions) {
		o.ephemeral = true
		o.host = host
	}
}

// WithNodeOptions 为每个节点追加选项
func WithNodeOptions(opts ...Option) ClusterOption {
	return func(o *clusterOptions) {
		o.nodeOpts = append(o.nodeOpts, opts...)
	}
}

// Cluster 同一进程中的完整超立方体
type Cluster struct {
	config  *config.Config
	members membership.Membership
	nodes   []*Node

	closeOnce sync.Once
	closeErr  error
}

// StartCluster 启动地址空间中的全部节点
//
// 节点并行启动；任一节点失败时已启动的节点全部关闭。
func StartCluster(ctx context.Context, cfg *config.Config, opts ...ClusterOption) (*Cluster, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	co := &clusterOptions{}
	for _, opt := range opts {
		opt(co)
	}

	space, err := cfg.Cluster.Space()
	if err != nil {
		return nil, err
	}

	var (
		members membership.Membership
		static  *membership.Static
	)
	if co.ephemeral {
		static = membership.NewStatic(space)
		members = static
	} else if members, err = membership.FromConfig(cfg.Cluster); err != nil {
		return nil, err
	}

	c := &Cluster{
		config:  cfg.Clone(),
		members: members,
		nodes:   make([]*Node, space.Size()),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, addr := range space.All() {
		nodeOpts := []Option{
			WithConfig(cfg),
			WithAddress(addr.String()),
			WithMembership(members),
		}
		if co.ephemeral {
			nodeOpts = append(nodeOpts, WithListenAddr(co.host+":0"))
		}
		nodeOpts = append(nodeOpts, co.nodeOpts...)

		g.Go(func() error {
			n, err := Start(gctx, nodeOpts...)
			if err != nil {
				return fmt.Errorf("node %s: %w", addr, err)
			}
			c.nodes[i] = n
			if static != nil {
				return static.Set(addr, n.Addr())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		_ = c.Close()
		return nil, err
	}

	log.Info("集群已启动", "nodes", len(c.nodes), "space", space)
	return c, nil
}

// Nodes 按地址升序返回全部节点
func (c *Cluster) Nodes() []*Node {
	return append([]*Node(nil), c.nodes...)
}

// Node 返回指定地址的节点
func (c *Cluster) Node(addr types.NodeAddress) (*Node, bool) {
	if !c.members.Space().Contains(addr) {
		return nil, false
	}
	n := c.nodes[addr.Value()]
	return n, n != nil
}

// Membership 返回集群共享的成员表
func (c *Cluster) Membership() membership.Membership {
	return c.members
}

// Client 返回访问本集群的客户端
func (c *Cluster) Client(opts ...client.Option) (*client.Client, error) {
	opts = append([]client.Option{client.WithForwardingConfig(c.config.Forwarding)}, opts...)
	return client.New(c.members, opts...)
}

// Close 停止全部节点，返回合并后的错误
func (c *Cluster) Close() error {
	c.closeOnce.Do(func() {
		var (
			mu   sync.Mutex
			errs error
			wg   sync.WaitGroup
		)
		for _, n := range c.nodes {
			if n == nil {
				continue
			}
			wg.Add(1)
			go func(n *Node) {
				defer wg.Done()
				if err := n.Close(); err != nil {
					mu.Lock()
					errs = multierr.Append(errs, fmt.Errorf("node %s: %w", n.Self(), err))
					mu.Unlock()
				}
			}(n)
		}
		wg.Wait()
		c.closeErr = errs
		log.Info("集群已关闭", "error", c.closeErr)
	})
	return c.closeErr
}
