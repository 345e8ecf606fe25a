package hypercube

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-hypercube/client"
	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/membership"
	"github.com/dep2p/go-hypercube/internal/core/metrics"
	"github.com/dep2p/go-hypercube/internal/core/topicstore"
	"github.com/dep2p/go-hypercube/internal/protocol/peer"
	"github.com/dep2p/go-hypercube/internal/protocol/wire"
	"github.com/dep2p/go-hypercube/internal/util/logger"
	"github.com/dep2p/go-hypercube/pkg/types"
)

var log = logger.Logger("hypercube")

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期常量
// ════════════════════════════════════════════════════════════════════════════

const (
	// startTimeout Fx App 启动超时
	startTimeout = 30 * time.Second

	// stopTimeout 关闭时等待进行中请求的上限
	stopTimeout = 10 * time.Second
)

// Node 超立方体中的一个对等节点
type Node struct {
	mu      sync.Mutex
	app     *fx.App
	config  *config.Config
	self    types.NodeAddress
	members membership.Membership

	// 由 Fx 填充
	peer    *peer.Node
	store   *topicstore.Store
	metrics *metrics.Metrics

	started bool
	closed  bool
}

// New 创建节点（不启动）
func New(opts ...Option) (*Node, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	r, err := o.resolve()
	if err != nil {
		return nil, err
	}

	n := &Node{
		config:  r.config,
		self:    r.self,
		members: r.members,
	}
	n.app = buildFxApp(r, n)
	if err := n.app.Err(); err != nil {
		return nil, fmt.Errorf("build node: %w", err)
	}
	return n, nil
}

// Start 创建并启动节点
func Start(ctx context.Context, opts ...Option) (*Node, error) {
	n, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := n.Start(ctx); err != nil {
		return nil, err
	}
	return n, nil
}

// Start 启动节点：打开存储、开始监听
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if n.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := n.app.Start(startCtx); err != nil {
		log.Error("节点启动失败", "node", n.self, "error", err)
		return fmt.Errorf("start failed: %w", err)
	}
	n.started = true

	log.Info("节点已就绪", "node", n.self, "addr", n.peer.Addr(), "space", n.members.Space())
	return nil
}

// Stop 停止节点
//
// 停止后的节点不能再次启动：主题存储已关闭。
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.started {
		return ErrNotStarted
	}
	n.started = false
	n.closed = true

	if err := n.app.Stop(ctx); err != nil {
		log.Warn("节点停止出错", "node", n.self, "error", err)
		return err
	}
	return nil
}

// Close 停止节点，未启动时只标记关闭
func (n *Node) Close() error {
	n.mu.Lock()
	started := n.started
	n.closed = true
	n.mu.Unlock()

	if !started {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return n.Stop(ctx)
}

// Self 返回节点地址
func (n *Node) Self() types.NodeAddress {
	return n.self
}

// Addr 返回节点的实际监听地址
func (n *Node) Addr() string {
	return n.peer.Addr()
}

// Config 返回节点配置的副本
func (n *Node) Config() *config.Config {
	return n.config.Clone()
}

// Membership 返回节点使用的成员表
func (n *Node) Membership() membership.Membership {
	return n.members
}

// Handle 在进程内处理一个命令，效果与经网络到达本节点相同
func (n *Node) Handle(ctx context.Context, cmd wire.Command) (wire.Response, error) {
	n.mu.Lock()
	started := n.started
	n.mu.Unlock()
	if !started {
		return wire.Response{}, ErrNotStarted
	}
	return n.peer.Handle(ctx, wire.NewRequest(cmd)), nil
}

// TopicCount 返回本节点持有的主题数
func (n *Node) TopicCount(ctx context.Context) (int, error) {
	return n.store.Count(ctx)
}

// Client 返回使用本节点成员表的客户端
func (n *Node) Client(opts ...client.Option) (*client.Client, error) {
	opts = append([]client.Option{client.WithForwardingConfig(n.config.Forwarding)}, opts...)
	return client.New(n.members, opts...)
}
