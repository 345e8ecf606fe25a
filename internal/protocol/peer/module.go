package peer

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/addressing"
	"github.com/dep2p/go-hypercube/internal/core/metrics"
	"github.com/dep2p/go-hypercube/internal/core/topicstore"
	"github.com/dep2p/go-hypercube/internal/core/transport/tcp"
	"github.com/dep2p/go-hypercube/internal/protocol/forwarding"
	"github.com/dep2p/go-hypercube/pkg/types"
)

// ListenAddr 节点监听地址（host:port）
type ListenAddr string

// Params 模块依赖
type Params struct {
	fx.In

	Self       types.NodeAddress
	ListenAddr ListenAddr
	Hasher     *addressing.Hasher
	Store      *topicstore.Store
	Forwarder  *forwarding.Forwarder
	Transport  *tcp.Transport
	Config     *config.Config   `optional:"true"`
	Metrics    *metrics.Metrics `optional:"true"`
	Clock      clock.Clock      `optional:"true"`
}

// Module 返回节点 Fx 模块
//
// OnStart 开始监听，OnStop 停止接受连接并等待进行中的请求。
func Module() fx.Option {
	return fx.Module("peer",
		fx.Provide(ProvideNode),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideNode 创建节点
func ProvideNode(p Params) *Node {
	opts := []Option{
		WithMetrics(p.Metrics),
		WithClock(p.Clock),
	}
	if p.Config != nil {
		opts = append(opts, WithServerConfig(p.Config.Server))
	}
	return New(p.Self, p.Hasher, p.Store, p.Forwarder, p.Transport, string(p.ListenAddr), opts...)
}

func registerLifecycle(lc fx.Lifecycle, n *Node) {
	lc.Append(fx.Hook{
		OnStart: n.Start,
		OnStop:  n.Stop,
	})
}
