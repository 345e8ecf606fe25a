package hypercube

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-hypercube/internal/core/addressing"
	"github.com/dep2p/go-hypercube/internal/core/membership"
	"github.com/dep2p/go-hypercube/internal/core/metrics"
	"github.com/dep2p/go-hypercube/internal/core/topicstore"
	"github.com/dep2p/go-hypercube/internal/core/transport"
	"github.com/dep2p/go-hypercube/internal/protocol/forwarding"
	"github.com/dep2p/go-hypercube/internal/protocol/peer"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 注入：配置、节点地址、监听地址、成员表、时钟、指标注册器
//  2. Core Layer: Hasher → TopicStore → Transport → Metrics
//  3. Protocol Layer: Forwarding → Peer
//
// OnStop 按相反顺序执行：先停止接受连接，再关闭传输和存储。
func buildFxApp(r *resolved, n *Node) *fx.App {
	space := r.members.Space()

	modules := []fx.Option{
		// 配置注入
		fx.Supply(r.config),
		fx.Supply(r.self),
		fx.Supply(peer.ListenAddr(r.listenAddr)),
		fx.Provide(
			func() membership.Membership { return r.members },
			func() clock.Clock { return r.clock },
			func() *addressing.Hasher { return addressing.NewHasher(space) },
		),

		// Core Layer
		topicstore.Module(),
		transport.Module(),
		metrics.Module(),

		// Protocol Layer
		forwarding.Module(),
		peer.Module(),

		fx.Populate(&n.peer, &n.store, &n.metrics),
	}

	if r.registerer != nil {
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return r.registerer }))
	}

	// 禁用 Fx 自身的事件日志
	modules = append(modules, fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}))

	return fx.New(modules...)
}
