package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-hypercube/pkg/types"
)

// Params 模块依赖
type Params struct {
	fx.In

	Self       types.NodeAddress
	Registerer prometheus.Registerer `optional:"true"`
}

// Module 返回指标 Fx 模块
//
// 未提供 Registerer 时指标只在进程内累计，不对外暴露。
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideMetrics),
	)
}

// ProvideMetrics 创建节点指标并在生命周期内注册
func ProvideMetrics(lc fx.Lifecycle, p Params) *Metrics {
	m := New(p.Self.String())
	if p.Registerer == nil {
		return m
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return m.Register(p.Registerer)
		},
		OnStop: func(context.Context) error {
			m.Unregister(p.Registerer)
			return nil
		},
	})
	return m
}
