package forwarding

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/membership"
	"github.com/dep2p/go-hypercube/internal/core/metrics"
	"github.com/dep2p/go-hypercube/internal/core/transport/tcp"
	"github.com/dep2p/go-hypercube/pkg/types"
)

// Params 模块依赖
type Params struct {
	fx.In

	Self       types.NodeAddress
	Membership membership.Membership
	Transport  *tcp.Transport
	Config     *config.Config   `optional:"true"`
	Clock      clock.Clock      `optional:"true"`
	Metrics    *metrics.Metrics `optional:"true"`
}

// Module 返回转发器 Fx 模块
func Module() fx.Option {
	return fx.Module("forwarding",
		fx.Provide(ProvideForwarder),
	)
}

// ProvideForwarder 创建转发器
func ProvideForwarder(p Params) *Forwarder {
	cfg := config.DefaultForwardingConfig()
	if p.Config != nil {
		cfg = p.Config.Forwarding
	}
	return New(p.Self, p.Membership, p.Transport, cfg,
		WithClock(p.Clock),
		WithMetrics(p.Metrics),
		WithMaxResponseSize(cfg.MaxResponseSize),
	)
}
