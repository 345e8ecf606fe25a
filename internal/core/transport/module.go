package transport

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/transport/tcp"
	"github.com/dep2p/go-hypercube/internal/util/logger"
)

var log = logger.Logger("transport")

// Params 模块依赖
type Params struct {
	fx.In

	Config *config.Config `optional:"true"`
}

// Module 返回传输层 Fx 模块
//
// 提供 *tcp.Transport；OnStop 时关闭传输及其监听器。
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(ProvideTCP),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideTCP 按转发配置的建连超时创建 TCP 传输
func ProvideTCP(p Params) *tcp.Transport {
	cfg := config.DefaultForwardingConfig()
	if p.Config != nil {
		cfg = p.Config.Forwarding
	}
	log.Debug("创建 TCP 传输", "dialTimeout", cfg.DialTimeout)
	return tcp.NewTransport(tcp.WithDialTimeout(cfg.DialTimeout.Duration()))
}

func registerLifecycle(lc fx.Lifecycle, t *tcp.Transport) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := t.Close(); err != nil {
				log.Warn("关闭 TCP 传输失败", "error", err)
				return err
			}
			return nil
		},
	})
}
