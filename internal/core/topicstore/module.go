package topicstore

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-hypercube/config"
)

// Params 模块依赖
type Params struct {
	fx.In

	Config *config.Config `optional:"true"`
}

// Module 返回主题存储 Fx 模块
//
// 提供 *Store；OnStop 时关闭存储协程与引擎。
func Module() fx.Option {
	return fx.Module("topicstore",
		fx.Provide(ProvideStore),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideStore 按配置创建存储
func ProvideStore(p Params) (*Store, error) {
	cfg := config.DefaultStoreConfig()
	if p.Config != nil {
		cfg = p.Config.Store
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewFromConfig(cfg)
}

func registerLifecycle(lc fx.Lifecycle, s *Store) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if err := s.Close(); err != nil {
				log.Warn("关闭主题存储失败", "error", err)
				return err
			}
			log.Debug("主题存储已关闭")
			return nil
		},
	})
}
