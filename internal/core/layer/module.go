package layer

import (
	"context"

	"go.uber.org/fx"
)

// Module 返回 layer 的 Fx 模块
//
// 提供全局唯一的 *Stack，停止时从物理底层向内拆除。
func Module() fx.Option {
	return fx.Module("layer",
		fx.Provide(NewStack),
		fx.Invoke(registerLifecycle),
	)
}

func registerLifecycle(lc fx.Lifecycle, s *Stack) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return s.Do(s.Teardown)
		},
	})
}
