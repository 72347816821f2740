package tcp

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-sansio/config"
	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/core/transport"
)

// ModuleInput 依赖参数
type ModuleInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Stack      *layer.Stack
	Mux        layer.Handle `name:"mux"`
}

// ProvideServer 按配置创建 TCP 服务；未启用时返回 nil
func ProvideServer(in ModuleInput) *Server {
	cfg := in.UnifiedCfg
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if !cfg.Transport.EnableTCP {
		return nil
	}
	return NewServer(ConfigFromUnified(cfg), transport.Endpoint{Stack: in.Stack, Higher: in.Mux})
}

func registerLifecycle(lc fx.Lifecycle, s *Server) {
	if s == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}

// Module 返回 TCP 链路的 Fx 模块
func Module() fx.Option {
	return fx.Module("transport/tcp",
		fx.Provide(ProvideServer),
		fx.Invoke(registerLifecycle),
	)
}
