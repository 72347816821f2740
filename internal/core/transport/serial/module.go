package serial

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
	Opener     Opener         `optional:"true"`
	Stack      *layer.Stack
	Mux        layer.Handle `name:"mux"`
}

// ProvideDevice 按配置创建串口设备；未启用时返回 nil
func ProvideDevice(in ModuleInput) *Device {
	cfg := in.UnifiedCfg
	if cfg == nil || !cfg.Transport.EnableSerial {
		return nil
	}
	return NewDevice(ConfigFromUnified(cfg),
		transport.Endpoint{Stack: in.Stack, Higher: in.Mux},
		WithOpener(in.Opener))
}

func registerLifecycle(lc fx.Lifecycle, d *Device) {
	if d == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: d.Start,
		OnStop:  d.Stop,
	})
}

// Module 返回串口链路的 Fx 模块
func Module() fx.Option {
	return fx.Module("transport/serial",
		fx.Provide(ProvideDevice),
		fx.Invoke(registerLifecycle),
	)
}
