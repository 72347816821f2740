package demux

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-sansio/internal/core/layer"
	pkgif "github.com/dep2p/go-sansio/pkg/interfaces"
)

// ModuleInput 依赖参数
type ModuleInput struct {
	fx.In

	Stack    *layer.Stack
	Strategy Strategy       `optional:"true"`
	Reporter pkgif.Reporter `optional:"true"`
}

// ModuleOutput 导出结果
type ModuleOutput struct {
	fx.Out

	Demux  *FanInDemux
	Handle layer.Handle `name:"demux"`
}

// ProvideDemux 创建 FanInDemux 并加入栈
func ProvideDemux(in ModuleInput) (ModuleOutput, error) {
	d := New(in.Strategy, WithReporter(in.Reporter))
	h, err := in.Stack.Add(d)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Demux: d, Handle: h}, nil
}

// Module 返回 demux 的 Fx 模块
func Module() fx.Option {
	return fx.Module("demux",
		fx.Provide(ProvideDemux),
	)
}
