package mux

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-sansio/internal/core/layer"
	pkgif "github.com/dep2p/go-sansio/pkg/interfaces"
)

// ModuleInput 依赖参数
type ModuleInput struct {
	fx.In

	Stack    *layer.Stack
	Reporter pkgif.Reporter `optional:"true"`
}

// ModuleOutput 导出结果
type ModuleOutput struct {
	fx.Out

	Mux    *FanOutMux
	Handle layer.Handle `name:"mux"`
}

// ProvideMux 创建 FanOutMux 并加入栈
func ProvideMux(in ModuleInput) (ModuleOutput, error) {
	m := New(WithReporter(in.Reporter))
	h, err := in.Stack.Add(m)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Mux: m, Handle: h}, nil
}

// Module 返回 mux 的 Fx 模块
func Module() fx.Option {
	return fx.Module("mux",
		fx.Provide(ProvideMux),
	)
}
