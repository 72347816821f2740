package metrics

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-sansio/config"
	pkgif "github.com/dep2p/go-sansio/pkg/interfaces"
)

// Config 指标配置
type Config struct {
	// Enabled 是否启用指标收集
	Enabled bool
	// ListenAddr 端点地址，空表示不暴露
	ListenAddr string
	// Path 端点路径
	Path string
	// Namespace 指标名前缀
	Namespace string
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Config{
		Enabled:    cfg.Metrics.Enabled,
		ListenAddr: cfg.Metrics.ListenAddr,
		Path:       cfg.Metrics.Path,
		Namespace:  cfg.Metrics.Namespace,
	}
}

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Lifecycle  fx.Lifecycle
}

// Result Metrics 导出结果
type Result struct {
	fx.Out

	Reporter  pkgif.Reporter
	Collector *Collector
}

// ProvideReporter 按配置提供 Reporter
//
// 未启用时提供 NopReporter，Collector 为 nil。
func ProvideReporter(p Params) Result {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if !cfg.Enabled {
		return Result{Reporter: pkgif.NopReporter{}}
	}

	c := NewCollector(cfg.Namespace)
	if cfg.ListenAddr != "" {
		srv := NewServer(c, cfg.ListenAddr, cfg.Path)
		p.Lifecycle.Append(fx.Hook{
			OnStart: srv.Start,
			OnStop:  srv.Stop,
		})
	}
	return Result{Reporter: c, Collector: c}
}

// Module 返回 metrics 的 Fx 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideReporter),
	)
}
