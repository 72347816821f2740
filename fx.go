package sansio

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-sansio/config"
	"github.com/dep2p/go-sansio/internal/core/demux"
	"github.com/dep2p/go-sansio/internal/core/halfduplex"
	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/core/metrics"
	"github.com/dep2p/go-sansio/internal/core/mux"
	"github.com/dep2p/go-sansio/internal/core/transport/serial"
	"github.com/dep2p/go-sansio/internal/core/transport/tcp"
	"github.com/dep2p/go-sansio/internal/core/transport/websocket"
	pkgif "github.com/dep2p/go-sansio/pkg/interfaces"
	"github.com/dep2p/go-sansio/pkg/types"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. Stack → Metrics → FanOutMux（→ FanInDemux）
//  2. assemble：在 mux 之上装配层链与栈顶
//  3. 链路协作方：TCP / WebSocket / Serial，按配置启用
//
// Fx 按注册的逆序执行 OnStop：链路先断开，最后拆除整个栈。
func buildFxApp(cfg *config.Config, o *options, s *Server) (*fx.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(cfg),

		layer.Module(),
		metrics.Module(),
		mux.Module(),
	}

	if len(o.responders) > 0 {
		modules = append(modules,
			fx.Provide(strategyFromConfig),
			demux.Module(),
		)
	}

	modules = append(modules,
		fx.Invoke(func(p assembleParams) error {
			return s.assemble(p, cfg, o)
		}),

		tcp.Module(),
		websocket.Module(),
		serial.Module(),

		fx.Populate(&s.tcp, &s.ws, &s.serial, &s.collector),
	)

	modules = append(modules, o.fxOpts...)

	modules = append(modules, fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}))

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	return app, nil
}

// strategyFromConfig 按 demux 配置创建分发策略
func strategyFromConfig(cfg *config.Config) (demux.Strategy, error) {
	slice := types.MarkerSlice{Offset: cfg.Demux.MarkerOffset, Length: cfg.Demux.MarkerLength}
	return demux.NewStrategy(cfg.Demux.Strategy, slice)
}

// assembleParams 装配所需的组件
type assembleParams struct {
	fx.In

	Stack     *layer.Stack
	Mux       *mux.FanOutMux
	MuxHandle layer.Handle `name:"mux"`
	Reporter  pkgif.Reporter

	Demux       *demux.FanInDemux `optional:"true"`
	DemuxHandle layer.Handle      `name:"demux" optional:"true"`
}

// assemble 在 mux 之上自下而上装配：WithLayers → 半双工 → 栈顶
func (s *Server) assemble(p assembleParams, cfg *config.Config, o *options) error {
	s.stack = p.Stack
	s.mux = p.Mux

	return p.Stack.Do(func() error {
		lower := p.MuxHandle

		for i := len(o.layers) - 1; i >= 0; i-- {
			h, err := p.Stack.AttachAbove(lower, o.layers[i])
			if err != nil {
				return fmt.Errorf("attach layer %d: %w", i, err)
			}
			lower = h
		}

		if o.gate != nil || o.signalling != nil {
			mode, err := halfduplex.ParseMode(cfg.HalfDuplex.Mode)
			if err != nil {
				return err
			}
			var hd halfDuplex
			var l layer.Layer
			if o.signalling != nil {
				st := halfduplex.NewStreaming(o.signalling, mode, halfduplex.WithReporter(p.Reporter))
				hd, l = st, st
			} else {
				t := halfduplex.New(o.gate, mode, halfduplex.WithReporter(p.Reporter))
				hd, l = t, t
			}
			h, err := p.Stack.AttachAbove(lower, l)
			if err != nil {
				return fmt.Errorf("attach half-duplex: %w", err)
			}
			s.hd = hd
			lower = h
			log.Debug("半双工层已装配", "mode", mode)
		}

		if p.Demux != nil {
			if err := p.Stack.Bind(p.DemuxHandle, lower); err != nil {
				return fmt.Errorf("bind demux: %w", err)
			}
			for i, r := range o.responders {
				if _, err := p.Stack.AttachAbove(p.DemuxHandle, r); err != nil {
					return fmt.Errorf("attach responder %d: %w", i, err)
				}
			}
			s.demux = p.Demux
			s.top = p.Demux
			log.Debug("分发器已装配", "strategy", p.Demux.Strategy().Name(), "responders", len(o.responders))
			return nil
		}

		app := o.app
		if app == nil {
			app = NewApplication(nil)
		}
		if _, err := p.Stack.AttachAbove(lower, app); err != nil {
			return fmt.Errorf("attach application: %w", err)
		}
		s.top = app
		return nil
	})
}
