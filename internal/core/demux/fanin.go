package demux

import (
	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/util/logger"
	pkgif "github.com/dep2p/go-sansio/pkg/interfaces"
)

var log = logger.Component("demux", component)

const component = "fanin"

// FanInDemux 多个上层对一个下层的分用器
//
// 每个收到的帧经由策略识别出唯一的上层后原样交付；
// 发送方向所有上层共用同一个下层，不做任何区分。
type FanInDemux struct {
	layer.Node

	strategy Strategy
	reporter pkgif.Reporter
}

var _ layer.Layer = (*FanInDemux)(nil)

// Option FanInDemux 选项
type Option func(*FanInDemux)

// WithReporter 设置流量上报
func WithReporter(r pkgif.Reporter) Option {
	return func(d *FanInDemux) {
		if r != nil {
			d.reporter = r
		}
	}
}

// New 以给定策略创建 FanInDemux
//
// strategy 为 nil 时使用谓词扫描。
func New(strategy Strategy, opts ...Option) *FanInDemux {
	if strategy == nil {
		strategy = NewPredicateScan()
	}
	d := &FanInDemux{
		strategy: strategy,
		reporter: pkgif.NopReporter{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Strategy 返回当前策略
func (d *FanInDemux) Strategy() Strategy {
	return d.strategy
}

// BindHigher 在策略中登记响应者
func (d *FanInDemux) BindHigher(h layer.Handle) error {
	responder, err := d.Resolve(h)
	if err != nil {
		return err
	}
	if err := d.strategy.Register(h, responder); err != nil {
		return err
	}
	log.Debug("响应者已登记", "strategy", d.strategy.Name(), "responder", h)
	return nil
}

// UnbindHigher 从策略中注销响应者
func (d *FanInDemux) UnbindHigher(h layer.Handle) error {
	responder, err := d.Resolve(h)
	if err != nil {
		return err
	}
	if err := d.strategy.Unregister(h, responder); err != nil {
		return err
	}
	log.Debug("响应者已注销", "strategy", d.strategy.Name(), "responder", h)
	return nil
}

// Neighbors 返回全部响应者与下层
func (d *FanInDemux) Neighbors() (highers, lowers []layer.Handle) {
	highers = d.strategy.Handles()
	if h := d.LowerHandle(); !h.IsNil() {
		lowers = []layer.Handle{h}
	}
	return highers, lowers
}

// Len 已登记的响应者数量
func (d *FanInDemux) Len() int {
	return len(d.strategy.Handles())
}

// OnReceive 识别目标后只交付给该响应者
//
// 路由失败时帧不会交给任何响应者，错误原样返回给调用方。
func (d *FanInDemux) OnReceive(data []byte) error {
	d.reporter.ObserveReceive(component, len(data))

	target, err := d.strategy.Identify(data)
	if err != nil {
		d.reporter.ObserveError(component, "route")
		log.Warn("帧无法路由", "strategy", d.strategy.Name(), "size", len(data), "err", err)
		return err
	}
	responder, err := d.Resolve(target)
	if err != nil {
		return err
	}
	return responder.OnReceive(data)
}

// SendBytes 经唯一的下层原样发送
func (d *FanInDemux) SendBytes(data []byte) error {
	if err := d.SendDown(data); err != nil {
		d.reporter.ObserveError(component, "send")
		return err
	}
	d.reporter.ObserveSend(component, len(data))
	return nil
}
