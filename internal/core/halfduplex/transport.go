package halfduplex

import (
	"bytes"
	"sync/atomic"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/util/logger"
	pkgif "github.com/dep2p/go-sansio/pkg/interfaces"
)

var log = logger.Component("halfduplex", component)

const component = "halfduplex"

// Transport 半双工层：轮流发送的闸门加出站队列
//
// 立即模式下等同于 Passthrough；延迟模式下发送先入队，
// 闸门打开时按入队顺序逐个下交，每个缓冲恰好一次。
type Transport struct {
	layer.Node

	gate  Gate
	mode  Mode
	queue OutboundQueue

	draining atomic.Bool
	state    atomic.Int32

	reporter pkgif.Reporter
}

var _ layer.Layer = (*Transport)(nil)

// Option Transport 选项
type Option func(*Transport)

// WithReporter 设置队列深度上报
func WithReporter(r pkgif.Reporter) Option {
	return func(t *Transport) {
		if r != nil {
			t.reporter = r
		}
	}
}

// New 创建半双工层
//
// gate 为 nil 是编程错误，直接 panic。
func New(gate Gate, mode Mode, opts ...Option) *Transport {
	t := &Transport{}
	t.init(gate, mode, opts)
	return t
}

func (t *Transport) init(gate Gate, mode Mode, opts []Option) {
	if gate == nil {
		panic(layer.ErrNotImplemented)
	}
	t.gate = gate
	t.mode = mode
	t.reporter = pkgif.NopReporter{}
	for _, opt := range opts {
		opt(t)
	}
}

// Mode 返回发送模式
func (t *Transport) Mode() Mode {
	return t.mode
}

// State 返回最近一次 GateChanged 记录的闸门状态
func (t *Transport) State() State {
	return State(t.state.Load())
}

// Pending 队列中尚未下交的缓冲数
func (t *Transport) Pending() int {
	return t.queue.Len()
}

// OnReceive 原样上交
func (t *Transport) OnReceive(data []byte) error {
	return t.DeliverUp(data)
}

// SendBytes 按模式发送
//
// 延迟模式下入队的是数据副本，调用方返回后可以复用 data。
func (t *Transport) SendBytes(data []byte) error {
	if t.mode == ModeImmediate {
		return t.SendDown(data)
	}
	depth := t.queue.Push(bytes.Clone(data))
	t.reporter.ObserveQueueDepth(component, depth)
	return t.Drain()
}

// Drain 闸门打开期间按 FIFO 下交队列中的缓冲
//
// 可重复调用；正在进行的 Drain 期间再次调用立即返回，
// 其间入队的缓冲由正在进行的 Drain 在释放前复查并下交。
// 下层发送失败时该缓冲留在队首，错误返回给调用方。
func (t *Transport) Drain() error {
	for {
		if !t.draining.CompareAndSwap(false, true) {
			return nil
		}
		err := t.drainOnce()
		t.draining.Store(false)
		if err != nil {
			return err
		}
		// 释放标志前入队的生产者已放弃 Drain，由这里接手
		if t.queue.Len() == 0 || !t.gate.CanTransmit() {
			return nil
		}
	}
}

func (t *Transport) drainOnce() error {
	for t.gate.CanTransmit() {
		buf, ok := t.queue.Peek()
		if !ok {
			return nil
		}
		if err := t.SendDown(buf); err != nil {
			t.reporter.ObserveError(component, "drain")
			log.Warn("出站缓冲下交失败", "pending", t.queue.Len(), "err", err)
			return err
		}
		t.reporter.ObserveQueueDepth(component, t.queue.Pop())
	}
	return nil
}

// GateChanged 具体协议在闸门每次变化后调用
//
// 状态只由 GateChanged 记录，协议必须在每次变化后调用一次，
// 否则连续两次变化会被合并。
// BLOCKED→OPEN 时隐式 Drain；OPEN→BLOCKED 不影响已入队的缓冲。
func (t *Transport) GateChanged() error {
	open := t.gate.CanTransmit()
	prev := State(t.state.Swap(int32(stateOf(open))))
	if prev == StateBlocked && open {
		log.Debug("闸门打开", "pending", t.queue.Len())
		return t.Drain()
	}
	return nil
}
