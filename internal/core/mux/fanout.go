package mux

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/util/logger"
	pkgif "github.com/dep2p/go-sansio/pkg/interfaces"
	"github.com/dep2p/go-sansio/pkg/types"
)

var log = logger.Component("mux", component)

// component 上报使用的组件名
const component = "fanout"

// FanOutMux 一个上层对多个下层的多路复用器
//
// 发送广播给所有下层；任一下层收到的数据都不加区分地交给唯一的上层。
// 上层要区分来源只能自己检查载荷内容。
type FanOutMux struct {
	layer.Node

	// lowers 以资源标识为键的下层表
	lowers map[types.ResourceID]layer.Handle
	// order 绑定顺序，保证广播顺序可复现
	order []types.ResourceID

	// id 非零时为 unsafe 变体的进程内标识
	id types.ResourceID

	reporter pkgif.Reporter
}

var _ layer.Layer = (*FanOutMux)(nil)

// Option FanOutMux 选项
type Option func(*FanOutMux)

// WithReporter 设置流量上报
func WithReporter(r pkgif.Reporter) Option {
	return func(m *FanOutMux) {
		if r != nil {
			m.reporter = r
		}
	}
}

// New 创建 FanOutMux
func New(opts ...Option) *FanOutMux {
	m := &FanOutMux{
		lowers:   make(map[types.ResourceID]layer.Handle),
		reporter: pkgif.NopReporter{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewUnsafe 创建可被另一个 mux 复用的 FanOutMux
//
// 它以一个进程内随机标识冒充资源标识，只为允许嵌套；
// 该标识在进程重启后不同，不能持久化或跨进程比较。
func NewUnsafe(opts ...Option) *FanOutMux {
	m := New(opts...)
	m.id = types.ResourceID{Scheme: "mux", Key: uuid.NewString()}
	return m
}

// ResourceID 扇出点没有唯一物理资源
func (m *FanOutMux) ResourceID() types.ResourceID {
	return m.id
}

// Unsafe 是否为 unsafe 变体
func (m *FanOutMux) Unsafe() bool {
	return m.id.IsMultiplexable()
}

// BindLower 以下层资源标识登记下层
func (m *FanOutMux) BindLower(h layer.Handle) error {
	lower, err := m.Resolve(h)
	if err != nil {
		return err
	}
	rid := lower.ResourceID()
	if !rid.IsMultiplexable() {
		return fmt.Errorf("lower %s: %w", h, ErrNotMultiplexable)
	}
	if _, ok := m.lowers[rid]; ok {
		return fmt.Errorf("%s: %w", rid, ErrDuplicateResourceID)
	}

	m.lowers[rid] = h
	m.order = append(m.order, rid)
	log.Debug("下层已登记", "resource", rid, "lowers", len(m.lowers))
	return nil
}

// UnbindLower 按登记时的资源标识注销下层
//
// 下层链在拆除过程中可能已失去物理底层，此时它报告的资源标识
// 与登记时不同，因此只按句柄查找登记项。
func (m *FanOutMux) UnbindLower(h layer.Handle) error {
	for i, rid := range m.order {
		if m.lowers[rid] != h {
			continue
		}
		delete(m.lowers, rid)
		m.order = append(m.order[:i], m.order[i+1:]...)
		log.Debug("下层已注销", "resource", rid, "lowers", len(m.lowers))
		return nil
	}
	return fmt.Errorf("lower %s: %w", h, layer.ErrNotBound)
}

// Neighbors 返回上层与全部下层
func (m *FanOutMux) Neighbors() (highers, lowers []layer.Handle) {
	if h := m.HigherHandle(); !h.IsNil() {
		highers = []layer.Handle{h}
	}
	for _, rid := range m.order {
		lowers = append(lowers, m.lowers[rid])
	}
	return highers, lowers
}

// Len 当前下层数量
func (m *FanOutMux) Len() int {
	return len(m.lowers)
}

// Resources 按绑定顺序返回下层资源标识
func (m *FanOutMux) Resources() []types.ResourceID {
	out := make([]types.ResourceID, len(m.order))
	copy(out, m.order)
	return out
}

// Lookup 按资源标识查找下层句柄
func (m *FanOutMux) Lookup(rid types.ResourceID) (layer.Handle, bool) {
	h, ok := m.lowers[rid]
	return h, ok
}

// OnReceive 不区分来源，原样交给上层
func (m *FanOutMux) OnReceive(data []byte) error {
	m.reporter.ObserveReceive(component, len(data))
	return m.DeliverUp(data)
}

// SendBytes 尽力广播给调用时已绑定的全部下层
//
// 一个下层失败不影响其余下层；所有失败在广播结束后合并返回。
func (m *FanOutMux) SendBytes(data []byte) error {
	targets := make([]layer.Handle, 0, len(m.order))
	rids := make([]types.ResourceID, 0, len(m.order))
	for _, rid := range m.order {
		targets = append(targets, m.lowers[rid])
		rids = append(rids, rid)
	}

	var errs error
	for i, h := range targets {
		lower, err := m.Resolve(h)
		if err == nil {
			err = lower.SendBytes(data)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", rids[i], err))
			continue
		}
		m.reporter.ObserveSend(component, len(data))
	}

	if errs != nil {
		failed := len(multierr.Errors(errs))
		m.reporter.ObserveError(component, "broadcast")
		log.Warn("广播部分失败", "failed", failed, "lowers", len(targets), "err", errs)
		return fmt.Errorf("%w: %d of %d lowers: %w", ErrBroadcastFailed, failed, len(targets), errs)
	}
	return nil
}
