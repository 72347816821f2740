package demux

import (
	"fmt"

	"github.com/dep2p/go-sansio/internal/core/layer"
	pkgif "github.com/dep2p/go-sansio/pkg/interfaces"
	"github.com/dep2p/go-sansio/pkg/types"
)

// 策略名
const (
	StrategyPredicate = "predicate"
	StrategyMarker    = "marker"
)

// Strategy 响应者登记表与识别算法
//
// 一个 FanInDemux 只使用一种策略。Register/Unregister 失败时登记表保持不变。
type Strategy interface {
	// Name 策略名
	Name() string

	// Register 登记响应者
	Register(h layer.Handle, responder layer.Layer) error

	// Unregister 注销响应者
	Unregister(h layer.Handle, responder layer.Layer) error

	// Identify 为帧选出唯一的目标响应者
	Identify(frame []byte) (layer.Handle, error)

	// Handles 按登记顺序返回全部响应者
	Handles() []layer.Handle
}

// ============================================================================
//                              PredicateScan
// ============================================================================

type predicateEntry struct {
	handle  layer.Handle
	matcher pkgif.Matcher
}

// PredicateScan 按登记顺序线性扫描，第一个匹配者胜出
type PredicateScan struct {
	entries []predicateEntry
}

var _ Strategy = (*PredicateScan)(nil)

// NewPredicateScan 创建谓词扫描策略
func NewPredicateScan() *PredicateScan {
	return &PredicateScan{}
}

// Name 返回 "predicate"
func (p *PredicateScan) Name() string {
	return StrategyPredicate
}

// Register 追加到扫描序列末尾
func (p *PredicateScan) Register(h layer.Handle, responder layer.Layer) error {
	m, ok := responder.(pkgif.Matcher)
	if !ok {
		return fmt.Errorf("responder %s: %w", h, ErrNotMatcher)
	}
	for _, e := range p.entries {
		if e.handle == h {
			return fmt.Errorf("responder %s: %w", h, ErrAlreadyRegistered)
		}
	}
	p.entries = append(p.entries, predicateEntry{handle: h, matcher: m})
	return nil
}

// Unregister 按身份移除第一个相同的条目
func (p *PredicateScan) Unregister(h layer.Handle, _ layer.Layer) error {
	for i, e := range p.entries {
		if e.handle == h {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("responder %s: %w", h, layer.ErrNotBound)
}

// Identify 返回第一个匹配的响应者
func (p *PredicateScan) Identify(frame []byte) (layer.Handle, error) {
	for _, e := range p.entries {
		if e.matcher.Matches(frame) {
			return e.handle, nil
		}
	}
	return layer.NilHandle, fmt.Errorf("%w: %d bytes, %d responders", ErrUnroutableFrame, len(frame), len(p.entries))
}

// Handles 按登记顺序返回
func (p *PredicateScan) Handles() []layer.Handle {
	out := make([]layer.Handle, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.handle
	}
	return out
}

// ============================================================================
//                              MarkerIndex
// ============================================================================

// MarkerIndex 以固定窗口内的字面值直接查表
//
// 所有响应者必须声明与索引相同的窗口。
type MarkerIndex struct {
	slice types.MarkerSlice
	byKey map[string]layer.Handle
	order []string
}

var _ Strategy = (*MarkerIndex)(nil)

// NewMarkerIndex 以共享窗口创建标记索引策略
func NewMarkerIndex(slice types.MarkerSlice) (*MarkerIndex, error) {
	if err := slice.Validate(); err != nil {
		return nil, err
	}
	return &MarkerIndex{
		slice: slice,
		byKey: make(map[string]layer.Handle),
	}, nil
}

// Name 返回 "marker"
func (m *MarkerIndex) Name() string {
	return StrategyMarker
}

// Slice 返回共享窗口
func (m *MarkerIndex) Slice() types.MarkerSlice {
	return m.slice
}

func (m *MarkerIndex) markerOf(h layer.Handle, responder layer.Layer) (types.Marker, error) {
	marked, ok := responder.(pkgif.Marked)
	if !ok {
		return types.Marker{}, fmt.Errorf("responder %s: %w", h, ErrNotMarked)
	}
	mk := marked.Marker()
	if mk.Slice != m.slice {
		return types.Marker{}, fmt.Errorf("%w: responder %s declares %s, demux uses %s",
			ErrIncompatibleMarkerSlice, h, mk.Slice, m.slice)
	}
	if err := mk.Validate(); err != nil {
		return types.Marker{}, fmt.Errorf("responder %s: %w", h, err)
	}
	return mk, nil
}

// Register 以标记值登记
func (m *MarkerIndex) Register(h layer.Handle, responder layer.Layer) error {
	mk, err := m.markerOf(h, responder)
	if err != nil {
		return err
	}
	key := mk.Key()
	if prev, ok := m.byKey[key]; ok {
		if prev == h {
			return fmt.Errorf("responder %s: %w", h, ErrAlreadyRegistered)
		}
		return fmt.Errorf("%s: %w", mk, ErrDuplicateMarker)
	}
	m.byKey[key] = h
	m.order = append(m.order, key)
	return nil
}

// Unregister 以标记值移除
func (m *MarkerIndex) Unregister(h layer.Handle, responder layer.Layer) error {
	mk, err := m.markerOf(h, responder)
	if err != nil {
		return err
	}
	key := mk.Key()
	if bound, ok := m.byKey[key]; !ok || bound != h {
		return fmt.Errorf("%s: %w", mk, layer.ErrNotBound)
	}
	delete(m.byKey, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Identify 取出窗口字节并查表
func (m *MarkerIndex) Identify(frame []byte) (layer.Handle, error) {
	got, ok := m.slice.Extract(frame)
	if !ok {
		return layer.NilHandle, fmt.Errorf("%w: frame of %d bytes shorter than window %s",
			ErrUnknownMarker, len(frame), m.slice)
	}
	h, ok := m.byKey[string(got)]
	if !ok {
		return layer.NilHandle, fmt.Errorf("%w: %x at %s", ErrUnknownMarker, got, m.slice)
	}
	return h, nil
}

// Handles 按登记顺序返回
func (m *MarkerIndex) Handles() []layer.Handle {
	out := make([]layer.Handle, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.byKey[k])
	}
	return out
}

// NewStrategy 按名称创建策略；marker 策略使用给定窗口
func NewStrategy(name string, slice types.MarkerSlice) (Strategy, error) {
	switch name {
	case "", StrategyPredicate:
		return NewPredicateScan(), nil
	case StrategyMarker:
		return NewMarkerIndex(slice)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
