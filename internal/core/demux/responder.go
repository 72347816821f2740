package demux

import (
	"bytes"

	"github.com/dep2p/go-sansio/internal/core/layer"
	pkgif "github.com/dep2p/go-sansio/pkg/interfaces"
	"github.com/dep2p/go-sansio/pkg/types"
)

// MarkerResponder 携带标记的 passthrough 响应者
//
// 挂在 MarkerIndex 策略的 FanInDemux 之上，其余行为与 Passthrough 相同。
type MarkerResponder struct {
	layer.Passthrough

	marker types.Marker
}

var (
	_ layer.Layer  = (*MarkerResponder)(nil)
	_ pkgif.Marked = (*MarkerResponder)(nil)
)

// NewMarkerResponder 创建在 offset 处以 value 为标记的响应者
func NewMarkerResponder(offset int, value []byte) (*MarkerResponder, error) {
	m, err := types.NewMarker(offset, value)
	if err != nil {
		return nil, err
	}
	return &MarkerResponder{marker: m}, nil
}

// Marker 返回声明的标记
func (r *MarkerResponder) Marker() types.Marker {
	return types.Marker{Slice: r.marker.Slice, Value: bytes.Clone(r.marker.Value)}
}

// PredicateResponder 携带谓词的 passthrough 响应者
type PredicateResponder struct {
	layer.Passthrough

	match func(frame []byte) bool
}

var (
	_ layer.Layer   = (*PredicateResponder)(nil)
	_ pkgif.Matcher = (*PredicateResponder)(nil)
)

// NewPredicateResponder 以谓词创建响应者
func NewPredicateResponder(match func(frame []byte) bool) *PredicateResponder {
	if match == nil {
		panic(layer.ErrNotImplemented)
	}
	return &PredicateResponder{match: match}
}

// Matches 调用谓词
func (r *PredicateResponder) Matches(frame []byte) bool {
	return r.match(frame)
}

// PrefixMatcher 返回匹配固定前缀的谓词
func PrefixMatcher(prefix []byte) func([]byte) bool {
	p := bytes.Clone(prefix)
	return func(frame []byte) bool {
		return bytes.HasPrefix(frame, p)
	}
}
