package types

import (
	"bytes"
	"errors"
	"fmt"
)

// ============================================================================
//                              Marker - 标记字节
// ============================================================================

// ErrInvalidMarker 无效的标记声明
var ErrInvalidMarker = errors.New("invalid marker")

// MarkerSlice 帧内用作路由判别键的固定字节窗口 [Offset, Offset+Length)
type MarkerSlice struct {
	Offset int
	Length int
}

// Validate 校验窗口
func (s MarkerSlice) Validate() error {
	if s.Offset < 0 || s.Length <= 0 {
		return fmt.Errorf("%w: window %s", ErrInvalidMarker, s)
	}
	return nil
}

// End 窗口结束位置（不含）
func (s MarkerSlice) End() int {
	return s.Offset + s.Length
}

// Extract 取出帧中窗口内的字节；帧太短返回 false
//
// 返回的切片与 frame 共享底层数组。
func (s MarkerSlice) Extract(frame []byte) ([]byte, bool) {
	if s.Offset < 0 || s.Length <= 0 || len(frame) < s.End() {
		return nil, false
	}
	return frame[s.Offset:s.End()], true
}

// String 返回 [start:end] 形式
func (s MarkerSlice) String() string {
	return fmt.Sprintf("[%d:%d]", s.Offset, s.End())
}

// Marker 响应者声明的标记：窗口 + 字面值
type Marker struct {
	Slice MarkerSlice
	Value []byte
}

// NewMarker 以 offset 和字面值构造标记，窗口长度取字面值长度
func NewMarker(offset int, value []byte) (Marker, error) {
	m := Marker{
		Slice: MarkerSlice{Offset: offset, Length: len(value)},
		Value: bytes.Clone(value),
	}
	if err := m.Validate(); err != nil {
		return Marker{}, err
	}
	return m, nil
}

// Validate 校验窗口与字面值长度一致
func (m Marker) Validate() error {
	if err := m.Slice.Validate(); err != nil {
		return err
	}
	if len(m.Value) != m.Slice.Length {
		return fmt.Errorf("%w: value length %d does not fit window %s", ErrInvalidMarker, len(m.Value), m.Slice)
	}
	return nil
}

// Key 用作索引键的字符串形式
func (m Marker) Key() string {
	return string(m.Value)
}

// Matches 帧在窗口内是否携带本标记
func (m Marker) Matches(frame []byte) bool {
	got, ok := m.Slice.Extract(frame)
	return ok && bytes.Equal(got, m.Value)
}

// String 返回便于日志的表示
func (m Marker) String() string {
	return fmt.Sprintf("%x@%s", m.Value, m.Slice)
}
