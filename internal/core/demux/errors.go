package demux

import "errors"

var (
	// ErrUnroutableFrame 谓词扫描没有任何响应者匹配
	ErrUnroutableFrame = errors.New("unroutable frame")

	// ErrUnknownMarker 帧的标记窗口没有登记的响应者
	ErrUnknownMarker = errors.New("unknown marker")

	// ErrIncompatibleMarkerSlice 响应者声明的窗口与 demux 的窗口不同
	ErrIncompatibleMarkerSlice = errors.New("incompatible marker slice")

	// ErrDuplicateMarker 两个响应者声明了同一标记值
	ErrDuplicateMarker = errors.New("duplicate marker")

	// ErrNotMatcher 上层没有实现 Matches
	ErrNotMatcher = errors.New("higher layer does not implement Matches")

	// ErrNotMarked 上层没有声明标记
	ErrNotMarked = errors.New("higher layer does not declare a marker")

	// ErrAlreadyRegistered 同一上层重复登记
	ErrAlreadyRegistered = errors.New("responder already registered")

	// ErrUnknownStrategy 配置中的策略名无法识别
	ErrUnknownStrategy = errors.New("unknown identification strategy")
)
