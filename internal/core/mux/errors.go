package mux

import "errors"

var (
	// ErrDuplicateResourceID 两个下层使用同一资源标识
	ErrDuplicateResourceID = errors.New("duplicate resource id")

	// ErrNotMultiplexable 下层没有可用作键的资源标识
	ErrNotMultiplexable = errors.New("lower layer is not multiplexable")

	// ErrBroadcastFailed 广播中至少一个下层发送失败
	ErrBroadcastFailed = errors.New("broadcast failed")
)
