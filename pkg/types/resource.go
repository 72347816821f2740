package types

import (
	"errors"
	"net"
	"strings"
)

// ============================================================================
//                              ResourceID - 资源标识
// ============================================================================

// ResourceID 链路最底层物理资源的不透明标识
//
// 用作多路复用器的键，例如：
//   - tcp:127.0.0.1:4001|127.0.0.1:52114（本端|对端）
//   - serial:/dev/ttyUSB0
//
// 零值即 NotMultiplexable，与任何真实资源都不相等。
type ResourceID struct {
	// Scheme 资源类别（tcp/ws/serial/mux/...）
	Scheme string

	// Key 类别内唯一的键
	Key string
}

// NotMultiplexable 表示链路没有唯一底层资源（例如 FanOutMux 的输出）
var NotMultiplexable = ResourceID{}

// ErrInvalidResourceID 无效的资源标识
var ErrInvalidResourceID = errors.New("invalid resource id: scheme and key are required")

// NewResourceID 创建资源标识
func NewResourceID(scheme, key string) (ResourceID, error) {
	scheme = strings.TrimSpace(scheme)
	if scheme == "" || key == "" {
		return NotMultiplexable, ErrInvalidResourceID
	}
	return ResourceID{Scheme: scheme, Key: key}, nil
}

// MustResourceID 创建资源标识，参数无效时 panic
//
// 仅用于常量式构造和测试代码。
func MustResourceID(scheme, key string) ResourceID {
	id, err := NewResourceID(scheme, key)
	if err != nil {
		panic(err)
	}
	return id
}

// EndpointPairID 由本端/对端地址构造资源标识
func EndpointPairID(scheme string, local, remote net.Addr) ResourceID {
	var l, r string
	if local != nil {
		l = local.String()
	}
	if remote != nil {
		r = remote.String()
	}
	return ResourceID{Scheme: scheme, Key: l + "|" + r}
}

// DeviceID 由设备路径构造资源标识
func DeviceID(path string) ResourceID {
	return ResourceID{Scheme: "serial", Key: path}
}

// IsMultiplexable 是否可作为多路复用键
func (id ResourceID) IsMultiplexable() bool {
	return id != NotMultiplexable
}

// String 返回 scheme:key 形式
func (id ResourceID) String() string {
	if !id.IsMultiplexable() {
		return "<not-multiplexable>"
	}
	return id.Scheme + ":" + id.Key
}
