package serial

import (
	"sync"
	"sync/atomic"

	"go.bug.st/serial"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/core/transport"
	"github.com/dep2p/go-sansio/pkg/types"
)

// Link 一个已打开的串口设备，作为栈底部的链路
//
// 资源标识为 serial:<设备路径>。
type Link struct {
	layer.Node

	port serial.Port
	rid  types.ResourceID

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

var _ layer.Layer = (*Link)(nil)

func newLink(path string, port serial.Port) *Link {
	return &Link{
		port: port,
		rid:  types.DeviceID(path),
		done: make(chan struct{}),
	}
}

// ResourceID 返回设备标识
func (l *Link) ResourceID() types.ResourceID {
	return l.rid
}

// OnReceive 原样上交
func (l *Link) OnReceive(data []byte) error {
	return l.DeliverUp(data)
}

// SendBytes 写入设备
func (l *Link) SendBytes(data []byte) error {
	if l.closed.Load() {
		return transport.ErrLinkClosed
	}
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	_, err := l.port.Write(data)
	return err
}

// SetRTS 设置 RTS 线
//
// 半双工收发器常用 RTS 控制方向，可在 Gate 回调中配合使用。
func (l *Link) SetRTS(on bool) error {
	if l.closed.Load() {
		return transport.ErrLinkClosed
	}
	return l.port.SetRTS(on)
}

// Done 读循环结束后关闭
func (l *Link) Done() <-chan struct{} {
	return l.done
}

// Close 关闭设备
func (l *Link) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		err = l.port.Close()
	})
	return err
}

func (l *Link) serve(ep transport.Endpoint, h layer.Handle, bufSize int) {
	defer close(l.done)

	err := transport.Pump(ep, l, l.port, bufSize)
	if err != nil && !l.closed.Load() {
		log.Warn("设备读取失败", "link", l.rid, "err", err)
	}

	if derr := ep.Disconnect(h); derr != nil {
		log.Warn("设备解绑失败", "link", l.rid, "err", derr)
	}
	_ = l.Close()
	log.Info("设备已断开", "link", l.rid)
}
