package tcp

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/core/transport"
	"github.com/dep2p/go-sansio/pkg/types"
)

// Scheme TCP 链路的资源标识 scheme
const Scheme = "tcp"

// Conn 一条 TCP 连接，作为栈底部的链路
//
// 资源标识为 tcp:<本地地址>|<远端地址>。
type Conn struct {
	layer.Node

	conn net.Conn
	rid  types.ResourceID

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

var _ layer.Layer = (*Conn)(nil)

// NewConn 包装一条已建立的连接
func NewConn(c net.Conn) *Conn {
	return &Conn{
		conn: c,
		rid:  types.EndpointPairID(Scheme, c.LocalAddr(), c.RemoteAddr()),
		done: make(chan struct{}),
	}
}

// ResourceID 返回端点对标识
func (c *Conn) ResourceID() types.ResourceID {
	return c.rid
}

// OnReceive 读循环收到的字节原样上交
func (c *Conn) OnReceive(data []byte) error {
	return c.DeliverUp(data)
}

// SendBytes 写入套接字
func (c *Conn) SendBytes(data []byte) error {
	if c.closed.Load() {
		return transport.ErrLinkClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.conn.Write(data)
	return err
}

// LocalAddr 本地地址
func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr 远端地址
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Done 读循环结束后关闭
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close 关闭连接；读循环随之退出并解绑
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		err = c.conn.Close()
	})
	return err
}

// serve 接入栈并运行读循环，返回前解绑并关闭连接
func (c *Conn) serve(ep transport.Endpoint, h layer.Handle, bufSize int) {
	defer close(c.done)

	err := transport.Pump(ep, c, c.conn, bufSize)
	if err != nil && !c.closed.Load() {
		log.Warn("连接读取失败", "conn", c.rid, "err", err)
	}

	if derr := ep.Disconnect(h); derr != nil {
		log.Warn("连接解绑失败", "conn", c.rid, "err", derr)
	}
	_ = c.Close()
	log.Info("连接已断开", "conn", c.rid)
}
