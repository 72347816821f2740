package websocket

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/core/transport"
	"github.com/dep2p/go-sansio/pkg/types"
)

// Scheme WebSocket 链路的资源标识 scheme
const Scheme = "ws"

// Conn 一条 WebSocket 连接
//
// 每次 SendBytes 写出一个二进制消息；每个收到的消息作为一次 OnReceive 上交。
type Conn struct {
	layer.Node

	ws  *websocket.Conn
	rid types.ResourceID

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

var _ layer.Layer = (*Conn)(nil)

// NewConn 包装一条已升级的连接
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ws:   ws,
		rid:  types.EndpointPairID(Scheme, ws.LocalAddr(), ws.RemoteAddr()),
		done: make(chan struct{}),
	}
}

// ResourceID 返回端点对标识
func (c *Conn) ResourceID() types.ResourceID {
	return c.rid
}

// OnReceive 原样上交
func (c *Conn) OnReceive(data []byte) error {
	return c.DeliverUp(data)
}

// SendBytes 写出一个二进制消息
func (c *Conn) SendBytes(data []byte) error {
	if c.closed.Load() {
		return transport.ErrLinkClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.BinaryMessage, data)
}

// RemoteAddr 远端地址
func (c *Conn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

// Done 读循环结束后关闭
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close 发送关闭帧并关闭连接
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.writeMu.Lock()
		_ = c.ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) serve(ep transport.Endpoint, h layer.Handle) {
	defer close(c.done)

	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			if !c.closed.Load() && !isNormalClose(err) {
				log.Warn("连接读取失败", "conn", c.rid, "err", err)
			}
			break
		}
		if kind != websocket.BinaryMessage && kind != websocket.TextMessage {
			continue
		}
		if derr := ep.Deliver(c, data); derr != nil {
			log.Warn("上交失败", "conn", c.rid, "size", len(data), "err", derr)
		}
	}

	if derr := ep.Disconnect(h); derr != nil {
		log.Warn("连接解绑失败", "conn", c.rid, "err", derr)
	}
	_ = c.Close()
	log.Info("连接已断开", "conn", c.rid)
}

func isNormalClose(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	return errors.Is(err, net.ErrClosed) || transport.IsClosedErr(err)
}
