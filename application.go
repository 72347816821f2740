package sansio

import (
	"github.com/dep2p/go-sansio/internal/core/layer"
)

// Handler 应用收到数据时的回调
//
// 回调在栈锁内执行，不得调用 Server.Send；需要回写时使用 Application.SendBytes。
type Handler func(data []byte) error

// Application 栈顶的应用层
type Application struct {
	layer.Node

	handler Handler
}

var _ layer.Layer = (*Application)(nil)

// NewApplication 创建应用层；handler 为 nil 时丢弃收到的数据
func NewApplication(handler Handler) *Application {
	return &Application{handler: handler}
}

// OnReceive 交给回调
func (a *Application) OnReceive(data []byte) error {
	if a.handler == nil {
		return nil
	}
	return a.handler(data)
}

// SendBytes 向下发送
func (a *Application) SendBytes(data []byte) error {
	return a.SendDown(data)
}

// Relay 把收到的每一帧原样向下发送的应用层
//
// 位于 FanOutMux 之上时，任一链路收到的数据广播到全部链路（包括来源链路）。
type Relay struct {
	layer.Node
}

var _ layer.Layer = (*Relay)(nil)

// NewRelay 创建中继应用层
func NewRelay() *Relay {
	return &Relay{}
}

// OnReceive 原样向下发送
func (r *Relay) OnReceive(data []byte) error {
	return r.SendDown(data)
}

// SendBytes 向下发送
func (r *Relay) SendBytes(data []byte) error {
	return r.SendDown(data)
}
