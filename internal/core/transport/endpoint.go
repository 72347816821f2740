package transport

import (
	"fmt"

	"github.com/dep2p/go-sansio/internal/core/layer"
)

// Endpoint 协作方把物理链路接入栈的位置
//
// 链路在 Higher 之下加入 Stack。所有调用都经由 Stack.Do 串行化，
// 读循环所在的 goroutine 与应用发送互不干扰。
type Endpoint struct {
	Stack  *layer.Stack
	Higher layer.Handle
}

// Validate 检查接入点
func (e Endpoint) Validate() error {
	if e.Stack == nil || e.Higher.IsNil() {
		return ErrNoEndpoint
	}
	return nil
}

// Connect on-connect：加入链路并绑定到 Higher 之下
func (e Endpoint) Connect(link layer.Layer) (layer.Handle, error) {
	if err := e.Validate(); err != nil {
		return layer.NilHandle, err
	}
	var h layer.Handle
	err := e.Stack.Do(func() error {
		var err error
		h, err = e.Stack.Attach(e.Higher, link)
		return err
	})
	if err != nil {
		return layer.NilHandle, fmt.Errorf("connect %s: %w", link.ResourceID(), err)
	}
	return h, nil
}

// Deliver 把收到的字节交给链路的 OnReceive
func (e Endpoint) Deliver(link layer.Layer, data []byte) error {
	return e.Stack.Do(func() error {
		return link.OnReceive(data)
	})
}

// Disconnect on-disconnect：解绑并释放链路
func (e Endpoint) Disconnect(h layer.Handle) error {
	return e.Stack.Do(func() error {
		return e.Stack.Detach(h)
	})
}

// Send 从栈外发送：经由 Stack.Do 调用 l.SendBytes
func (e Endpoint) Send(l layer.Layer, data []byte) error {
	return e.Stack.Do(func() error {
		return l.SendBytes(data)
	})
}
