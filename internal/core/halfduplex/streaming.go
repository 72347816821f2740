package halfduplex

import (
	"github.com/dep2p/go-sansio/internal/core/layer"
)

// Signalling 带内信令协议需要提供的能力
type Signalling interface {
	Gate

	// ReceiveByte 按到达顺序逐字节喂给协议
	ReceiveByte(b byte)

	// FilterSentBytes 发送前的转义处理
	FilterSentBytes(data []byte) []byte
}

// TransportBinder 需要回调所在层的协议实现此接口
//
// NewStreaming 在构造时把层交给协议，协议据此调用 DeliverUp 与 GateChanged。
type TransportBinder interface {
	BindTransport(st *StreamingTransport)
}

// StreamingTransport 逐字节处理入站数据的半双工层
//
// 控制信息与数据逐字节交织，无法整块解析。协议在 ReceiveByte 中
// 组装出完整帧后，通过 DeliverUp 交给上层。
type StreamingTransport struct {
	Transport

	sig Signalling
}

var _ layer.Layer = (*StreamingTransport)(nil)

// NewStreaming 创建逐字节半双工层
func NewStreaming(sig Signalling, mode Mode, opts ...Option) *StreamingTransport {
	s := &StreamingTransport{sig: sig}
	s.init(sig, mode, opts)
	if b, ok := sig.(TransportBinder); ok {
		b.BindTransport(s)
	}
	return s
}

// OnReceive 每个字节恰好调用一次 ReceiveByte，不缓冲不重排
func (s *StreamingTransport) OnReceive(data []byte) error {
	for _, b := range data {
		s.sig.ReceiveByte(b)
	}
	return nil
}

// SendBytes 先经 FilterSentBytes 再走半双工发送路径
func (s *StreamingTransport) SendBytes(data []byte) error {
	return s.Transport.SendBytes(s.sig.FilterSentBytes(data))
}
