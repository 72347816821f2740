package mocks

import (
	"bytes"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/pkg/types"
)

// MockTransport 模拟具体传输（物理底层协作方）
type MockTransport struct {
	layer.Node

	// ID 资源标识
	ID types.ResourceID

	// 可覆盖的方法
	SendFunc func(data []byte) error

	// 调用记录
	SendCalls int
	Sent      [][]byte
}

var _ layer.Layer = (*MockTransport)(nil)

// NewMockTransport 创建以 mock:<key> 为资源标识的 MockTransport
func NewMockTransport(key string) *MockTransport {
	return &MockTransport{ID: types.MustResourceID("mock", key)}
}

// OnReceive 协作方入口：数据从介质到达
func (m *MockTransport) OnReceive(data []byte) error {
	return m.DeliverUp(data)
}

// SendBytes 记录发送；SendFunc 返回错误时不记入 Sent
func (m *MockTransport) SendBytes(data []byte) error {
	m.SendCalls++
	if m.SendFunc != nil {
		if err := m.SendFunc(data); err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, bytes.Clone(data))
	return nil
}

// ResourceID 返回 ID
func (m *MockTransport) ResourceID() types.ResourceID {
	return m.ID
}

// Sink 模拟应用层：记录收到的数据
type Sink struct {
	layer.Node

	// 可覆盖的方法
	OnReceiveFunc func(data []byte) error

	// 调用记录
	Received [][]byte
}

var _ layer.Layer = (*Sink)(nil)

// NewSink 创建 Sink
func NewSink() *Sink {
	return &Sink{}
}

// OnReceive 记录数据
func (s *Sink) OnReceive(data []byte) error {
	s.Received = append(s.Received, bytes.Clone(data))
	if s.OnReceiveFunc != nil {
		return s.OnReceiveFunc(data)
	}
	return nil
}

// SendBytes 下交
func (s *Sink) SendBytes(data []byte) error {
	return s.SendDown(data)
}

// ReceivedCount 收到的数据条数
func (s *Sink) ReceivedCount() int {
	return len(s.Received)
}
