// Package mocks 提供统一的测试 Mock 实现
//
// # 层 Mock（手写，函数式注入 + 调用记录）
//
//   - MockTransport: 模拟具体传输，记录 SendBytes，资源标识可定制
//   - Sink: 模拟应用层，记录 OnReceive
//
// # 协议能力 Mock（mockgen 生成）
//
//   - MockGate: halfduplex.Gate
//   - MockSignalling: halfduplex.Signalling
//
// # 使用示例
//
//	s := layer.NewStack()
//	m := mux.New()
//	hm, _ := s.Add(m)
//
//	a := mocks.NewMockTransport("a")
//	a.SendFunc = func([]byte) error { return errors.New("link down") }
//	_, _ = s.Attach(hm, a)
//
//	err := m.SendBytes([]byte("x"))
//	// err 包含 mock:a 的失败
//
// 生成命令：
//
//	mockgen -destination=tests/mocks/halfduplex.go -package=mocks \
//	    github.com/dep2p/go-sansio/internal/core/halfduplex Gate,Signalling
package mocks
