// Package layer 实现层绑定原语与栈 arena
//
// 一个协议实现被表达为一串小层，层之间只通过两种能力交换字节：
// SendBytes（向下）与 OnReceive（自下而上）。本包不依赖任何具体传输或事件循环。
//
// # 核心类型
//
//   - Stack: 层节点 arena，句柄寻址，负责 Bind/Unbind/Detach/Teardown
//   - Node: 嵌入式绑定原语，持有可选的 higher/lower 句柄
//   - Passthrough: 组合单位元，接收上交、发送下交
//
// # 快速开始
//
//	s := layer.NewStack()
//	hs, err := s.Chain(app, layer.NewPassthrough(), conn)
//	if err != nil {
//	    return err
//	}
//
//	// 协作方收到字节
//	_ = s.Do(func() error { return conn.OnReceive(data) })
//
//	// 连接断开
//	_ = s.Do(func() error { return s.Detach(hs[2]) })
//
// # 绑定语义
//
//   - Bind(higher, lower) 同时设置两侧，并调用双方钩子，多路复用器借此建立索引
//   - 单槽已占用时返回 ErrSlotOccupied，不覆盖
//   - 任一侧失败时回滚，不留单边引用
//   - Unbind 对未绑定的一对返回 ErrNotBound
//   - 成环的绑定返回 ErrCycle
//
// # 资源标识
//
// ResourceID 递归委托给下层，直到具体传输返回自己的标识；
// 到达 FanOutMux 时得到 types.NotMultiplexable。
//
// # 并发
//
// 所有操作都是同步调用。Stack 假设单写者访问，
// 多个 goroutine 驱动同一个栈时经由 Stack.Do 串行化。
package layer
