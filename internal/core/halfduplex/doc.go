// Package halfduplex 实现轮流发送的半双工层
//
// Transport 持有具体协议提供的 Gate 与一个出站队列：
//
//   - ModeImmediate: 每次 SendBytes 直接下交，忽略闸门
//   - ModeDeferred: 每次 SendBytes 入队，闸门打开时由 Drain 按 FIFO 下交
//
// 延迟模式下 Transport 记录最近观察到的闸门状态（BLOCKED / OPEN）。
// 具体协议在内部状态进入可发送阶段后调用 GateChanged，
// BLOCKED→OPEN 触发一次隐式 Drain；OPEN→BLOCKED 不动队列。
//
// StreamingTransport 面向带内信令协议：入站数据逐字节交给 ReceiveByte，
// 出站数据先经 FilterSentBytes 转义，再走半双工发送路径。
//
// # 使用示例
//
//	proto := newMyProtocol()
//	st := halfduplex.NewStreaming(proto, halfduplex.ModeDeferred)
//	_, err := stack.Chain(app, st, serialConn)
package halfduplex
