// Package mux 实现一对多扇出多路复用器
//
// FanOutMux 位于一个上层与任意多个下层之间：
//   - SendBytes 把同一份载荷广播给调用时已绑定的每个下层
//   - OnReceive 不区分来源，原样交给唯一的上层
//
// 下层以 ResourceID 为键登记在 MuxTable 中。重复的键被拒绝（ErrDuplicateResourceID），
// 表保持不变；报告 NotMultiplexable 的下层无法登记（ErrNotMultiplexable）。
//
// # 失败策略
//
// 广播是尽力而为：某个下层失败不会阻止尝试其余下层，
// 全部失败在广播结束后用 multierr 合并为一个错误返回（包装 ErrBroadcastFailed）。
//
// # 嵌套
//
// FanOutMux 自身的 ResourceID 是 NotMultiplexable，因此不能直接挂在另一个 mux 下。
// NewUnsafe 变体暴露一个进程内随机标识以允许嵌套，该标识不稳定，不能持久化。
//
// # 使用示例
//
//	s := layer.NewStack()
//	m := mux.New()
//	hm, _ := s.Add(m)
//	happ, _ := s.Add(app)
//	_ = s.Bind(happ, hm)
//
//	// 协作方 on-connect
//	hc, err := s.Attach(hm, conn)
//
//	// 协作方 on-disconnect
//	_ = s.Detach(hc)
package mux
