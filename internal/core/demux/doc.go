// Package demux 实现多对一的扇入分用器
//
// FanInDemux 位于多个上层响应者与一个下层之间。每个收到的帧由一种可插拔的
// 识别策略选出唯一的目标响应者，原样交付给它；发送方向所有响应者共用同一个下层。
//
// # 识别策略
//
//   - PredicateScan: 响应者实现 Matches(frame) bool，按登记顺序扫描，第一个匹配者胜出；
//     无人匹配返回 ErrUnroutableFrame
//   - MarkerIndex: 所有响应者声明同一个 MarkerSlice 与各自的字面值，
//     取出帧中窗口字节直接查表；未命中或帧太短返回 ErrUnknownMarker
//
// 窗口不一致的响应者在绑定时即被拒绝（ErrIncompatibleMarkerSlice），
// 已登记的响应者不受影响。
//
// # 使用示例
//
//	idx, _ := demux.NewMarkerIndex(types.MarkerSlice{Offset: 0, Length: 1})
//	d := demux.New(idx)
//	r1, _ := demux.NewMarkerResponder(0, []byte{0x41})
//	r2, _ := demux.NewMarkerResponder(0, []byte{0x42})
//
//	s := layer.NewStack()
//	hd, _ := s.Add(d)
//	h1, _ := s.Add(r1)
//	h2, _ := s.Add(r2)
//	_ = s.Bind(h1, hd)
//	_ = s.Bind(h2, hd)
//
// # 路由失败
//
// 路由错误从 OnReceive 同步返回给调用它的协作方，帧不会交给任何响应者，
// 也不会被静默丢弃。
package demux
