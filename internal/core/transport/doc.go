// Package transport 提供物理链路协作方的公共部分
//
// 具体链路位于子包中：
//   - tcp: 监听 / 拨号 TCP 连接
//   - websocket: HTTP 升级后的 WebSocket 连接
//   - serial: 串口设备
//
// 每条链路都是一个 layer.Layer，处在栈的最底部，并遵循同样的生命周期：
//
//  1. 连接建立：Endpoint.Connect 把链路绑定到接入点之下（通常是 FanOutMux）
//  2. 收到数据：Pump 把字节经 Endpoint.Deliver 交给链路的 OnReceive
//  3. 连接断开：Endpoint.Disconnect 解绑并释放链路，之后才关闭底层资源
//
// 所有进入栈的调用都经由 layer.Stack.Do 串行化。
package transport
