// Package websocket 实现 WebSocket 链路协作方
//
// Server 在配置的 HTTP 路径上把请求升级为 WebSocket，每个连接成为一个 Conn 层，
// 绑定到接入点之下。每个二进制消息对应一次 SendBytes / OnReceive，
// 消息边界由 WebSocket 帧保留。
//
// # 资源标识
//
//	ws:127.0.0.1:7001|127.0.0.1:53100
package websocket
