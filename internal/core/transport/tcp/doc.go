// Package tcp 实现 TCP 链路协作方
//
// Server 接受客户端连接，每个连接成为一个 Conn 层，绑定到接入点（通常是 FanOutMux）之下；
// Dial 建立出站连接并同样绑定。连接断开时读循环自动解绑。
//
// # 资源标识
//
//	tcp:127.0.0.1:7000|127.0.0.1:53012
//
// # 使用示例
//
//	ep := transport.Endpoint{Stack: s, Higher: hmux}
//	srv := tcp.NewServer(tcp.Config{ListenAddr: ":7000"}, ep)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	defer srv.Stop(ctx)
package tcp
