// Package sansio 组装一个完整的协议栈服务
//
// 协议层本身不做 I/O：每层只实现 OnReceive（向上）与 SendBytes（向下），
// 由 internal/core/layer 的 Stack 管理层之间的绑定。本包把各组件装配成一个可运行的服务：
//
//	Application / FanInDemux + 响应者
//	        │
//	HalfDuplex / StreamingTransport（可选）
//	        │
//	WithLayers 指定的层（可选，自上而下）
//	        │
//	FanOutMux
//	   │    │    │
//	  TCP   WS  Serial
//
// 链路协作方在连接建立时绑定到 FanOutMux 之下，断开时解绑。
// 收到的数据经 Stack.Do 串行地进入栈；Server.Send 同样在栈锁内执行。
//
// # 快速开始
//
//	srv, err := sansio.New(
//	    sansio.WithTCP(":7000"),
//	    sansio.WithHandler(func(data []byte) error {
//	        fmt.Printf("%x\n", data)
//	        return nil
//	    }),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	defer srv.Stop(context.Background())
//
//	_ = srv.Send([]byte("hello"))
//
// # 半双工
//
// WithGate 在 mux 之上插入 HalfDuplexTransport；配置 half_duplex.mode=deferred 时
// 发送先入队，闸门打开后由 Server.GateChanged 触发排空。
//
// # 按帧分发
//
// WithResponders 在栈顶放置 FanInDemux，按 demux.strategy 选择谓词扫描或标记索引。
package sansio
