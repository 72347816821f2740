// Package metrics 提供层组件的流量指标
//
// Collector 实现 interfaces.Reporter，由 mux、demux、halfduplex 上报：
//   - sansio_layer_bytes_total{component,direction}
//   - sansio_layer_frames_total{component,direction}
//   - sansio_layer_errors_total{component,kind}
//   - sansio_layer_queue_depth{component}
//
// 同时维护进程内计数与 60 秒滑动窗口速率，可通过 Snapshot 读取。
//
// # 快速开始
//
//	c := metrics.NewCollector("sansio")
//	m := mux.New(mux.WithReporter(c))
//
//	stats := c.Snapshot("fanout")
//	fmt.Printf("out: %d bytes, %.2f B/s\n", stats.BytesOut, stats.RateOut)
//
// # HTTP 端点
//
//	srv := metrics.NewServer(c, ":9100", "/metrics")
//	_ = srv.Start(ctx)
//	defer srv.Stop(ctx)
//
// 通过 Fx 使用时，Module 按 config.MetricsConfig 决定提供 Collector 还是 NopReporter。
package metrics
