package metrics

// Stats 单个组件的流量快照
type Stats struct {
	BytesIn    int64   // 累计入站字节
	BytesOut   int64   // 累计出站字节
	FramesIn   int64   // 累计入站帧
	FramesOut  int64   // 累计出站帧
	Errors     int64   // 累计错误
	QueueDepth int     // 最近上报的队列深度
	RateIn     float64 // 入站速率（字节/秒）
	RateOut    float64 // 出站速率（字节/秒）
}
