// Package interfaces 定义 go-sansio 公共接口
//
// 本文件定义 Reporter 接口，供各层上报流量与错误。
package interfaces

// Reporter 层流量上报接口
//
// 实现必须是并发安全的。核心层只做同步调用，不做任何聚合。
type Reporter interface {
	// ObserveReceive 记录一次向上交付
	ObserveReceive(component string, size int)

	// ObserveSend 记录一次向下发送
	ObserveSend(component string, size int)

	// ObserveError 记录一次错误，kind 为错误类别
	ObserveError(component string, kind string)

	// ObserveQueueDepth 记录出站队列深度
	ObserveQueueDepth(component string, depth int)
}

// NopReporter 丢弃所有上报
type NopReporter struct{}

func (NopReporter) ObserveReceive(string, int)    {}
func (NopReporter) ObserveSend(string, int)       {}
func (NopReporter) ObserveError(string, string)   {}
func (NopReporter) ObserveQueueDepth(string, int) {}

var _ Reporter = NopReporter{}
