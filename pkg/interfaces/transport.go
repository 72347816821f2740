// Package interfaces 定义 go-sansio 公共接口
//
// 本文件定义层间传输能力接口：向下发送、自下接收、资源标识。
package interfaces

import (
	"github.com/dep2p/go-sansio/pkg/types"
)

// Receiver 自下接收能力
//
// 具体传输（协作方）在介质上收到字节时调用最顶层 Receiver 的 OnReceive，
// 数据随后逐层同步向上传递。
type Receiver interface {
	// OnReceive 处理来自下层的数据
	//
	// 路由错误（无法识别目标）同步返回给调用方。
	OnReceive(data []byte) error
}

// Sender 向下发送能力
type Sender interface {
	// SendBytes 将缓冲区交给下层
	SendBytes(data []byte) error
}

// ResourceProvider 提供底层资源标识
type ResourceProvider interface {
	// ResourceID 返回链路最底层资源的标识
	//
	// 没有唯一底层资源时返回 types.NotMultiplexable。
	ResourceID() types.ResourceID
}

// Transport 层的完整能力面
//
// 所有组件实现同一组能力，因此任意组件可以组合在任意组件的上方或下方。
type Transport interface {
	Receiver
	Sender
	ResourceProvider
}

// Matcher 谓词扫描解复用的响应者能力
type Matcher interface {
	// Matches 数据是否属于本响应者
	Matches(data []byte) bool
}

// Marked 标记索引解复用的响应者能力
type Marked interface {
	// Marker 返回响应者声明的标记窗口和字面值
	Marker() types.Marker
}
