// Package types 定义 go-sansio 的公共数据结构
//
// 这是最底层的包，不依赖任何其他内部包。所有类型都是纯值类型。
//
// # 文件组织
//
//   - resource.go - ResourceID：链路底层物理资源的标识，FanOutMux 的键
//   - marker.go   - MarkerSlice / Marker：帧内固定位置的标记字节，FanInDemux 的键
package types
