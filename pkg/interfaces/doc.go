// Package interfaces 定义 go-sansio 的公共接口
//
//   - transport.go - 层间能力：Receiver、Sender、ResourceProvider，以及分发用的 Matcher、Marked
//   - metrics.go   - Reporter：各层同步上报流量与错误
//
// 具体实现位于 internal/core，本包只放接口，避免实现之间互相依赖。
package interfaces
