// Package serial 实现串口链路协作方
//
// Device 打开配置的设备并把它作为一个 Link 绑定到接入点之下。
// 串口没有帧边界，读到的字节按块上交，由上层（例如 StreamingTransport 的信令解析器）组帧。
package serial
