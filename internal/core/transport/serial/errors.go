package serial

import "errors"

var (
	// ErrDeviceOpen 设备已打开
	ErrDeviceOpen = errors.New("serial device already open")

	// ErrDeviceClosed 设备已关闭
	ErrDeviceClosed = errors.New("serial device closed")

	// ErrInvalidParity 无效的校验设置
	ErrInvalidParity = errors.New("invalid serial parity")

	// ErrInvalidStopBits 无效的停止位设置
	ErrInvalidStopBits = errors.New("invalid serial stop bits")
)
