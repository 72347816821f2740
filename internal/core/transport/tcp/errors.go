package tcp

import "errors"

var (
	// ErrServerClosed 服务已关闭
	ErrServerClosed = errors.New("tcp server closed")

	// ErrNotListening 尚未监听
	ErrNotListening = errors.New("tcp server not listening")
)
