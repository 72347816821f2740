package websocket

import "errors"

// ErrServerClosed 服务已关闭
var ErrServerClosed = errors.New("websocket server closed")
