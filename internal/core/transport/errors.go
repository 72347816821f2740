package transport

import "errors"

var (
	// ErrLinkClosed 链路已关闭
	ErrLinkClosed = errors.New("link closed")

	// ErrNoEndpoint 没有指定接入点
	ErrNoEndpoint = errors.New("no stack endpoint")
)
