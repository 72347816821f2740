package sansio

import "errors"

// 公共错误定义
var (
	// ErrNotStarted 服务未启动
	ErrNotStarted = errors.New("server not started")

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = errors.New("server already started")

	// ErrServerClosed 服务已关闭
	ErrServerClosed = errors.New("server closed")

	// ErrConflictingTop 同时指定了应用层与响应者
	ErrConflictingTop = errors.New("application and responders are mutually exclusive")

	// ErrConflictingGate 同时指定了闸门与信令
	ErrConflictingGate = errors.New("gate and signalling are mutually exclusive")

	// ErrNoHalfDuplex 栈中没有半双工层
	ErrNoHalfDuplex = errors.New("no half-duplex layer in stack")
)
