package halfduplex

import "errors"

var (
	// ErrUnknownMode 无法识别的发送模式
	ErrUnknownMode = errors.New("unknown half-duplex mode")
)
