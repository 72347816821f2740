package halfduplex

import (
	"fmt"
	"strings"
)

// Gate 轮流发送的闸门，由具体协议提供
//
// 对端结束自己的发送、轮到本端时 CanTransmit 返回 true。
type Gate interface {
	CanTransmit() bool
}

// GateFunc 函数形式的 Gate
type GateFunc func() bool

// CanTransmit 调用函数本身
func (f GateFunc) CanTransmit() bool {
	return f()
}

// Mode 发送模式，构造时确定
type Mode int

const (
	// ModeImmediate 每次发送绕过队列直接下交，忽略闸门
	//
	// 对端要求收到后在严格时间窗口内应答时使用，排队会错过窗口。
	ModeImmediate Mode = iota

	// ModeDeferred 每次发送先入队，只在闸门打开时由 Drain 下交
	ModeDeferred
)

// String 返回模式名
func (m Mode) String() string {
	switch m {
	case ModeImmediate:
		return "immediate"
	case ModeDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode 解析模式名
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "immediate":
		return ModeImmediate, nil
	case "deferred":
		return ModeDeferred, nil
	default:
		return ModeImmediate, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// State 延迟模式下最近一次观察到的闸门状态
type State int32

const (
	// StateBlocked 不允许发送
	StateBlocked State = iota
	// StateOpen 允许发送
	StateOpen
)

// String 返回状态名
func (s State) String() string {
	if s == StateOpen {
		return "OPEN"
	}
	return "BLOCKED"
}

func stateOf(open bool) State {
	if open {
		return StateOpen
	}
	return StateBlocked
}
