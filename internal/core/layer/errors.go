package layer

import "errors"

var (
	// ErrNotImplemented 必需能力缺失（编程错误，直接 panic，不应被捕获）
	ErrNotImplemented = errors.New("capability not implemented")

	// ErrSlotOccupied 绑定到已占用的槽位
	ErrSlotOccupied = errors.New("rebinding non-empty slot")

	// ErrNotBound 节点未绑定
	ErrNotBound = errors.New("not bound")

	// ErrInvalidHandle 句柄无效或已过期
	ErrInvalidHandle = errors.New("invalid layer handle")

	// ErrAlreadyAdded 层已加入某个栈
	ErrAlreadyAdded = errors.New("layer already added to a stack")

	// ErrStillBound 移除仍有绑定的节点
	ErrStillBound = errors.New("layer still bound")

	// ErrCycle 绑定会在栈中形成环
	ErrCycle = errors.New("binding would create a cycle")

	// ErrNilLayer 空层
	ErrNilLayer = errors.New("nil layer")
)
