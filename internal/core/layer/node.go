package layer

import (
	"fmt"

	pkgif "github.com/dep2p/go-sansio/pkg/interfaces"
	"github.com/dep2p/go-sansio/pkg/types"
)

// Layer 可以加入 Stack 的层
//
// 具体层嵌入 Node 获得默认的单槽绑定语义，
// 只需实现 OnReceive/SendBytes 以及需要改变的钩子。
type Layer interface {
	pkgif.Transport
	Binder
}

// Binder 绑定钩子
//
// Stack.Bind(higher, lower) 先调用 lower.BindHigher(higher)，
// 再调用 higher.BindLower(lower)；任一步失败都会回滚，不留单边引用。
// 多路复用器覆盖对应钩子，以资源标识或标记为索引登记邻居。
type Binder interface {
	// Base 返回嵌入的 Node
	Base() *Node

	// BindHigher 登记上层邻居
	BindHigher(h Handle) error

	// UnbindHigher 注销上层邻居
	UnbindHigher(h Handle) error

	// BindLower 登记下层邻居
	BindLower(h Handle) error

	// UnbindLower 注销下层邻居
	UnbindLower(h Handle) error

	// Neighbors 返回当前绑定的全部上层与下层
	Neighbors() (highers, lowers []Handle)
}

// Node 绑定原语：可选的上层句柄与下层句柄
//
// higher 只用于向上交付，lower 只用于向下发送。
type Node struct {
	stack  *Stack
	self   Handle
	higher Handle
	lower  Handle
}

// Base 返回自身
func (n *Node) Base() *Node {
	return n
}

// Stack 返回所属栈，未加入时为 nil
func (n *Node) Stack() *Stack {
	return n.stack
}

// Handle 返回自身句柄
func (n *Node) Handle() Handle {
	return n.self
}

// HigherHandle 返回上层句柄
func (n *Node) HigherHandle() Handle {
	return n.higher
}

// LowerHandle 返回下层句柄
func (n *Node) LowerHandle() Handle {
	return n.lower
}

// Resolve 在所属栈中解析句柄
func (n *Node) Resolve(h Handle) (Layer, error) {
	if n.stack == nil {
		return nil, ErrInvalidHandle
	}
	return n.stack.Get(h)
}

// Higher 返回上层
func (n *Node) Higher() (Layer, error) {
	if n.higher.IsNil() {
		return nil, fmt.Errorf("higher: %w", ErrNotBound)
	}
	return n.Resolve(n.higher)
}

// Lower 返回下层
func (n *Node) Lower() (Layer, error) {
	if n.lower.IsNil() {
		return nil, fmt.Errorf("lower: %w", ErrNotBound)
	}
	return n.Resolve(n.lower)
}

// BindHigher 单槽登记上层
func (n *Node) BindHigher(h Handle) error {
	if !n.higher.IsNil() {
		return fmt.Errorf("higher %s: %w", n.higher, ErrSlotOccupied)
	}
	n.higher = h
	return nil
}

// UnbindHigher 单槽注销上层
func (n *Node) UnbindHigher(h Handle) error {
	if n.higher.IsNil() || n.higher != h {
		return fmt.Errorf("higher %s: %w", h, ErrNotBound)
	}
	n.higher = NilHandle
	return nil
}

// BindLower 单槽登记下层
func (n *Node) BindLower(h Handle) error {
	if !n.lower.IsNil() {
		return fmt.Errorf("lower %s: %w", n.lower, ErrSlotOccupied)
	}
	n.lower = h
	return nil
}

// UnbindLower 单槽注销下层
func (n *Node) UnbindLower(h Handle) error {
	if n.lower.IsNil() || n.lower != h {
		return fmt.Errorf("lower %s: %w", h, ErrNotBound)
	}
	n.lower = NilHandle
	return nil
}

// Neighbors 返回单槽邻居
func (n *Node) Neighbors() (highers, lowers []Handle) {
	if !n.higher.IsNil() {
		highers = []Handle{n.higher}
	}
	if !n.lower.IsNil() {
		lowers = []Handle{n.lower}
	}
	return highers, lowers
}

// ResourceID 递归委托给下层
//
// 没有下层时返回 types.NotMultiplexable。
func (n *Node) ResourceID() types.ResourceID {
	lower, err := n.Lower()
	if err != nil {
		return types.NotMultiplexable
	}
	return lower.ResourceID()
}

// DeliverUp 将数据原样交给上层
func (n *Node) DeliverUp(data []byte) error {
	higher, err := n.Higher()
	if err != nil {
		return fmt.Errorf("deliver up from %s: %w", n.self, err)
	}
	return higher.OnReceive(data)
}

// SendDown 将数据原样交给下层
func (n *Node) SendDown(data []byte) error {
	lower, err := n.Lower()
	if err != nil {
		return fmt.Errorf("send down from %s: %w", n.self, err)
	}
	return lower.SendBytes(data)
}
