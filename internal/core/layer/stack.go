package layer

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/dep2p/go-sansio/internal/util/logger"
)

var log = logger.Logger("layer")

// Stack 层节点的 arena
//
// 邻居关系保存为句柄而非指针，拆除顺序由 Detach/Teardown 显式给出。
// Stack 的方法本身不加锁：核心假设单写者访问，
// 多个 goroutine 驱动同一个栈时必须经由 Do 串行化。
type Stack struct {
	mu    sync.Mutex
	slots []slot
	free  []uint32
	count int
}

type slot struct {
	gen   uint32
	layer Layer
}

// NewStack 创建空栈
func NewStack() *Stack {
	return &Stack{}
}

// Do 在栈锁内执行 fn
//
// 协作方（TCP 读循环、应用发送等）用它代替事件循环线程。
// fn 内不得再次调用 Do。
func (s *Stack) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Add 将层加入栈，返回其句柄
func (s *Stack) Add(l Layer) (Handle, error) {
	if l == nil {
		return NilHandle, ErrNilLayer
	}
	n := l.Base()
	if n.stack != nil {
		return NilHandle, ErrAlreadyAdded
	}

	var h Handle
	if k := len(s.free); k > 0 {
		idx := s.free[k-1]
		s.free = s.free[:k-1]
		s.slots[idx].layer = l
		h = Handle{index: idx, gen: s.slots[idx].gen}
	} else {
		s.slots = append(s.slots, slot{gen: 1, layer: l})
		h = Handle{index: uint32(len(s.slots) - 1), gen: 1}
	}
	s.count++

	n.stack = s
	n.self = h
	n.higher = NilHandle
	n.lower = NilHandle
	return h, nil
}

// Get 解析句柄
func (s *Stack) Get(h Handle) (Layer, error) {
	if h.IsNil() || int(h.index) >= len(s.slots) {
		return nil, fmt.Errorf("%s: %w", h, ErrInvalidHandle)
	}
	sl := s.slots[h.index]
	if sl.gen != h.gen || sl.layer == nil {
		return nil, fmt.Errorf("%s: %w", h, ErrInvalidHandle)
	}
	return sl.layer, nil
}

// Remove 释放未绑定的节点
func (s *Stack) Remove(h Handle) error {
	l, err := s.Get(h)
	if err != nil {
		return err
	}
	if highers, lowers := l.Neighbors(); len(highers) > 0 || len(lowers) > 0 {
		return fmt.Errorf("remove %s: %w", h, ErrStillBound)
	}

	s.slots[h.index].layer = nil
	s.slots[h.index].gen++
	s.free = append(s.free, h.index)
	s.count--

	n := l.Base()
	n.stack = nil
	n.self = NilHandle
	return nil
}

// Len 返回栈内节点数
func (s *Stack) Len() int {
	return s.count
}

// Handles 按槽位顺序返回所有存活句柄
func (s *Stack) Handles() []Handle {
	out := make([]Handle, 0, s.count)
	for i, sl := range s.slots {
		if sl.layer != nil {
			out = append(out, Handle{index: uint32(i), gen: sl.gen})
		}
	}
	return out
}

// Bind 将 lower 绑定在 higher 之下
//
// 两侧钩子全部成功才生效；失败时不改变任何一侧。
func (s *Stack) Bind(higher, lower Handle) error {
	if higher == lower {
		return fmt.Errorf("bind %s to itself: %w", higher, ErrCycle)
	}
	hi, err := s.Get(higher)
	if err != nil {
		return fmt.Errorf("bind higher: %w", err)
	}
	lo, err := s.Get(lower)
	if err != nil {
		return fmt.Errorf("bind lower: %w", err)
	}
	if s.reachesDown(lower, higher) {
		return fmt.Errorf("bind %s above %s: %w", higher, lower, ErrCycle)
	}

	if err := lo.BindHigher(higher); err != nil {
		return fmt.Errorf("bind %s above %s: %w", higher, lower, err)
	}
	if err := hi.BindLower(lower); err != nil {
		// 回滚不会失败：上一步刚刚登记成功
		_ = lo.UnbindHigher(higher)
		return fmt.Errorf("bind %s above %s: %w", higher, lower, err)
	}

	log.Debug("层已绑定", "higher", higher, "lower", lower)
	return nil
}

// Unbind 解除 higher 与 lower 的绑定
func (s *Stack) Unbind(higher, lower Handle) error {
	hi, err := s.Get(higher)
	if err != nil {
		return fmt.Errorf("unbind higher: %w", err)
	}
	lo, err := s.Get(lower)
	if err != nil {
		return fmt.Errorf("unbind lower: %w", err)
	}

	if err := hi.UnbindLower(lower); err != nil {
		return fmt.Errorf("unbind %s from %s: %w", lower, higher, err)
	}
	if err := lo.UnbindHigher(higher); err != nil {
		_ = hi.BindLower(lower)
		return fmt.Errorf("unbind %s from %s: %w", lower, higher, err)
	}

	log.Debug("层已解绑", "higher", higher, "lower", lower)
	return nil
}

// Attach 加入层并绑定到 higher 之下（协作方的 on-connect）
func (s *Stack) Attach(higher Handle, l Layer) (Handle, error) {
	h, err := s.Add(l)
	if err != nil {
		return NilHandle, err
	}
	if err := s.Bind(higher, h); err != nil {
		_ = s.Remove(h)
		return NilHandle, err
	}
	return h, nil
}

// AttachAbove 加入层并绑定到 lower 之上（如 demux 的响应者）
func (s *Stack) AttachAbove(lower Handle, l Layer) (Handle, error) {
	h, err := s.Add(l)
	if err != nil {
		return NilHandle, err
	}
	if err := s.Bind(h, lower); err != nil {
		_ = s.Remove(h)
		return NilHandle, err
	}
	return h, nil
}

// Chain 自上而下加入并依次绑定一串层
//
// 任一步失败时已加入的层全部拆除。
func (s *Stack) Chain(layers ...Layer) ([]Handle, error) {
	handles := make([]Handle, 0, len(layers))
	for i, l := range layers {
		h, err := s.Add(l)
		if err == nil && i > 0 {
			if err = s.Bind(handles[i-1], h); err != nil {
				_ = s.Remove(h)
			}
		}
		if err != nil {
			for j := len(handles) - 1; j >= 0; j-- {
				_ = s.Detach(handles[j])
			}
			return nil, fmt.Errorf("chain layer %d: %w", i, err)
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// Detach 解除节点的全部绑定并释放（协作方的 on-disconnect）
func (s *Stack) Detach(h Handle) error {
	l, err := s.Get(h)
	if err != nil {
		return err
	}
	highers, lowers := l.Neighbors()

	var errs error
	for _, hi := range highers {
		errs = multierr.Append(errs, s.Unbind(hi, h))
	}
	for _, lo := range lowers {
		errs = multierr.Append(errs, s.Unbind(h, lo))
	}
	if errs != nil {
		return errs
	}
	return s.Remove(h)
}

// Teardown 从物理底层开始向内拆除整个栈
func (s *Stack) Teardown() error {
	var errs error
	for s.count > 0 {
		removed := 0
		for _, h := range s.Handles() {
			l, err := s.Get(h)
			if err != nil {
				continue
			}
			if _, lowers := l.Neighbors(); len(lowers) > 0 {
				continue
			}
			if err := s.Detach(h); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			removed++
		}
		if removed == 0 {
			if errs == nil {
				errs = fmt.Errorf("teardown: %d layers left: %w", s.count, ErrStillBound)
			}
			return errs
		}
	}
	return errs
}

// reachesDown 从 from 沿下层方向是否能到达 target
func (s *Stack) reachesDown(from, target Handle) bool {
	seen := map[Handle]struct{}{}
	stack := []Handle{from}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == target {
			return true
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		l, err := s.Get(h)
		if err != nil {
			continue
		}
		_, lowers := l.Neighbors()
		stack = append(stack, lowers...)
	}
	return false
}
