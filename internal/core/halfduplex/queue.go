package halfduplex

import "sync"

// OutboundQueue 待发送缓冲的 FIFO 队列
//
// 入队可以并发；出队只有一个消费者（Drain），
// 因此 Peek 之后的 Pop 移除的一定是刚才看到的那个缓冲。
type OutboundQueue struct {
	mu    sync.Mutex
	items [][]byte
}

// Push 追加到队尾
func (q *OutboundQueue) Push(buf []byte) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, buf)
	return len(q.items)
}

// Peek 返回队首但不移除
func (q *OutboundQueue) Peek() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// Pop 移除队首，返回剩余长度
func (q *OutboundQueue) Pop() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return 0
	}
	q.items[0] = nil
	q.items = q.items[1:]
	return len(q.items)
}

// Len 队列长度
func (q *OutboundQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
