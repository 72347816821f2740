package layer

// Passthrough 组合的单位元：接收直接上交，发送直接下交
//
// 具体层嵌入 Passthrough，只覆盖自己改变的方向。
type Passthrough struct {
	Node
}

var _ Layer = (*Passthrough)(nil)

// NewPassthrough 创建 Passthrough
func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

// OnReceive 原样上交
func (p *Passthrough) OnReceive(data []byte) error {
	return p.DeliverUp(data)
}

// SendBytes 原样下交
func (p *Passthrough) SendBytes(data []byte) error {
	return p.SendDown(data)
}
