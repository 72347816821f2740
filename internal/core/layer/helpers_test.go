package layer

import (
	"bytes"

	"github.com/dep2p/go-sansio/pkg/types"
)

// bottomLayer 测试用物理底层：记录发送，资源标识固定
type bottomLayer struct {
	Node
	id   types.ResourceID
	sent [][]byte
}

func newBottom(key string) *bottomLayer {
	return &bottomLayer{id: types.MustResourceID("test", key)}
}

func (b *bottomLayer) OnReceive(data []byte) error {
	return b.DeliverUp(data)
}

func (b *bottomLayer) SendBytes(data []byte) error {
	b.sent = append(b.sent, bytes.Clone(data))
	return nil
}

func (b *bottomLayer) ResourceID() types.ResourceID {
	return b.id
}

// topLayer 测试用应用层：记录接收
type topLayer struct {
	Node
	received [][]byte
}

func (t *topLayer) OnReceive(data []byte) error {
	t.received = append(t.received, bytes.Clone(data))
	return nil
}

func (t *topLayer) SendBytes(data []byte) error {
	return t.SendDown(data)
}
