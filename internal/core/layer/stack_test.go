package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-sansio/pkg/types"
)

func TestStack_AddGetRemove(t *testing.T) {
	s := NewStack()
	p := NewPassthrough()

	h, err := s.Add(p)
	require.NoError(t, err)
	assert.False(t, h.IsNil())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, h, p.Handle())
	assert.Same(t, s, p.Stack())

	got, err := s.Get(h)
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = s.Add(p)
	assert.ErrorIs(t, err, ErrAlreadyAdded)

	require.NoError(t, s.Remove(h))
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, p.Stack())

	// 旧句柄失效，即使槽位被复用
	q := NewPassthrough()
	h2, err := s.Add(q)
	require.NoError(t, err)
	assert.NotEqual(t, h, h2)
	_, err = s.Get(h)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestStack_InvalidHandles(t *testing.T) {
	s := NewStack()

	_, err := s.Get(NilHandle)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, err = s.Add(nil)
	assert.ErrorIs(t, err, ErrNilLayer)

	assert.ErrorIs(t, s.Remove(Handle{index: 7, gen: 1}), ErrInvalidHandle)
}

func TestStack_Bind(t *testing.T) {
	s := NewStack()
	top := &topLayer{}
	bottom := newBottom("a")

	ht, _ := s.Add(top)
	hb, _ := s.Add(bottom)

	require.NoError(t, s.Bind(ht, hb))
	assert.Equal(t, hb, top.LowerHandle())
	assert.Equal(t, ht, bottom.HigherHandle())

	t.Run("RebindHigherSlot", func(t *testing.T) {
		other := &topLayer{}
		ho, _ := s.Add(other)
		err := s.Bind(ho, hb)
		assert.ErrorIs(t, err, ErrSlotOccupied)
		// 失败不改变任何一侧
		assert.True(t, other.LowerHandle().IsNil())
		assert.Equal(t, ht, bottom.HigherHandle())
	})

	t.Run("RebindLowerSlotRollsBack", func(t *testing.T) {
		other := newBottom("b")
		ho, _ := s.Add(other)
		err := s.Bind(ht, ho)
		assert.ErrorIs(t, err, ErrSlotOccupied)
		assert.True(t, other.HigherHandle().IsNil(), "lower side must be rolled back")
		assert.Equal(t, hb, top.LowerHandle())
	})

	t.Run("RemoveBound", func(t *testing.T) {
		assert.ErrorIs(t, s.Remove(ht), ErrStillBound)
	})
}

func TestStack_BindCycle(t *testing.T) {
	s := NewStack()
	hs, err := s.Chain(NewPassthrough(), NewPassthrough(), NewPassthrough())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Bind(hs[0], hs[0]), ErrCycle)

	// 最底层的 higher 槽已占用，但环检测先于钩子
	assert.ErrorIs(t, s.Bind(hs[2], hs[0]), ErrCycle)
}

func TestStack_Unbind(t *testing.T) {
	s := NewStack()
	top := &topLayer{}
	bottom := newBottom("a")
	ht, _ := s.Add(top)
	hb, _ := s.Add(bottom)

	assert.ErrorIs(t, s.Unbind(ht, hb), ErrNotBound)

	require.NoError(t, s.Bind(ht, hb))
	require.NoError(t, s.Unbind(ht, hb))
	assert.True(t, top.LowerHandle().IsNil())
	assert.True(t, bottom.HigherHandle().IsNil())

	assert.ErrorIs(t, s.Unbind(ht, hb), ErrNotBound)
}

func TestStack_AttachDetach(t *testing.T) {
	s := NewStack()
	top := &topLayer{}
	ht, _ := s.Add(top)

	bottom := newBottom("a")
	hb, err := s.Attach(ht, bottom)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	// 第二个底层无法绑定到单槽上层，Attach 不留残余节点
	_, err = s.Attach(ht, newBottom("b"))
	assert.ErrorIs(t, err, ErrSlotOccupied)
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.Detach(hb))
	assert.Equal(t, 1, s.Len())
	assert.True(t, top.LowerHandle().IsNil())
}

func TestStack_Teardown(t *testing.T) {
	s := NewStack()
	top := &topLayer{}
	bottom := newBottom("a")
	_, err := s.Chain(top, NewPassthrough(), NewPassthrough(), bottom)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	require.NoError(t, s.Teardown())
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, top.Stack())
	assert.Nil(t, bottom.Stack())
}

func TestStack_Do(t *testing.T) {
	s := NewStack()
	called := false
	err := s.Do(func() error {
		called = true
		return ErrNotBound
	})
	assert.True(t, called)
	assert.ErrorIs(t, err, ErrNotBound)
}

func TestPassthrough_DataFlow(t *testing.T) {
	s := NewStack()
	top := &topLayer{}
	bottom := newBottom("a")
	_, err := s.Chain(top, NewPassthrough(), NewPassthrough(), bottom)
	require.NoError(t, err)

	require.NoError(t, bottom.OnReceive([]byte("up")))
	require.Len(t, top.received, 1)
	assert.Equal(t, []byte("up"), top.received[0])

	require.NoError(t, top.SendBytes([]byte("down")))
	require.Len(t, bottom.sent, 1)
	assert.Equal(t, []byte("down"), bottom.sent[0])
}

func TestPassthrough_Unbound(t *testing.T) {
	p := NewPassthrough()
	assert.ErrorIs(t, p.OnReceive([]byte{1}), ErrNotBound)
	assert.ErrorIs(t, p.SendBytes([]byte{1}), ErrNotBound)
	assert.Equal(t, types.NotMultiplexable, p.ResourceID())
}

func TestPassthrough_ResourceIDChain(t *testing.T) {
	for n := 0; n <= 5; n++ {
		s := NewStack()
		bottom := newBottom("x")
		layers := make([]Layer, 0, n+1)
		for i := 0; i < n; i++ {
			layers = append(layers, NewPassthrough())
		}
		layers = append(layers, bottom)
		_, err := s.Chain(layers...)
		require.NoError(t, err)

		assert.Equal(t, bottom.id, layers[0].ResourceID(), "chain of %d passthroughs", n)
	}
}

func TestStack_AttachAbove(t *testing.T) {
	s := NewStack()
	bottom := newBottom("a")
	hb, _ := s.Add(bottom)

	top := &topLayer{}
	ht, err := s.AttachAbove(hb, top)
	require.NoError(t, err)
	assert.Equal(t, ht, bottom.HigherHandle())
	assert.Equal(t, hb, top.LowerHandle())

	_, err = s.AttachAbove(hb, &topLayer{})
	assert.ErrorIs(t, err, ErrSlotOccupied)
	assert.Equal(t, 2, s.Len())
}
