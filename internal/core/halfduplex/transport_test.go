package halfduplex

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/tests/mocks"
)

// switchGate 测试用可切换闸门
type switchGate struct {
	mu   sync.Mutex
	open bool
}

func (g *switchGate) CanTransmit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

func (g *switchGate) set(open bool) {
	g.mu.Lock()
	g.open = open
	g.mu.Unlock()
}

func newHalfDuplexStack(t *testing.T, top layer.Layer) (*mocks.Sink, *mocks.MockTransport) {
	t.Helper()
	s := layer.NewStack()
	sink := mocks.NewSink()
	bottom := mocks.NewMockTransport("link")
	_, err := s.Chain(sink, top, bottom)
	require.NoError(t, err)
	return sink, bottom
}

func TestTransport_DeferredQueuesWhileBlocked(t *testing.T) {
	gate := &switchGate{}
	hd := New(gate, ModeDeferred)
	sink, bottom := newHalfDuplexStack(t, hd)

	for _, b := range []string{"b1", "b2", "b3"} {
		require.NoError(t, sink.SendBytes([]byte(b)))
	}
	assert.Zero(t, bottom.SendCalls)
	assert.Equal(t, 3, hd.Pending())
	assert.Equal(t, StateBlocked, hd.State())

	gate.set(true)
	require.NoError(t, hd.Drain())

	assert.Equal(t, [][]byte{[]byte("b1"), []byte("b2"), []byte("b3")}, bottom.Sent)
	assert.Equal(t, 3, bottom.SendCalls)
	assert.Zero(t, hd.Pending())

	// 重复 Drain 不会重复下交
	require.NoError(t, hd.Drain())
	assert.Equal(t, 3, bottom.SendCalls)
}

func TestTransport_DeferredSendsWhenOpen(t *testing.T) {
	gate := &switchGate{open: true}
	hd := New(gate, ModeDeferred)
	_, bottom := newHalfDuplexStack(t, hd)

	require.NoError(t, hd.SendBytes([]byte("now")))
	assert.Equal(t, [][]byte{[]byte("now")}, bottom.Sent)
	assert.Zero(t, hd.Pending())
}

func TestTransport_DeferredCopiesBuffer(t *testing.T) {
	gate := &switchGate{}
	hd := New(gate, ModeDeferred)
	_, bottom := newHalfDuplexStack(t, hd)

	buf := []byte("abc")
	require.NoError(t, hd.SendBytes(buf))
	buf[0] = 'X'

	gate.set(true)
	require.NoError(t, hd.Drain())
	assert.Equal(t, [][]byte{[]byte("abc")}, bottom.Sent)
}

func TestTransport_GateChanged(t *testing.T) {
	gate := &switchGate{}
	hd := New(gate, ModeDeferred)
	_, bottom := newHalfDuplexStack(t, hd)

	require.NoError(t, hd.SendBytes([]byte("1")))
	require.NoError(t, hd.SendBytes([]byte("2")))

	// 仍然 BLOCKED
	require.NoError(t, hd.GateChanged())
	assert.Zero(t, bottom.SendCalls)

	// BLOCKED→OPEN 隐式 Drain
	gate.set(true)
	require.NoError(t, hd.GateChanged())
	assert.Equal(t, [][]byte{[]byte("1"), []byte("2")}, bottom.Sent)

	// OPEN→BLOCKED 不影响已入队的缓冲
	gate.set(false)
	require.NoError(t, hd.SendBytes([]byte("3")))
	require.NoError(t, hd.GateChanged())
	assert.Equal(t, StateBlocked, hd.State())
	assert.Equal(t, 1, hd.Pending())

	gate.set(true)
	require.NoError(t, hd.GateChanged())
	assert.Equal(t, [][]byte{[]byte("1"), []byte("2"), []byte("3")}, bottom.Sent)
}

func TestTransport_StateOnlyFromGateChanged(t *testing.T) {
	gate := &switchGate{}
	hd := New(gate, ModeDeferred)
	_, bottom := newHalfDuplexStack(t, hd)

	require.NoError(t, hd.GateChanged())
	assert.Equal(t, StateBlocked, hd.State())

	// 显式 Drain 不改变记录的状态
	gate.set(true)
	require.NoError(t, hd.SendBytes([]byte("1")))
	assert.Equal(t, StateBlocked, hd.State())

	gate.set(false)
	require.NoError(t, hd.SendBytes([]byte("2")))
	assert.Equal(t, 1, hd.Pending())

	// 下一次真正的 BLOCKED→OPEN 仍然隐式 Drain
	gate.set(true)
	require.NoError(t, hd.GateChanged())
	assert.Equal(t, StateOpen, hd.State())
	assert.Equal(t, [][]byte{[]byte("1"), []byte("2")}, bottom.Sent)
	assert.Zero(t, hd.Pending())
}

func TestTransport_DrainStopsOnLowerFailure(t *testing.T) {
	gate := &switchGate{}
	hd := New(gate, ModeDeferred)
	_, bottom := newHalfDuplexStack(t, hd)

	require.NoError(t, hd.SendBytes([]byte("a")))
	require.NoError(t, hd.SendBytes([]byte("b")))

	errLink := errors.New("link busy")
	bottom.SendFunc = func([]byte) error { return errLink }
	gate.set(true)
	assert.ErrorIs(t, hd.Drain(), errLink)
	assert.Equal(t, 2, hd.Pending())

	// 恢复后从队首继续，没有跳过也没有重复
	bottom.SendFunc = nil
	require.NoError(t, hd.Drain())
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, bottom.Sent)
}

func TestTransport_DrainNotReentrant(t *testing.T) {
	gate := &switchGate{open: true}
	hd := New(gate, ModeDeferred)
	_, bottom := newHalfDuplexStack(t, hd)

	// 下层在发送过程中回调 Drain
	nested := 0
	bottom.SendFunc = func([]byte) error {
		nested++
		return hd.Drain()
	}
	gate.set(false)
	require.NoError(t, hd.SendBytes([]byte("x")))
	require.NoError(t, hd.SendBytes([]byte("y")))
	gate.set(true)
	require.NoError(t, hd.Drain())

	assert.Equal(t, 2, nested)
	assert.Equal(t, [][]byte{[]byte("x"), []byte("y")}, bottom.Sent)
}

func TestTransport_ImmediateIgnoresGate(t *testing.T) {
	ctrl := gomock.NewController(t)
	gate := mocks.NewMockGate(ctrl)
	gate.EXPECT().CanTransmit().Times(0)

	hd := New(gate, ModeImmediate)
	_, bottom := newHalfDuplexStack(t, hd)

	require.NoError(t, hd.SendBytes([]byte("p")))
	require.NoError(t, hd.SendBytes([]byte("q")))
	assert.Equal(t, [][]byte{[]byte("p"), []byte("q")}, bottom.Sent)
	assert.Zero(t, hd.Pending())
	assert.Equal(t, ModeImmediate, hd.Mode())
}

func TestTransport_ReceivePassesUp(t *testing.T) {
	hd := New(GateFunc(func() bool { return false }), ModeDeferred)
	sink, bottom := newHalfDuplexStack(t, hd)

	require.NoError(t, bottom.OnReceive([]byte("in")))
	assert.Equal(t, [][]byte{[]byte("in")}, sink.Received)
}

func TestTransport_ConcurrentProducers(t *testing.T) {
	gate := &switchGate{}
	hd := New(gate, ModeDeferred)
	s := layer.NewStack()
	bottom := mocks.NewMockTransport("link")
	_, err := s.Chain(hd, bottom)
	require.NoError(t, err)

	const producers, perProducer = 8, 50
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = hd.SendBytes([]byte{byte(p), byte(i)})
			}
		}(p)
	}
	wg.Wait()
	require.Equal(t, producers*perProducer, hd.Pending())

	gate.set(true)
	require.NoError(t, hd.Drain())
	require.Len(t, bottom.Sent, producers*perProducer)

	// 每个生产者内部保持顺序
	next := make([]int, producers)
	for _, buf := range bottom.Sent {
		p, i := int(buf[0]), int(buf[1])
		assert.Equal(t, next[p], i)
		next[p]++
	}
}

func TestTransport_ConcurrentProducersOpenGate(t *testing.T) {
	gate := &switchGate{open: true}
	hd := New(gate, ModeDeferred)
	s := layer.NewStack()
	bottom := mocks.NewMockTransport("link")
	_, err := s.Chain(hd, bottom)
	require.NoError(t, err)

	const producers, perProducer = 8, 200
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = hd.SendBytes([]byte{byte(p), byte(i)})
			}
		}(p)
	}
	wg.Wait()

	// 闸门一直打开，没有缓冲滞留在队列里
	assert.Zero(t, hd.Pending())
	require.Len(t, bottom.Sent, producers*perProducer)
	next := make([]int, producers)
	for _, buf := range bottom.Sent {
		p, i := int(buf[0]), int(buf[1])
		assert.Equal(t, next[p], i)
		next[p]++
	}
}

func TestNew_NilGate(t *testing.T) {
	assert.PanicsWithValue(t, layer.ErrNotImplemented, func() {
		New(nil, ModeDeferred)
	})
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("deferred")
	require.NoError(t, err)
	assert.Equal(t, ModeDeferred, m)
	assert.Equal(t, "deferred", m.String())

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeImmediate, m)

	_, err = ParseMode("sometimes")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

func TestOutboundQueue(t *testing.T) {
	var q OutboundQueue
	_, ok := q.Peek()
	assert.False(t, ok)
	assert.Zero(t, q.Pop())

	q.Push([]byte("a"))
	assert.Equal(t, 2, q.Push([]byte("b")))

	head, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, []byte("a"), head)
	assert.Equal(t, 1, q.Pop())
	head, _ = q.Peek()
	assert.Equal(t, []byte("b"), head)
}
