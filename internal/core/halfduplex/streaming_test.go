package halfduplex

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/tests/mocks"
)

func TestStreaming_ReceiveByteInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	sig := mocks.NewMockSignalling(ctrl)
	gomock.InOrder(
		sig.EXPECT().ReceiveByte(byte(0x41)).Times(1),
		sig.EXPECT().ReceiveByte(byte(0x42)).Times(1),
	)

	st := NewStreaming(sig, ModeImmediate)
	require.NoError(t, st.OnReceive([]byte("AB")))
}

func TestStreaming_FilterBeforeSend(t *testing.T) {
	ctrl := gomock.NewController(t)
	sig := mocks.NewMockSignalling(ctrl)

	// 0x10 转义为 0x10 0x10
	sig.EXPECT().FilterSentBytes(gomock.Any()).DoAndReturn(func(data []byte) []byte {
		return bytes.ReplaceAll(data, []byte{0x10}, []byte{0x10, 0x10})
	}).Times(2)
	open := false
	sig.EXPECT().CanTransmit().DoAndReturn(func() bool { return open }).AnyTimes()

	st := NewStreaming(sig, ModeDeferred)
	s := layer.NewStack()
	bottom := mocks.NewMockTransport("tty")
	_, err := s.Chain(st, bottom)
	require.NoError(t, err)

	require.NoError(t, st.SendBytes([]byte{0x01, 0x10}))
	require.NoError(t, st.SendBytes([]byte{0x02}))
	assert.Zero(t, bottom.SendCalls)

	open = true
	require.NoError(t, st.GateChanged())
	assert.Equal(t, [][]byte{{0x01, 0x10, 0x10}, {0x02}}, bottom.Sent)
}

// lineProtocol 以 '\n' 结束一帧的带内信令协议
type lineProtocol struct {
	st  *StreamingTransport
	buf []byte
	err error
}

func (p *lineProtocol) BindTransport(st *StreamingTransport) { p.st = st }

func (p *lineProtocol) CanTransmit() bool { return len(p.buf) == 0 }

func (p *lineProtocol) ReceiveByte(b byte) {
	if b != '\n' {
		p.buf = append(p.buf, b)
		return
	}
	frame := p.buf
	p.buf = nil
	if err := p.st.DeliverUp(frame); err != nil {
		p.err = err
	}
	if err := p.st.GateChanged(); err != nil {
		p.err = err
	}
}

func (p *lineProtocol) FilterSentBytes(data []byte) []byte {
	return append(bytes.Clone(data), '\n')
}

func TestStreaming_DeliverAssembledFrames(t *testing.T) {
	proto := &lineProtocol{}
	st := NewStreaming(proto, ModeDeferred)
	require.Same(t, st, proto.st)

	s := layer.NewStack()
	sink := mocks.NewSink()
	bottom := mocks.NewMockTransport("tty")
	_, err := s.Chain(sink, st, bottom)
	require.NoError(t, err)

	// 对端帧传到一半，本端发送被挂起
	require.NoError(t, bottom.OnReceive([]byte("hel")))
	require.NoError(t, sink.SendBytes([]byte("reply")))
	assert.Zero(t, bottom.SendCalls)

	// 对端帧结束，轮到本端
	require.NoError(t, bottom.OnReceive([]byte("lo\nwor")))
	require.NoError(t, proto.err)
	assert.Equal(t, [][]byte{[]byte("hello")}, sink.Received)
	assert.Equal(t, [][]byte{[]byte("reply\n")}, bottom.Sent)
	assert.Equal(t, []byte("wor"), proto.buf)
}

func TestNewStreaming_NilSignalling(t *testing.T) {
	assert.PanicsWithValue(t, layer.ErrNotImplemented, func() {
		NewStreaming(nil, ModeImmediate)
	})
}
