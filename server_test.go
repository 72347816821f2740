package sansio

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/go-sansio/config"
	"github.com/dep2p/go-sansio/internal/core/halfduplex"
	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/pkg/types"
	"github.com/dep2p/go-sansio/tests/mocks"
	"github.com/dep2p/go-sansio/tests/testutil"
)

func startServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithTCP("127.0.0.1:0")}, opts...)
	srv, err := New(opts...)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })
	return srv
}

func dial(t *testing.T, srv *Server) net.Conn {
	t.Helper()
	require.NotNil(t, srv.TCPAddr())
	c, err := net.Dial("tcp", srv.TCPAddr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func readN(t *testing.T, c net.Conn, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err := io.ReadFull(c, buf)
	require.NoError(t, err)
	return buf
}

func waitLinks(t *testing.T, srv *Server, n int) {
	t.Helper()
	testutil.Eventually(t, 2*time.Second, func() bool { return srv.Links() == n }, "链路数不符")
}

func TestServer_Relay(t *testing.T) {
	srv := startServer(t, WithApplication(NewRelay()))

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	waitLinks(t, srv, 2)

	_, err := c1.Write([]byte("hi"))
	require.NoError(t, err)

	assert.Equal(t, "hi", string(readN(t, c2, 2)))
	assert.Equal(t, "hi", string(readN(t, c1, 2)))
}

func TestServer_HandlerAndSend(t *testing.T) {
	got := make(chan []byte, 4)
	srv := startServer(t, WithHandler(func(data []byte) error {
		got <- data
		return nil
	}))

	c := dial(t, srv)
	waitLinks(t, srv, 1)

	_, err := c.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	select {
	case data := <-got:
		assert.Equal(t, []byte{0x01, 0x02, 0x03}, data)
	case <-time.After(2 * time.Second):
		t.Fatal("Handler 没有收到数据")
	}

	require.NoError(t, srv.Send([]byte("out")))
	assert.Equal(t, "out", string(readN(t, c, 3)))
}

func TestServer_SendWithoutLinks(t *testing.T) {
	srv := startServer(t)
	assert.NoError(t, srv.Send([]byte("nobody")))
}

// markedSink 携带标记的响应者
type markedSink struct {
	*mocks.Sink
	marker types.Marker
}

func (m *markedSink) Marker() types.Marker {
	return m.marker
}

func newMarkedSink(t *testing.T, value byte) (*markedSink, chan []byte) {
	t.Helper()
	mk, err := types.NewMarker(0, []byte{value})
	require.NoError(t, err)
	got := make(chan []byte, 4)
	s := &markedSink{Sink: mocks.NewSink(), marker: mk}
	s.OnReceiveFunc = func(data []byte) error {
		got <- data
		return nil
	}
	return s, got
}

func TestServer_Responders(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Demux.Strategy = "marker"

	ra, gotA := newMarkedSink(t, 0x41)
	rb, gotB := newMarkedSink(t, 0x42)
	srv := startServer(t, WithConfig(cfg), WithResponders(ra, rb))

	require.NotNil(t, srv.Demux())
	assert.Equal(t, 2, srv.Demux().Len())

	c := dial(t, srv)
	waitLinks(t, srv, 1)

	_, err := c.Write([]byte{0x42, 0x99})
	require.NoError(t, err)
	select {
	case data := <-gotB:
		assert.Equal(t, []byte{0x42, 0x99}, data)
	case <-time.After(2 * time.Second):
		t.Fatal("0x42 响应者没有收到数据")
	}
	assert.Empty(t, gotA)

	require.NoError(t, srv.Send([]byte("ack")))
	assert.Equal(t, "ack", string(readN(t, c, 3)))
}

func TestServer_DeferredGate(t *testing.T) {
	var open atomic.Bool
	srv := startServer(t,
		WithGate(halfduplex.GateFunc(open.Load)),
		WithHalfDuplexMode("deferred"),
	)

	c := dial(t, srv)
	waitLinks(t, srv, 1)

	require.NoError(t, srv.Send([]byte("a")))
	require.NoError(t, srv.Send([]byte("b")))
	assert.Equal(t, 2, srv.Pending())

	open.Store(true)
	require.NoError(t, srv.GateChanged())
	assert.Zero(t, srv.Pending())
	assert.Equal(t, "ab", string(readN(t, c, 2)))
}

func TestServer_NoHalfDuplex(t *testing.T) {
	srv := startServer(t)
	assert.ErrorIs(t, srv.GateChanged(), ErrNoHalfDuplex)
	assert.ErrorIs(t, srv.Drain(), ErrNoHalfDuplex)
	assert.Zero(t, srv.Pending())
}

func TestServer_WithLayers(t *testing.T) {
	srv := startServer(t, WithLayers(layer.NewPassthrough(), layer.NewPassthrough()))

	// stack: app, 2 passthrough, mux
	var n int
	_ = srv.Stack().Do(func() error {
		n = srv.Stack().Len()
		return nil
	})
	assert.Equal(t, 4, n)

	c := dial(t, srv)
	waitLinks(t, srv, 1)
	require.NoError(t, srv.Send([]byte("x")))
	assert.Equal(t, "x", string(readN(t, c, 1)))
}

func TestServer_Metrics(t *testing.T) {
	srv := startServer(t, WithMetrics(""), WithApplication(NewRelay()))
	require.NotNil(t, srv.Collector())

	c := dial(t, srv)
	waitLinks(t, srv, 1)
	_, err := c.Write([]byte("ping"))
	require.NoError(t, err)
	readN(t, c, 4)

	testutil.Eventually(t, 2*time.Second, func() bool {
		st := srv.Collector().Snapshot("fanout")
		return st.BytesIn == 4 && st.BytesOut == 4
	}, "fanout 统计不符")
}

func TestServer_Lifecycle(t *testing.T) {
	srv, err := New(WithTCP("127.0.0.1:0"))
	require.NoError(t, err)

	assert.ErrorIs(t, srv.Send([]byte("x")), ErrNotStarted)

	require.NoError(t, srv.Start(context.Background()))
	assert.ErrorIs(t, srv.Start(context.Background()), ErrAlreadyStarted)

	require.NoError(t, srv.Stop(context.Background()))
	require.NoError(t, srv.Stop(context.Background()))
	assert.ErrorIs(t, srv.Start(context.Background()), ErrServerClosed)
	assert.ErrorIs(t, srv.Send([]byte("x")), ErrServerClosed)
}

func TestServer_StopUnbindsLinks(t *testing.T) {
	srv, err := New(WithTCP("127.0.0.1:0"))
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))

	c := dial(t, srv)
	waitLinks(t, srv, 1)

	require.NoError(t, srv.Stop(context.Background()))
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = c.Read(make([]byte, 1))
	assert.Error(t, err)
}

// lineSignalling 以 '\n' 结束一帧的带内信令协议
type lineSignalling struct {
	st  *halfduplex.StreamingTransport
	buf []byte
}

func (p *lineSignalling) BindTransport(st *halfduplex.StreamingTransport) { p.st = st }

func (p *lineSignalling) CanTransmit() bool { return len(p.buf) == 0 }

func (p *lineSignalling) ReceiveByte(b byte) {
	if b != '\n' {
		p.buf = append(p.buf, b)
		return
	}
	frame := p.buf
	p.buf = nil
	if err := p.st.DeliverUp(frame); err != nil {
		log.Warn("帧上交失败", "err", err)
	}
	_ = p.st.GateChanged()
}

func (p *lineSignalling) FilterSentBytes(data []byte) []byte {
	return append(bytes.Clone(data), '\n')
}

func TestServer_Signalling(t *testing.T) {
	got := make(chan []byte, 4)
	sig := &lineSignalling{}
	srv := startServer(t,
		WithSignalling(sig),
		WithHalfDuplexMode("deferred"),
		WithHandler(func(data []byte) error {
			got <- bytes.Clone(data)
			return nil
		}))
	require.NotNil(t, sig.st)

	c := dial(t, srv)
	waitLinks(t, srv, 1)

	_, err := c.Write([]byte("hel"))
	require.NoError(t, err)
	_, err = c.Write([]byte("lo\n"))
	require.NoError(t, err)
	select {
	case data := <-got:
		assert.Equal(t, "hello", string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("Handler 没有收到组装后的帧")
	}

	require.NoError(t, srv.Send([]byte("ok")))
	assert.Equal(t, "ok\n", string(readN(t, c, 3)))
	assert.Zero(t, srv.Pending())
}

func TestNew_Conflicts(t *testing.T) {
	_, err := New(WithApplication(NewRelay()), WithResponders(mocks.NewSink()))
	assert.ErrorIs(t, err, ErrConflictingTop)

	_, err = New(WithGate(halfduplex.GateFunc(func() bool { return true })),
		WithSignalling(mocks.NewMockSignalling(nil)))
	assert.ErrorIs(t, err, ErrConflictingGate)

	_, err = New(WithApplication(nil))
	assert.ErrorIs(t, err, layer.ErrNilLayer)

	_, err = New(WithHalfDuplexMode("sideways"))
	assert.Error(t, err)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Demux.Strategy = "random"
	_, err := New(WithConfig(cfg))
	assert.Error(t, err)
}

func TestNew_ConfigNotMutated(t *testing.T) {
	cfg := config.NewConfig()
	srv, err := New(WithConfig(cfg), WithTCP("127.0.0.1:0"))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Transport.TCP.ListenAddr)
	assert.Equal(t, "127.0.0.1:0", srv.Config().Transport.TCP.ListenAddr)
}

func TestNew_FxOptions(t *testing.T) {
	var s *layer.Stack
	srv, err := New(WithTCP(""), WithFxOptions(fx.Populate(&s)))
	require.NoError(t, err)
	assert.Same(t, srv.Stack(), s)
	assert.Nil(t, srv.TCPAddr())
	assert.Empty(t, srv.WebSocketURL())
	assert.Nil(t, srv.SerialDevice())
}
