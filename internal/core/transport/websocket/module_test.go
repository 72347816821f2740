package websocket

import (
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-sansio/config"
	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/core/mux"
	"github.com/dep2p/go-sansio/tests/testutil"
)

func TestModule(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Transport.EnableWebSocket = true
	cfg.Transport.WebSocket.ListenAddr = "127.0.0.1:0"

	var (
		srv *Server
		m   *mux.FanOutMux
		s   *layer.Stack
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		layer.Module(),
		mux.Module(),
		Module(),
		fx.Populate(&srv, &m, &s),
	)
	app.RequireStart()

	require.NotNil(t, srv)
	client, _, err := gws.DefaultDialer.Dial(srv.URL(), nil)
	require.NoError(t, err)
	defer client.Close()

	testutil.Eventually(t, 2*time.Second, func() bool {
		var n int
		_ = s.Do(func() error { n = m.Len(); return nil })
		return n == 1
	}, "连接应绑定到 mux")

	app.RequireStop()
	assert.Zero(t, srv.Len())
}

func TestModule_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Transport.EnableWebSocket = false

	var srv *Server
	app := fxtest.New(t,
		fx.Supply(cfg),
		layer.Module(),
		mux.Module(),
		Module(),
		fx.Populate(&srv),
	)
	defer app.RequireStart().RequireStop()
	assert.Nil(t, srv)
}
