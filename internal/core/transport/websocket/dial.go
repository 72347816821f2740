package websocket

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/core/transport"
)

// Dial 建立出站 WebSocket 连接并绑定到接入点之下
func Dial(ctx context.Context, url string, cfg Config, ep transport.Endpoint) (*Conn, layer.Handle, error) {
	d := websocket.Dialer{
		ReadBufferSize:    cfg.ReadBufferSize,
		WriteBufferSize:   cfg.WriteBufferSize,
		HandshakeTimeout:  cfg.HandshakeTimeout,
		EnableCompression: cfg.EnableCompression,
	}
	ws, resp, err := d.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, layer.NilHandle, fmt.Errorf("dial %s: %w", url, err)
	}

	c := NewConn(ws)
	h, err := ep.Connect(c)
	if err != nil {
		_ = c.Close()
		return nil, layer.NilHandle, err
	}
	log.Info("已建立出站连接", "conn", c.ResourceID())

	go c.serve(ep, h)
	return c, h, nil
}
