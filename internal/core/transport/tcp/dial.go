package tcp

import (
	"context"
	"fmt"
	"net"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/core/transport"
)

// Dial 建立出站连接并绑定到接入点之下
//
// 读循环在后台运行；连接断开时自动解绑。
func Dial(ctx context.Context, addr string, cfg Config, ep transport.Endpoint) (*Conn, layer.Handle, error) {
	d := net.Dialer{}
	if cfg.KeepAlive {
		d.KeepAlive = cfg.KeepAlivePeriod
	} else {
		d.KeepAlive = -1
	}
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, layer.NilHandle, fmt.Errorf("dial %s: %w", addr, err)
	}
	if tc, ok := nc.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(cfg.NoDelay)
	}

	c := NewConn(nc)
	h, err := ep.Connect(c)
	if err != nil {
		_ = c.Close()
		return nil, layer.NilHandle, err
	}
	log.Info("已建立出站连接", "conn", c.ResourceID())

	go c.serve(ep, h, cfg.ReadBufferSize)
	return c, h, nil
}
