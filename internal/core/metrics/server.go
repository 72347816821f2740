package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/dep2p/go-sansio/internal/util/logger"
)

var log = logger.Logger("metrics")

// Server 指标 HTTP 端点
type Server struct {
	collector *Collector
	addr      string
	path      string

	srv *http.Server
	ln  net.Listener
}

// NewServer 创建指标端点
func NewServer(c *Collector, addr, path string) *Server {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, c.Handler())
	return &Server{
		collector: c,
		addr:      addr,
		path:      path,
		srv:       &http.Server{Handler: mux},
	}
}

// Start 开始监听；服务在后台运行直到 Stop
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	log.Info("指标端点已启动", "addr", ln.Addr().String(), "path", s.path)

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("指标端点异常退出", "err", err)
		}
	}()
	return nil
}

// Addr 返回实际监听地址；未启动时为 nil
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Stop 关闭端点
func (s *Server) Stop(ctx context.Context) error {
	if s.ln == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
