package websocket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/multierr"

	"github.com/dep2p/go-sansio/config"
	"github.com/dep2p/go-sansio/internal/core/transport"
	"github.com/dep2p/go-sansio/internal/util/logger"
)

var log = logger.Logger("transport/websocket")

// Config WebSocket 链路配置
type Config struct {
	ListenAddr        string
	Path              string
	ReadBufferSize    int
	WriteBufferSize   int
	HandshakeTimeout  time.Duration
	EnableCompression bool
}

// ConfigFromUnified 从统一配置创建 WebSocket 配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	w := cfg.Transport.WebSocket
	return Config{
		ListenAddr:        w.ListenAddr,
		Path:              w.Path,
		ReadBufferSize:    w.ReadBufferSize,
		WriteBufferSize:   w.WriteBufferSize,
		HandshakeTimeout:  w.HandshakeTimeout.Duration(),
		EnableCompression: w.EnableCompression,
	}
}

// Server 在 HTTP 路径上升级连接，每个连接绑定到接入点之下
type Server struct {
	cfg      Config
	ep       transport.Endpoint
	upgrader websocket.Upgrader

	mu     sync.Mutex
	srv    *http.Server
	ln     net.Listener
	conns  map[*Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewServer 创建 WebSocket 服务
func NewServer(cfg Config, ep transport.Endpoint) *Server {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	s := &Server{
		cfg: cfg,
		ep:  ep,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    cfg.ReadBufferSize,
			WriteBufferSize:   cfg.WriteBufferSize,
			HandshakeTimeout:  cfg.HandshakeTimeout,
			EnableCompression: cfg.EnableCompression,
			CheckOrigin:       func(*http.Request) bool { return true },
		},
		conns: make(map[*Conn]struct{}),
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, s)
	s.srv = &http.Server{Handler: mux}
	return s
}

// ServeHTTP 升级请求并接入栈
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("升级失败", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := NewConn(ws)
	h, err := s.ep.Connect(c)
	if err != nil {
		log.Warn("连接接入失败", "conn", c.ResourceID(), "err", err)
		_ = c.Close()
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = s.ep.Disconnect(h)
		_ = c.Close()
		return
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()

	log.Info("已接受连接", "conn", c.ResourceID())
	go func() {
		defer s.wg.Done()
		c.serve(s.ep, h)
		s.mu.Lock()
		delete(s.conns, c)
		s.mu.Unlock()
	}()
}

// Start 监听并在后台提供 HTTP 服务
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServerClosed
	}
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	s.ln = ln
	log.Info("WebSocket 服务已监听", "addr", ln.Addr().String(), "path", s.cfg.Path)

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("WebSocket 服务异常退出", "err", err)
		}
	}()
	return nil
}

// URL 返回可拨号的 ws:// 地址；未启动时为空
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return "ws://" + s.ln.Addr().String() + s.cfg.Path
}

// Len 当前连接数
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Stop 关闭 HTTP 服务与全部连接，等待读循环解绑后返回
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	started := s.ln != nil
	conns := make([]*Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	var errs error
	if started {
		// 被劫持的连接不受 Shutdown 影响，需要单独关闭
		errs = multierr.Append(errs, s.srv.Shutdown(ctx))
	}
	for _, c := range conns {
		errs = multierr.Append(errs, c.Close())
	}
	s.wg.Wait()
	log.Info("WebSocket 服务已关闭", "conns", len(conns))
	return errs
}
