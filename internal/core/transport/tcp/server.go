package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-sansio/config"
	"github.com/dep2p/go-sansio/internal/core/transport"
	"github.com/dep2p/go-sansio/internal/util/logger"
)

var log = logger.Logger("transport/tcp")

// Config TCP 链路配置
type Config struct {
	ListenAddr      string
	KeepAlive       bool
	KeepAlivePeriod time.Duration
	NoDelay         bool
	ReadBufferSize  int
}

// ConfigFromUnified 从统一配置创建 TCP 配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	t := cfg.Transport.TCP
	return Config{
		ListenAddr:      t.ListenAddr,
		KeepAlive:       t.KeepAlive,
		KeepAlivePeriod: t.KeepAlivePeriod.Duration(),
		NoDelay:         t.NoDelay,
		ReadBufferSize:  t.ReadBufferSize,
	}
}

// Server 接受 TCP 客户端，每个连接绑定到接入点之下
type Server struct {
	cfg Config
	ep  transport.Endpoint

	mu     sync.Mutex
	ln     net.Listener
	conns  map[*Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewServer 创建 TCP 服务
func NewServer(cfg Config, ep transport.Endpoint) *Server {
	return &Server{
		cfg:   cfg,
		ep:    ep,
		conns: make(map[*Conn]struct{}),
	}
}

// Listen 开始监听
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServerClosed
	}
	if s.ln != nil {
		return nil
	}

	lc := net.ListenConfig{}
	if s.cfg.KeepAlive {
		lc.KeepAlive = s.cfg.KeepAlivePeriod
	} else {
		lc.KeepAlive = -1
	}
	ln, err := lc.Listen(context.Background(), "tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	s.ln = ln
	log.Info("TCP 服务已监听", "addr", ln.Addr().String())
	return nil
}

// Addr 返回监听地址；未监听时为 nil
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve 接受连接直到 ctx 结束或服务关闭
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return ErrNotListening
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return s.Close()
	})
	g.Go(func() error {
		defer cancel()
		return s.acceptLoop(ln)
	})
	return g.Wait()
}

func (s *Server) acceptLoop(ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.handle(nc)
	}
}

func (s *Server) handle(nc net.Conn) {
	if tc, ok := nc.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(s.cfg.NoDelay)
	}

	c := NewConn(nc)
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
		c.serve(s.ep, h, s.cfg.ReadBufferSize)
		s.mu.Lock()
		delete(s.conns, c)
		s.mu.Unlock()
	}()
}

// Len 当前连接数
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close 关闭监听与全部连接，等待读循环解绑后返回
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ln := s.ln
	conns := make([]*Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	var errs error
	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = multierr.Append(errs, err)
		}
	}
	for _, c := range conns {
		errs = multierr.Append(errs, c.Close())
	}
	s.wg.Wait()
	log.Info("TCP 服务已关闭", "conns", len(conns))
	return errs
}

// Start 监听并在后台接受连接
func (s *Server) Start(_ context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	go func() {
		if err := s.Serve(context.Background()); err != nil {
			log.Error("TCP 服务异常退出", "err", err)
		}
	}()
	return nil
}

// Stop 关闭服务
func (s *Server) Stop(_ context.Context) error {
	return s.Close()
}
