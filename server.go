package sansio

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-sansio/config"
	"github.com/dep2p/go-sansio/internal/core/demux"
	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/core/metrics"
	"github.com/dep2p/go-sansio/internal/core/mux"
	"github.com/dep2p/go-sansio/internal/core/transport/serial"
	"github.com/dep2p/go-sansio/internal/core/transport/tcp"
	"github.com/dep2p/go-sansio/internal/core/transport/websocket"
	"github.com/dep2p/go-sansio/internal/util/logger"
)

var log = logger.Logger("sansio")

// startTimeout Fx 启动超时
const startTimeout = 30 * time.Second

// halfDuplex Server 对半双工层的操作
type halfDuplex interface {
	GateChanged() error
	Drain() error
	Pending() int
}

// Server 装配好的协议栈服务
type Server struct {
	mu      sync.Mutex
	app     *fx.App
	cfg     *config.Config
	logFile *os.File
	started bool
	closed  bool

	stack *layer.Stack
	mux   *mux.FanOutMux
	demux *demux.FanInDemux
	hd    halfDuplex
	top   layer.Layer

	tcp       *tcp.Server
	ws        *websocket.Server
	serial    *serial.Device
	collector *metrics.Collector
}

// New 按选项构建服务，尚不启动任何链路
func New(opts ...Option) (*Server, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	cfg := o.config()

	s := &Server{cfg: cfg}
	if err := s.applyLog(cfg.Log); err != nil {
		return nil, err
	}

	app, err := buildFxApp(cfg, o, s)
	if err != nil {
		s.closeLog()
		return nil, err
	}
	s.app = app
	return s, nil
}

// applyLog 按配置调整日志级别、格式与输出文件
func (s *Server) applyLog(c config.LogConfig) error {
	if err := logger.Apply(c.Level, c.Format); err != nil {
		return fmt.Errorf("apply log config: %w", err)
	}
	if c.File == "" {
		return nil
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	s.logFile = f
	return nil
}

func (s *Server) closeLog() error {
	if s.logFile == nil {
		return nil
	}
	logger.SetOutput(os.Stderr)
	err := s.logFile.Close()
	s.logFile = nil
	return err
}

// Start 启动 Fx 应用：打开监听与设备，链路开始接入
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServerClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := s.app.Start(startCtx); err != nil {
		log.Error("服务启动失败", "err", err)
		return fmt.Errorf("start failed: %w", err)
	}
	s.started = true

	log.Info("服务已启动",
		"tcp", s.TCPAddr(),
		"websocket", s.WebSocketURL(),
		"serial", s.serial != nil,
		"metrics", s.collector != nil)
	return nil
}

// Stop 断开全部链路、拆除栈并关闭日志文件
//
// 停止后不能再次启动。
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs error
	if s.started {
		errs = multierr.Append(errs, s.app.Stop(ctx))
		s.started = false
	}
	log.Info("服务已停止")
	errs = multierr.Append(errs, s.closeLog())
	return errs
}

// Send 从栈顶向下发送，经 mux 广播到全部链路
//
// 不得在 Handler 回调内调用。
func (s *Server) Send(data []byte) error {
	if err := s.checkRunning(); err != nil {
		return err
	}
	return s.stack.Do(func() error {
		return s.top.SendBytes(data)
	})
}

// GateChanged 通知半双工层闸门可能已变化
//
// 由 BLOCKED 变为 OPEN 时排空队列。
func (s *Server) GateChanged() error {
	if s.hd == nil {
		return ErrNoHalfDuplex
	}
	return s.stack.Do(s.hd.GateChanged)
}

// Drain 在闸门打开时尽量排空半双工队列
func (s *Server) Drain() error {
	if s.hd == nil {
		return ErrNoHalfDuplex
	}
	return s.stack.Do(s.hd.Drain)
}

// Pending 半双工队列中待发送的缓冲区数
func (s *Server) Pending() int {
	if s.hd == nil {
		return 0
	}
	return s.hd.Pending()
}

// Links 当前绑定在 mux 之下的链路数
func (s *Server) Links() int {
	var n int
	_ = s.stack.Do(func() error {
		n = s.mux.Len()
		return nil
	})
	return n
}

func (s *Server) checkRunning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServerClosed
	}
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Config 返回生效的配置
func (s *Server) Config() *config.Config {
	return s.cfg
}

// Stack 底层栈，调用方访问层时需经 Stack.Do
func (s *Server) Stack() *layer.Stack {
	return s.stack
}

// Mux 链路多路复用器
func (s *Server) Mux() *mux.FanOutMux {
	return s.mux
}

// Demux 栈顶分发器；未使用 WithResponders 时为 nil
func (s *Server) Demux() *demux.FanInDemux {
	return s.demux
}

// Collector 指标收集器；未启用指标时为 nil
func (s *Server) Collector() *metrics.Collector {
	return s.collector
}

// TCPAddr TCP 监听地址；未启用或未启动时为 nil
func (s *Server) TCPAddr() net.Addr {
	if s.tcp == nil {
		return nil
	}
	return s.tcp.Addr()
}

// WebSocketURL WebSocket 地址；未启用或未启动时为空
func (s *Server) WebSocketURL() string {
	if s.ws == nil {
		return ""
	}
	return s.ws.URL()
}

// SerialDevice 串口设备；未启用时为 nil
func (s *Server) SerialDevice() *serial.Device {
	return s.serial
}
