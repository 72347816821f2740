package serial

import (
	"context"
	"fmt"
	"sync"

	"go.bug.st/serial"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/core/transport"
	"github.com/dep2p/go-sansio/internal/util/logger"
)

var log = logger.Logger("transport/serial")

// Opener 打开设备
type Opener func(name string, mode *serial.Mode) (serial.Port, error)

// Option 设备选项
type Option func(*Device)

// WithOpener 替换打开设备的方式
func WithOpener(open Opener) Option {
	return func(d *Device) {
		if open != nil {
			d.open = open
		}
	}
}

// Device 管理单个串口设备的打开、接入与关闭
type Device struct {
	cfg  Config
	ep   transport.Endpoint
	open Opener

	mu     sync.Mutex
	link   *Link
	closed bool
}

// NewDevice 创建设备
func NewDevice(cfg Config, ep transport.Endpoint, opts ...Option) *Device {
	d := &Device{cfg: cfg, ep: ep, open: serial.Open}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start 打开设备、清空输入缓冲并绑定到接入点之下
func (d *Device) Start(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDeviceClosed
	}
	if d.link != nil {
		return ErrDeviceOpen
	}

	mode, err := d.cfg.Mode()
	if err != nil {
		return err
	}
	port, err := d.open(d.cfg.Port, mode)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.cfg.Port, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		log.Debug("清空输入缓冲失败", "port", d.cfg.Port, "err", err)
	}

	link := newLink(d.cfg.Port, port)
	h, err := d.ep.Connect(link)
	if err != nil {
		_ = link.Close()
		return err
	}
	d.link = link
	log.Info("串口已打开", "port", d.cfg.Port, "baud", mode.BaudRate)

	go d.serve(link, h)
	return nil
}

// serve 读循环结束后释放链路，设备断开后可以再次 Start
func (d *Device) serve(link *Link, h layer.Handle) {
	link.serve(d.ep, h, d.cfg.ReadBufferSize)

	d.mu.Lock()
	if d.link == link {
		d.link = nil
	}
	d.mu.Unlock()
}

// Link 当前链路；未打开或已断开时为 nil
func (d *Device) Link() *Link {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.link
}

// Stop 关闭设备并等待读循环解绑
func (d *Device) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	link := d.link
	d.mu.Unlock()

	if link == nil {
		return nil
	}
	err := link.Close()
	select {
	case <-link.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

// Ports 列出系统中的串口设备
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
