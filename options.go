package sansio

import (
	"errors"

	"go.uber.org/fx"

	"github.com/dep2p/go-sansio/config"
	"github.com/dep2p/go-sansio/internal/core/halfduplex"
	"github.com/dep2p/go-sansio/internal/core/layer"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 基础配置；nil 时使用默认配置
	base *config.Config

	// 在基础配置之上依次应用的修改
	mods []func(*config.Config)

	// 栈顶
	app        layer.Layer
	responders []layer.Layer

	// mux 之上、栈顶之下的层，自上而下
	layers []layer.Layer

	// 半双工
	gate       halfduplex.Gate
	signalling halfduplex.Signalling

	// 额外的 Fx 选项
	fxOpts []fx.Option
}

func newOptions(opts []Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.app != nil && len(o.responders) > 0 {
		return nil, ErrConflictingTop
	}
	if o.gate != nil && o.signalling != nil {
		return nil, ErrConflictingGate
	}
	return o, nil
}

// config 返回应用全部修改后的配置
func (o *options) config() *config.Config {
	var cfg *config.Config
	if o.base != nil {
		cfg = config.CloneConfig(o.base)
	} else {
		cfg = config.NewConfig()
	}
	for _, mod := range o.mods {
		mod(cfg)
	}
	return cfg
}

// WithConfig 使用给定配置作为基础
//
// 其他修改配置的选项无论出现在前后，都作用在这份配置之上。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config must not be nil")
		}
		o.base = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载基础配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		o.base = cfg
		return nil
	}
}

// WithApplication 设置栈顶应用层
func WithApplication(app layer.Layer) Option {
	return func(o *options) error {
		if app == nil {
			return layer.ErrNilLayer
		}
		o.app = app
		return nil
	}
}

// WithHandler 以回调作为栈顶应用层
func WithHandler(h Handler) Option {
	return WithApplication(NewApplication(h))
}

// WithResponders 在栈顶放置 FanInDemux 并注册响应者
func WithResponders(responders ...layer.Layer) Option {
	return func(o *options) error {
		for _, r := range responders {
			if r == nil {
				return layer.ErrNilLayer
			}
		}
		o.responders = append(o.responders, responders...)
		return nil
	}
}

// WithLayers 在 mux 之上插入层，参数自上而下排列
func WithLayers(layers ...layer.Layer) Option {
	return func(o *options) error {
		for _, l := range layers {
			if l == nil {
				return layer.ErrNilLayer
			}
		}
		o.layers = append(o.layers, layers...)
		return nil
	}
}

// WithGate 插入 HalfDuplexTransport
func WithGate(g halfduplex.Gate) Option {
	return func(o *options) error {
		if g == nil {
			return errors.New("gate must not be nil")
		}
		o.gate = g
		return nil
	}
}

// WithSignalling 插入 StreamingTransport
//
// sig 实现 halfduplex.TransportBinder 时会拿到构造出的层，
// 用它把组装好的帧交给上层。
func WithSignalling(sig halfduplex.Signalling) Option {
	return func(o *options) error {
		if sig == nil {
			return errors.New("signalling must not be nil")
		}
		o.signalling = sig
		return nil
	}
}

// WithHalfDuplexMode 设置半双工模式（immediate/deferred）
func WithHalfDuplexMode(mode string) Option {
	return func(o *options) error {
		if _, err := halfduplex.ParseMode(mode); err != nil {
			return err
		}
		o.mods = append(o.mods, func(c *config.Config) { c.HalfDuplex.Mode = mode })
		return nil
	}
}

// WithTCP 启用 TCP 并设置监听地址；空地址禁用 TCP
func WithTCP(addr string) Option {
	return func(o *options) error {
		o.mods = append(o.mods, func(c *config.Config) {
			c.Transport.EnableTCP = addr != ""
			if addr != "" {
				c.Transport.TCP.ListenAddr = addr
			}
		})
		return nil
	}
}

// WithWebSocket 启用 WebSocket 并设置监听地址；空地址禁用
func WithWebSocket(addr string) Option {
	return func(o *options) error {
		o.mods = append(o.mods, func(c *config.Config) {
			c.Transport.EnableWebSocket = addr != ""
			if addr != "" {
				c.Transport.WebSocket.ListenAddr = addr
			}
		})
		return nil
	}
}

// WithSerial 启用串口；空路径禁用
func WithSerial(port string) Option {
	return func(o *options) error {
		o.mods = append(o.mods, func(c *config.Config) {
			c.Transport = c.Transport.WithSerial(port)
		})
		return nil
	}
}

// WithMetrics 启用指标；addr 非空时提供 Prometheus 抓取端点
func WithMetrics(addr string) Option {
	return func(o *options) error {
		o.mods = append(o.mods, func(c *config.Config) {
			c.Metrics.Enabled = true
			c.Metrics.ListenAddr = addr
		})
		return nil
	}
}

// WithFxOptions 追加 Fx 选项，用于替换或扩展内部组件
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOpts = append(o.fxOpts, opts...)
		return nil
	}
}
