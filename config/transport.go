package config

import (
	"errors"
	"time"
)

// TransportConfig 物理链路配置
//
// 每种链路都是栈底部的协作方，连接建立时绑定到 FanOutMux 之下：
//   - TCP: 监听并接受客户端
//   - WebSocket: HTTP 升级后的二进制消息
//   - Serial: 单个串口设备
type TransportConfig struct {
	// TCP 配置
	EnableTCP bool      `json:"enable_tcp" toml:"enable_tcp"`
	TCP       TCPConfig `json:"tcp,omitempty" toml:"tcp"`

	// WebSocket 配置
	EnableWebSocket bool            `json:"enable_websocket" toml:"enable_websocket"`
	WebSocket       WebSocketConfig `json:"websocket,omitempty" toml:"websocket"`

	// 串口配置
	EnableSerial bool         `json:"enable_serial" toml:"enable_serial"`
	Serial       SerialConfig `json:"serial,omitempty" toml:"serial"`
}

// TCPConfig TCP 链路配置
type TCPConfig struct {
	// ListenAddr 监听地址
	ListenAddr string `json:"listen_addr" toml:"listen_addr"`

	// KeepAlive 是否启用 TCP KeepAlive
	KeepAlive bool `json:"keep_alive" toml:"keep_alive"`

	// KeepAlivePeriod KeepAlive 周期
	KeepAlivePeriod Duration `json:"keep_alive_period" toml:"keep_alive_period"`

	// NoDelay 是否禁用 Nagle 算法
	NoDelay bool `json:"no_delay" toml:"no_delay"`

	// ReadBufferSize 单次读取的缓冲区大小
	ReadBufferSize int `json:"read_buffer_size,omitempty" toml:"read_buffer_size"`
}

// WebSocketConfig WebSocket 链路配置
type WebSocketConfig struct {
	// ListenAddr HTTP 监听地址
	ListenAddr string `json:"listen_addr" toml:"listen_addr"`

	// Path 升级路径
	Path string `json:"path" toml:"path"`

	// ReadBufferSize 读缓冲区大小
	ReadBufferSize int `json:"read_buffer_size,omitempty" toml:"read_buffer_size"`

	// WriteBufferSize 写缓冲区大小
	WriteBufferSize int `json:"write_buffer_size,omitempty" toml:"write_buffer_size"`

	// HandshakeTimeout 握手超时
	HandshakeTimeout Duration `json:"handshake_timeout" toml:"handshake_timeout"`

	// EnableCompression 是否启用 permessage-deflate
	EnableCompression bool `json:"enable_compression" toml:"enable_compression"`
}

// SerialConfig 串口链路配置
type SerialConfig struct {
	// Port 设备路径，如 /dev/ttyUSB0、COM3
	Port string `json:"port" toml:"port"`

	// BaudRate 波特率
	BaudRate int `json:"baud_rate" toml:"baud_rate"`

	// DataBits 数据位（5-8）
	DataBits int `json:"data_bits" toml:"data_bits"`

	// Parity 校验：none/odd/even/mark/space
	Parity string `json:"parity" toml:"parity"`

	// StopBits 停止位：1/1.5/2
	StopBits string `json:"stop_bits" toml:"stop_bits"`

	// ReadBufferSize 单次读取的缓冲区大小
	ReadBufferSize int `json:"read_buffer_size,omitempty" toml:"read_buffer_size"`
}

// DefaultTransportConfig 返回默认链路配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		EnableTCP: true,
		TCP: TCPConfig{
			ListenAddr:      ":7000",
			KeepAlive:       true,
			KeepAlivePeriod: Duration(15 * time.Second),
			NoDelay:         true,
			ReadBufferSize:  4096,
		},

		EnableWebSocket: false,
		WebSocket: WebSocketConfig{
			ListenAddr:        ":7001",
			Path:              "/ws",
			ReadBufferSize:    4096,
			WriteBufferSize:   4096,
			HandshakeTimeout:  Duration(10 * time.Second),
			EnableCompression: false,
		},

		EnableSerial: false,
		Serial: SerialConfig{
			BaudRate:       9600,
			DataBits:       8,
			Parity:         "none",
			StopBits:       "1",
			ReadBufferSize: 256,
		},
	}
}

var validParity = map[string]bool{"none": true, "odd": true, "even": true, "mark": true, "space": true}

var validStopBits = map[string]bool{"1": true, "1.5": true, "2": true}

// Validate 验证链路配置
func (c TransportConfig) Validate() error {
	if c.EnableTCP {
		if c.TCP.ListenAddr == "" {
			return errors.New("TCP listen address must not be empty")
		}
		if c.TCP.KeepAlive && c.TCP.KeepAlivePeriod <= 0 {
			return errors.New("TCP keep alive period must be positive when enabled")
		}
		if c.TCP.ReadBufferSize <= 0 {
			return errors.New("TCP read buffer size must be positive")
		}
	}

	if c.EnableWebSocket {
		if c.WebSocket.ListenAddr == "" {
			return errors.New("WebSocket listen address must not be empty")
		}
		if len(c.WebSocket.Path) == 0 || c.WebSocket.Path[0] != '/' {
			return errors.New("WebSocket path must start with /")
		}
		if c.WebSocket.ReadBufferSize <= 0 {
			return errors.New("WebSocket read buffer size must be positive")
		}
		if c.WebSocket.WriteBufferSize <= 0 {
			return errors.New("WebSocket write buffer size must be positive")
		}
		if c.WebSocket.HandshakeTimeout <= 0 {
			return errors.New("WebSocket handshake timeout must be positive")
		}
	}

	if c.EnableSerial {
		if c.Serial.Port == "" {
			return errors.New("serial port must not be empty")
		}
		if c.Serial.BaudRate <= 0 {
			return errors.New("serial baud rate must be positive")
		}
		if c.Serial.DataBits < 5 || c.Serial.DataBits > 8 {
			return errors.New("serial data bits must be between 5 and 8")
		}
		if !validParity[c.Serial.Parity] {
			return errors.New("serial parity must be one of none/odd/even/mark/space")
		}
		if !validStopBits[c.Serial.StopBits] {
			return errors.New("serial stop bits must be one of 1/1.5/2")
		}
		if c.Serial.ReadBufferSize <= 0 {
			return errors.New("serial read buffer size must be positive")
		}
	}

	return nil
}

// WithTCP 设置是否启用 TCP
func (c TransportConfig) WithTCP(enabled bool) TransportConfig {
	c.EnableTCP = enabled
	return c
}

// WithWebSocket 设置是否启用 WebSocket
func (c TransportConfig) WithWebSocket(enabled bool) TransportConfig {
	c.EnableWebSocket = enabled
	return c
}

// WithSerial 启用串口并设置设备路径
func (c TransportConfig) WithSerial(port string) TransportConfig {
	c.EnableSerial = port != ""
	c.Serial.Port = port
	return c
}
