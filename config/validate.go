package config

import (
	"errors"
)

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，额外处理 nil。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 空的模式、策略、格式 -> 使用默认值
//   - 非正的缓冲区大小 -> 使用默认值
//   - 启用指标但没有命名空间 -> 使用默认值
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	def := NewConfig()

	if c.HalfDuplex.Mode == "" {
		c.HalfDuplex.Mode = def.HalfDuplex.Mode
	}
	if c.Demux.Strategy == "" {
		c.Demux.Strategy = def.Demux.Strategy
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}

	if c.Transport.TCP.ReadBufferSize <= 0 {
		c.Transport.TCP.ReadBufferSize = def.Transport.TCP.ReadBufferSize
	}
	if c.Transport.WebSocket.ReadBufferSize <= 0 {
		c.Transport.WebSocket.ReadBufferSize = def.Transport.WebSocket.ReadBufferSize
	}
	if c.Transport.WebSocket.WriteBufferSize <= 0 {
		c.Transport.WebSocket.WriteBufferSize = def.Transport.WebSocket.WriteBufferSize
	}
	if c.Transport.Serial.ReadBufferSize <= 0 {
		c.Transport.Serial.ReadBufferSize = def.Transport.Serial.ReadBufferSize
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		c.Metrics.Namespace = def.Metrics.Namespace
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
