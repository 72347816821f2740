package config

import "fmt"

// HalfDuplexConfig 半双工层配置
type HalfDuplexConfig struct {
	// Mode 发送模式：immediate / deferred
	//
	// 对端要求在收到后的严格时间窗口内应答时必须使用 immediate。
	Mode string `json:"mode" toml:"mode"`
}

// DefaultHalfDuplexConfig 返回默认半双工配置
func DefaultHalfDuplexConfig() HalfDuplexConfig {
	return HalfDuplexConfig{
		Mode: "immediate",
	}
}

// Validate 验证半双工配置
func (c HalfDuplexConfig) Validate() error {
	switch c.Mode {
	case "immediate", "deferred":
		return nil
	default:
		return fmt.Errorf("half duplex mode must be immediate or deferred, got %q", c.Mode)
	}
}
