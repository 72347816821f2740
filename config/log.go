package config

import "fmt"

// LogConfig 日志配置
//
// 环境变量 SANSIO_LOG_LEVEL / SANSIO_LOG_FORMAT 优先于这里的设置。
type LogConfig struct {
	// Level 日志级别：debug/info/warn/error，也支持 "mux=debug,info" 形式
	Level string `json:"level" toml:"level"`

	// Format 输出格式：text / json
	Format string `json:"format" toml:"format"`

	// File 日志文件路径，空表示标准错误
	File string `json:"file,omitempty" toml:"file"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	switch c.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Format)
	}
}
