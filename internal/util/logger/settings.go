package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Format 日志输出格式
type Format int32

const (
	// FormatText key=value 文本（默认）
	FormatText Format = iota
	// FormatJSON 每行一个 JSON 对象
	FormatJSON
)

// ParseFormat 解析 text/json，空字符串视为 text
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q", name)
	}
}

// Settings 各子系统的日志级别
//
// 子系统名按 "/" 分层：transport/tcp 没有单独设置时沿用 transport 的级别。
type Settings struct {
	Default   slog.Level
	Overrides map[string]slog.Level
	AddSource bool
}

func newSettings() *Settings {
	return &Settings{Default: slog.LevelInfo, Overrides: map[string]slog.Level{}}
}

// Level 返回子系统生效的级别
func (s *Settings) Level(subsystem string) slog.Level {
	for name := subsystem; name != ""; {
		if lvl, ok := s.Overrides[name]; ok {
			return lvl
		}
		i := strings.LastIndexByte(name, '/')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return s.Default
}

// ParseLevels 解析 "mux=debug,transport=warn,info" 形式的级别列表
//
// 不带子系统的一项设置默认级别；任一项无法识别时返回错误，s 不变。
func (s *Settings) ParseLevels(spec string) error {
	def := s.Default
	overrides := make(map[string]slog.Level, len(s.Overrides))
	for k, v := range s.Overrides {
		overrides[k] = v
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, lvlName, scoped := strings.Cut(part, "=")
		if !scoped {
			lvlName = name
		}
		lvl, err := parseLevel(lvlName)
		if err != nil {
			return err
		}
		if scoped {
			overrides[strings.TrimSpace(name)] = lvl
		} else {
			def = lvl
		}
	}

	s.Default = def
	s.Overrides = overrides
	return nil
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// settingsFromEnv 读取 SANSIO_LOG_LEVEL / SANSIO_LOG_FORMAT / SANSIO_LOG_ADD_SOURCE
//
// 无法识别的值忽略，保持默认。
func settingsFromEnv() (*Settings, Format) {
	s := newSettings()
	if v := os.Getenv(envLevel); v != "" {
		_ = s.ParseLevels(v)
	}
	f, _ := ParseFormat(os.Getenv(envFormat))
	if v := os.Getenv(envAddSource); v != "" {
		s.AddSource = v != "false" && v != "0"
	}
	return s, f
}

const (
	envLevel     = "SANSIO_LOG_LEVEL"
	envFormat    = "SANSIO_LOG_FORMAT"
	envAddSource = "SANSIO_LOG_ADD_SOURCE"
)
