// Package logger 各子系统共用的 slog 日志
//
// 每个包持有一个子系统 Logger：
//
//	var log = logger.Logger("transport/tcp")
//
// 上报流量的组件额外带 component 属性，取值与 metrics 的组件标签一致：
//
//	var log = logger.Component("mux", "fanout")
//
// 级别由 SANSIO_LOG_LEVEL（如 "mux=debug,transport=warn,info"）或
// Apply 设置；子系统名按 "/" 分层继承。格式由 SANSIO_LOG_FORMAT 或 Apply 设置。
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

type loggerKey struct {
	subsystem string
	component string
}

var (
	mu       sync.Mutex
	settings *Settings
	levels   = map[string]*slog.LevelVar{}
	loggers  = map[loggerKey]*slog.Logger{}

	format atomic.Int32
)

func init() {
	var f Format
	settings, f = settingsFromEnv()
	format.Store(int32(f))
}

// Logger 返回子系统的 Logger，同名多次调用返回同一实例
func Logger(subsystem string) *slog.Logger {
	return lookup(loggerKey{subsystem: subsystem})
}

// Component 返回带 component 属性的子系统 Logger
//
// 级别跟随 subsystem。
func Component(subsystem, component string) *slog.Logger {
	return lookup(loggerKey{subsystem: subsystem, component: component})
}

func lookup(k loggerKey) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[k]; ok {
		return l
	}

	attrs := []slog.Attr{slog.String("subsystem", k.subsystem)}
	if k.component != "" {
		attrs = append(attrs, slog.String("component", k.component))
	}
	l := slog.New(newLevelHandler(levelVar(k.subsystem), settings.AddSource, attrs))
	loggers[k] = l
	return l
}

// levelVar 调用方持有 mu
func levelVar(subsystem string) *slog.LevelVar {
	lv, ok := levels[subsystem]
	if !ok {
		lv = new(slog.LevelVar)
		lv.Set(settings.Level(subsystem))
		levels[subsystem] = lv
	}
	return lv
}

// SetLevel 运行中调整单个子系统的级别
func SetLevel(subsystem string, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	levelVar(subsystem).Set(level)
}

// Apply 用配置中的级别列表与格式覆盖当前设置
//
// 设置了 SANSIO_LOG_LEVEL 时 levels 被忽略；levels 为空时级别不变。
// 已创建的 Logger 立即生效。
func Apply(levelSpec, formatName string) error {
	f, err := ParseFormat(formatName)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if os.Getenv(envLevel) == "" && levelSpec != "" {
		next := newSettings()
		next.AddSource = settings.AddSource
		if err := next.ParseLevels(levelSpec); err != nil {
			return err
		}
		settings = next
		for name, lv := range levels {
			lv.Set(settings.Level(name))
		}
	}
	format.Store(int32(f))
	return nil
}

// SetOutput 切换所有 Logger 的输出目标
func SetOutput(w io.Writer) {
	output.set(w)
}
