package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// switchWriter 所有子系统共享的输出，SetOutput 可在运行中切换
type switchWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

var output = &switchWriter{w: os.Stderr}

// levelHandler 按子系统级别过滤，按当前格式选择编码
//
// text 与 json 两个编码器带着相同的属性，Apply 切换格式后
// 包初始化时创建的 Logger 也随之改变。
type levelHandler struct {
	level *slog.LevelVar
	text  slog.Handler
	json  slog.Handler
}

func newLevelHandler(level *slog.LevelVar, addSource bool, attrs []slog.Attr) *levelHandler {
	opts := &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		AddSource:   addSource,
		ReplaceAttr: replaceAttr,
	}
	return &levelHandler{
		level: level,
		text:  slog.NewTextHandler(output, opts).WithAttrs(attrs),
		json:  slog.NewJSONHandler(output, opts).WithAttrs(attrs),
	}
}

func (h *levelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	if Format(format.Load()) == FormatJSON {
		return h.json.Handle(ctx, r)
	}
	return h.text.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, text: h.text.WithAttrs(attrs), json: h.json.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, text: h.text.WithGroup(name), json: h.json.WithGroup(name)}
}

// replaceAttr 时间键缩写为 ts，级别小写；
// 句柄与资源标识等 Stringer 在两种格式下都输出 String()。
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 {
		switch a.Key {
		case slog.TimeKey:
			a.Key = "ts"
			return a
		case slog.LevelKey:
			if lvl, ok := a.Value.Any().(slog.Level); ok {
				a.Value = slog.StringValue(strings.ToLower(lvl.String()))
			}
			return a
		}
	}
	if a.Value.Kind() == slog.KindAny {
		if _, isErr := a.Value.Any().(error); !isErr {
			if s, ok := a.Value.Any().(fmt.Stringer); ok {
				a.Value = slog.StringValue(s.String())
			}
		}
	}
	return a
}
