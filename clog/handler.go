package clog

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// clogHandler 包装 slog.Handler，提供动态级别和 Flush 能力
type clogHandler struct {
	slog.Handler
	levelVar *slog.LevelVar
	flusher  func()
}

func (h *clogHandler) SetLevel(level Level) error {
	h.levelVar.Set(level.slogLevel())
	return nil
}

func (h *clogHandler) Flush() {
	if h.flusher != nil {
		h.flusher()
	}
}

// newHandler 构造顺序：writer -> level -> json / tint handler -> wrapper
func newHandler(config *Config, opts *options) (*clogHandler, error) {
	w, flusher, err := resolveWriter(config, opts)
	if err != nil {
		return nil, err
	}

	level, _ := ParseLevel(config.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level.slogLevel())

	var handler slog.Handler
	if strings.ToLower(config.Format) == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   config.AddSource,
			Level:       levelVar,
			ReplaceAttr: replaceAttr,
		})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			AddSource:  config.AddSource,
			Level:      levelVar,
			TimeFormat: time.TimeOnly,
			NoColor:    !config.EnableColor,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.LevelKey && len(groups) == 0 {
					if lvl, ok := a.Value.Any().(slog.Level); ok && lvl > slog.LevelError {
						return slog.String(a.Key, "FTL")
					}
				}
				return a
			},
		})
	}

	return &clogHandler{Handler: handler, levelVar: levelVar, flusher: flusher}, nil
}

// resolveWriter 根据 Output 创建 writer，文件输出带缓冲
func resolveWriter(config *Config, opts *options) (io.Writer, func(), error) {
	switch strings.ToLower(config.Output) {
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	case "buffer":
		if opts.buffer == nil {
			return nil, nil, fmt.Errorf("buffer output requires a buffer option")
		}
		return opts.buffer, nil, nil
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		bw := &lockedWriter{w: bufio.NewWriter(f)}
		return bw, bw.flush, nil
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  *bufio.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (l *lockedWriter) flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.w.Flush()
}

// replaceAttr 统一 json 输出中的 level 和 time 格式
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.LevelKey:
		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}
		switch {
		case level <= slog.LevelDebug:
			a.Value = slog.StringValue("DEBUG")
		case level <= slog.LevelInfo:
			a.Value = slog.StringValue("INFO")
		case level <= slog.LevelWarn:
			a.Value = slog.StringValue("WARN")
		case level <= slog.LevelError:
			a.Value = slog.StringValue("ERROR")
		default:
			a.Value = slog.StringValue("FATAL")
		}
	case slog.TimeKey:
		if a.Value.Kind() == slog.KindTime {
			a.Value = slog.StringValue(a.Value.Time().Format(timeFormat))
		}
	}
	return a
}
