package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// PrettyHandler is a slog.Handler for human-friendly workflow logs.
// With annotations enabled, warn and error records are written as
// ::warning:: and ::error:: commands so they show up on the PR checks page.
type PrettyHandler struct {
	opts        *slog.HandlerOptions
	w           io.Writer
	mu          *sync.Mutex
	attrs       []slog.Attr
	groups      []string
	annotations bool
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts:  opts,
		w:     w,
		mu:    &sync.Mutex{},
		attrs: []slog.Attr{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelWarn
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs = append(attrs, h.formatAttr(a, false))
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.formatAttr(a, false))
		return true
	})

	var buf strings.Builder
	if cmd := h.annotation(r.Level); cmd != "" {
		plain := make([]string, 0, len(attrs))
		for _, a := range h.attrs {
			plain = append(plain, h.formatAttr(a, true))
		}
		r.Attrs(func(a slog.Attr) bool {
			plain = append(plain, h.formatAttr(a, true))
			return true
		})
		msg := r.Message
		if len(plain) > 0 {
			msg += " " + strings.Join(plain, " ")
		}
		buf.WriteString("::" + cmd + "::" + escapeData(msg) + "\n")
	} else {
		buf.WriteString(h.formatLevel(r.Level))
		buf.WriteString(" ")
		buf.WriteString(r.Message)
		if len(attrs) > 0 {
			buf.WriteString(" ")
			buf.WriteString(strings.Join(attrs, " "))
		}
		if h.opts.AddSource && r.PC != 0 {
			frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
			if frame.File != "" {
				buf.WriteString(" ")
				buf.WriteString(color.HiBlackString("(%s:%d)", filepath.Base(frame.File), frame.Line))
			}
		}
		buf.WriteString("\n")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	clone := *h
	clone.attrs = newAttrs
	return &clone
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name

	clone := *h
	clone.groups = newGroups
	return &clone
}

func (h *PrettyHandler) annotation(level slog.Level) string {
	if !h.annotations {
		return ""
	}
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	default:
		return ""
	}
}

func (h *PrettyHandler) formatLevel(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return color.HiBlackString("[DEBUG]")
	case slog.LevelInfo:
		return color.CyanString("[INFO] ")
	case slog.LevelWarn:
		return color.YellowString("[WARN] ")
	case slog.LevelError:
		return color.RedString("[ERROR]")
	default:
		return fmt.Sprintf("[%s]", level.String())
	}
}

func (h *PrettyHandler) formatAttr(a slog.Attr, plain bool) string {
	key := a.Key
	val := a.Value.String()

	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}
	if plain {
		return fmt.Sprintf("%s=%s", key, val)
	}

	switch key {
	case "error", "err":
		return color.RedString("%s=%s", key, val)
	case "duration_ms", "duration", "backoff":
		return color.MagentaString("%s=%s", key, val)
	case "attempt", "count", "total":
		return color.GreenString("%s=%s", key, val)
	default:
		return color.HiBlackString("%s=%s", key, val)
	}
}

// escapeData applies the workflow command escaping for message data.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
