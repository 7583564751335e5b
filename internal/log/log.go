// Package log configures slog for Mudra: a console or JSON handler on stderr
// and an optional rotated JSON file.
package log

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"` // "console" or "json"
	AddSource bool   `yaml:"source"`
	// File enables a rotated JSON log next to the console output.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// New builds a logger writing to w, plus the optional file. The returned
// closer releases the file and is safe to call when no file is open.
func New(opts Options, w io.Writer) (*slog.Logger, io.Closer) {
	lvl := ParseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(w, hopts)
	} else {
		console = &consoleHandler{level: lvl, w: w, mu: &sync.Mutex{}}
	}

	if strings.TrimSpace(opts.File) == "" {
		return slog.New(console), nopCloser{}
	}

	file := &lj.Logger{
		Filename:   opts.File,
		MaxSize:    orDefault(opts.MaxSizeMB, 10),
		MaxBackups: orDefault(opts.MaxBackups, 3),
		MaxAge:     28,
		Compress:   true,
	}
	h := &multi{hs: []slog.Handler{console, slog.NewJSONHandler(file, hopts)}}
	return slog.New(h), file
}

// Init builds a logger with New and installs it as slog.Default.
func Init(opts Options, w io.Writer) (*slog.Logger, io.Closer) {
	l, c := New(opts, w)
	slog.SetDefault(l)
	return l, c
}

// WithComponent returns l with the component attribute set.
func WithComponent(l *slog.Logger, name string) *slog.Logger {
	return l.With(slog.String("component", name))
}

// ParseLevel converts a level name to slog.Level. Unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// multi fans out log records to multiple handlers.
type multi struct{ hs []slog.Handler }

func (m *multi) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multi) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multi) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithAttrs(attrs)
	}
	return &multi{hs: res}
}

func (m *multi) WithGroup(name string) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithGroup(name)
	}
	return &multi{hs: res}
}

// consoleHandler prints one human-friendly line per record:
// time level msg key=val...
type consoleHandler struct {
	level  slog.Level
	w      io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	b := &strings.Builder{}
	b.Grow(128)
	at := r.Time
	if at.IsZero() {
		at = time.Now()
	}
	b.WriteString(at.Format("15:04:05.000"))
	b.WriteString(" ")
	b.WriteString(levelString(r.Level))
	b.WriteString(" ")
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(b, h.prefix, a)
		return true
	})
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	na := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	na = append(na, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		na = append(na, a)
	}
	return &consoleHandler{level: h.level, w: h.w, mu: h.mu, attrs: na, prefix: h.prefix}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &consoleHandler{level: h.level, w: h.w, mu: h.mu, attrs: h.attrs, prefix: h.prefix + name + "."}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, g := range a.Value.Group() {
			writeAttr(b, prefix+a.Key+".", g)
		}
		return
	}
	b.WriteString(" ")
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteString("=")
	b.WriteString(valueString(a.Value))
}

func levelString(l slog.Level) string {
	switch l {
	case slog.LevelDebug:
		return "DBG"
	case slog.LevelInfo:
		return "INF"
	case slog.LevelWarn:
		return "WRN"
	case slog.LevelError:
		return "ERR"
	default:
		return l.String()
	}
}

func valueString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\"=") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return v.String()
	}
}
