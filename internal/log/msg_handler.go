package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// MsgHandler prints the message followed by key=value pairs, one record per line.
// Records below level are dropped.
type MsgHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  slog.Level
	attrs  []slog.Attr
}

func NewMsgHandler(writer io.Writer, level slog.Level) *MsgHandler {
	return &MsgHandler{mu: &sync.Mutex{}, writer: writer, level: level}
}

func (h *MsgHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *MsgHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if record.Level >= slog.LevelWarn {
		_, _ = fmt.Fprint(h.writer, record.Level.String(), ": ")
	}
	_, _ = fmt.Fprint(h.writer, record.Message)

	printAttr := func(a slog.Attr) bool {
		_, _ = fmt.Fprintf(h.writer, " %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		printAttr(a)
	}
	record.Attrs(printAttr)

	_, _ = fmt.Fprintln(h.writer)
	return nil
}

func (h *MsgHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &h2
}

func (h *MsgHandler) WithGroup(_ string) slog.Handler {
	return h
}
