package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"pagebuilder/internal/service"
)

// NoticePrinter is the terminal EventEmitter: it writes editor notices as
// one line each and ignores every other event.
type NoticePrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewNoticePrinter(w io.Writer) *NoticePrinter {
	if w == nil {
		w = io.Discard
	}
	return &NoticePrinter{w: w}
}

func (p *NoticePrinter) Emit(_ context.Context, event string, data any) {
	n, ok := data.(service.Notice)
	if !ok || event != service.EventNotify {
		return
	}
	mark := "✓"
	switch n.Level {
	case service.LevelError:
		mark = "✗"
	case service.LevelInfo:
		mark = "·"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s\n", mark, n.Message)
}
