package service

import (
	"context"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// exportGuard — at most one export per target path at a time
// ─────────────────────────────────────────────────────────────

// exportGuard rejects a second export to a path while the first one is
// still writing, and lets shutdown wait for in-flight exports.
type exportGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
	wg     sync.WaitGroup
}

// TryStart marks path busy. It returns false when an export to path is
// already running.
func (g *exportGuard) TryStart(path string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == nil {
		g.active = make(map[string]struct{})
	}
	if _, busy := g.active[path]; busy {
		return false
	}
	g.active[path] = struct{}{}
	g.wg.Add(1)
	return true
}

// Done releases path. Only call it after TryStart returned true.
func (g *exportGuard) Done(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, path)
	g.wg.Done()
}

// Wait blocks until every running export finishes or ctx is done.
func (g *exportGuard) Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
