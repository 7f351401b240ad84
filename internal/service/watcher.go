package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ─────────────────────────────────────────────────────────────
// ImportWatcher — re-import a JSON document whenever it changes
// ─────────────────────────────────────────────────────────────

const importDebounce = 500 * time.Millisecond

// ImportWatcher watches one JSON file and feeds every settled change into
// Editor.ImportJSON. Rejected content is logged and otherwise ignored.
type ImportWatcher struct {
	editor *Editor
	path   string
	log    *zap.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	timer    *time.Timer
	last     []byte
	imported chan struct{}
}

// NewImportWatcher creates a watcher for path.
func NewImportWatcher(editor *Editor, path string, log *zap.Logger) *ImportWatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImportWatcher{editor: editor, path: path, log: log, imported: make(chan struct{}, 1)}
}

// Imported signals after each successful import.
func (w *ImportWatcher) Imported() <-chan struct{} {
	return w.imported
}

// Start begins watching. The parent directory is watched so that editors
// which replace the file through a rename are still picked up.
func (w *ImportWatcher) Start(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("watch path %q: %w", w.path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return fmt.Errorf("watch dir %q: %w", filepath.Dir(abs), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.watcher = fw
	w.cancel = cancel
	w.mu.Unlock()

	go w.loop(watchCtx, fw, abs)
	w.log.Info("watching for imports", zap.String("path", abs))
	return nil
}

func (w *ImportWatcher) loop(ctx context.Context, fw *fsnotify.Watcher, abs string) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != abs {
				continue
			}
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.timer = time.AfterFunc(importDebounce, func() { w.importFile(ctx, abs) })
			w.mu.Unlock()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *ImportWatcher) importFile(ctx context.Context, abs string) {
	if ctx.Err() != nil {
		return
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		w.log.Warn("read import file", zap.String("path", abs), zap.Error(err))
		return
	}
	w.mu.Lock()
	same := bytes.Equal(data, w.last)
	w.mu.Unlock()
	if same {
		return
	}

	err = w.editor.ImportJSON(ctx, string(data))
	w.log.Info("file import", zap.String("path", abs), zap.Stringer("outcome", OutcomeOf(err)), zap.Error(err))
	if err == nil {
		// only imported content is skipped next time
		w.mu.Lock()
		w.last = data
		w.mu.Unlock()
		select {
		case w.imported <- struct{}{}:
		default:
		}
	}
}

// Stop ends the watch loop and releases the OS watcher.
func (w *ImportWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.watcher != nil {
		w.watcher.Close()
		w.watcher = nil
	}
}
