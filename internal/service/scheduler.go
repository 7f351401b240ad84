package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ─────────────────────────────────────────────────────────────
// ExportScheduler — periodic export of the document to disk
// ─────────────────────────────────────────────────────────────

// ErrExportBusy is returned when an export to the same path is in flight.
var ErrExportBusy = errors.New("export already running")

// ExportScheduler writes the editor's document to a file on a cron
// schedule. Paths ending in .json get the JSON export, everything else
// the HTML page in the editor's current output mode.
type ExportScheduler struct {
	editor  *Editor
	path    string
	spec    string
	emitter EventEmitter
	log     *zap.Logger

	mu    sync.Mutex
	cron  *cron.Cron
	guard exportGuard
}

// NewExportScheduler creates a scheduler for the standard five-field cron
// expression spec.
func NewExportScheduler(editor *Editor, spec, path string, emitter EventEmitter, log *zap.Logger) *ExportScheduler {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportScheduler{editor: editor, spec: spec, path: path, emitter: emitter, log: log}
}

// Start registers the job and starts the cron runner.
func (s *ExportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(s.spec, func() {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduled export failed", zap.String("path", s.path), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid export schedule %q: %w", s.spec, err)
	}
	c.Start()
	s.cron = c
	s.log.Info("export scheduled", zap.String("schedule", s.spec), zap.String("path", s.path))
	return nil
}

// RunOnce performs a single export immediately.
func (s *ExportScheduler) RunOnce(ctx context.Context) error {
	if !s.guard.TryStart(s.path) {
		return ErrExportBusy
	}
	defer s.guard.Done(s.path)

	var (
		body string
		err  error
	)
	if strings.EqualFold(filepath.Ext(s.path), ".json") {
		body, err = s.editor.ExportJSON()
	} else {
		body = s.editor.ExportHTML()
	}
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, []byte(body)); err != nil {
		return err
	}
	s.log.Debug("document exported", zap.String("path", s.path), zap.Int("bytes", len(body)))
	s.emitter.Emit(ctx, "editor:exported", s.path)
	return nil
}

// Stop halts the runner and waits for a running export to finish or ctx
// to be done.
func (s *ExportScheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
	s.guard.Wait(ctx)
}

// writeFileAtomic replaces path through a temp file in the same directory
// so readers never see a half-written export.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace export: %w", err)
	}
	return nil
}
