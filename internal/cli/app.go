package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"pagebuilder/internal/config"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/logging"
	"pagebuilder/internal/secret"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

// App holds the engine and its collaborators for one command invocation.
// Commands run against a pre-wired App in tests; otherwise Open wires it
// from the configuration.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     domain.KVStore
	Editor    *service.Editor
	Templates *service.TemplateService
	Emitter   service.EventEmitter

	// Stdin is read by commands that accept "-" as a file argument.
	Stdin io.Reader
}

// Open loads the configuration at configPath and restores the document,
// history and templates from the configured store.
func (a *App) Open(ctx context.Context, configPath string, notices io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ResolveSecrets(secret.Default()); err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	store, err := storage.Open(ctx, cfg.StorageConfig())
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	return a.wire(ctx, cfg, log, store, NewNoticePrinter(notices))
}

func (a *App) wire(ctx context.Context, cfg *config.Config, log *zap.Logger, store domain.KVStore, emitter service.EventEmitter) error {
	ed := service.NewEditor(service.EditorOptions{
		Store:          store,
		Emitter:        emitter,
		Logger:         log,
		OutputMode:     cfg.OutputMode(),
		MaxHistory:     cfg.History.MaxEntries,
		PersistHistory: cfg.History.Persist,
	})
	if err := ed.Restore(ctx); err != nil {
		store.Close()
		return err
	}
	tmpl := service.NewTemplateService(ed, store, emitter, log)
	if err := tmpl.Restore(ctx); err != nil {
		store.Close()
		return err
	}

	a.Config = cfg
	a.Logger = log
	a.Store = store
	a.Editor = ed
	a.Templates = tmpl
	a.Emitter = emitter
	return nil
}

// Close releases the store and flushes the logger.
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

func (a *App) stdin() io.Reader {
	if a.Stdin != nil {
		return a.Stdin
	}
	return os.Stdin
}
