package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pagebuilder/internal/httpapi"
	mcpserver "pagebuilder/internal/mcp"
	"pagebuilder/internal/service"
)

const shutdownTimeout = 10 * time.Second

// background holds the optional file watcher and export scheduler that
// serve and watch run next to their main loop.
type background struct {
	watcher   *service.ImportWatcher
	scheduler *service.ExportScheduler
}

func startBackground(ctx context.Context, app *App, watchPath, schedule, exportPath string) (*background, error) {
	bg := &background{}
	if watchPath != "" {
		bg.watcher = service.NewImportWatcher(app.Editor, watchPath, app.Logger)
		if err := bg.watcher.Start(ctx); err != nil {
			return nil, err
		}
	}
	if schedule != "" {
		bg.scheduler = service.NewExportScheduler(app.Editor, schedule, exportPath, app.Emitter, app.Logger)
		if err := bg.scheduler.Start(ctx); err != nil {
			bg.stop(ctx)
			return nil, err
		}
	}
	return bg, nil
}

func (bg *background) stop(ctx context.Context) {
	if bg.scheduler != nil {
		bg.scheduler.Stop(ctx)
	}
	if bg.watcher != nil {
		bg.watcher.Stop()
	}
}

func newServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API, plus the configured watcher and scheduled export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := app.Config
			if addr == "" {
				addr = cfg.HTTP.Addr
			}
			bg, err := startBackground(ctx, app, cfg.Watch.Path, cfg.Export.Schedule, cfg.Export.Path)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.NewRouter(app.Editor, app.Templates, app.Logger, nil).Setup(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info("http server listening", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
			case err = <-errCh:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if serr := srv.Shutdown(shutdownCtx); serr != nil {
				app.Logger.Warn("http shutdown", zap.Error(serr))
			}
			bg.stop(shutdownCtx)
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config http.addr)")
	return cmd
}

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run an MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mcpserver.New(mcpserver.Deps{
				Editor:    app.Editor,
				Templates: app.Templates,
				Emitter:   app.Emitter,
				Logger:    app.Logger,
			})
			return srv.ServeStdio()
		},
	}
}

func newWatchCmd(app *App) *cobra.Command {
	var (
		exportPath string
		schedule   string
	)
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Import FILE whenever it changes",
		Long: `Watch a JSON document file and import it into the editor every time it
settles after a change. With --export the page is re-exported after each
successful import; with --schedule it is exported on a cron schedule instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if schedule != "" && exportPath == "" {
				return errors.New("--schedule needs --export")
			}
			bg, err := startBackground(ctx, app, args[0], schedule, exportPath)
			if err != nil {
				return err
			}
			defer bg.stop(context.Background())

			var onImport *service.ExportScheduler
			if exportPath != "" && schedule == "" {
				onImport = service.NewExportScheduler(app.Editor, "", exportPath, app.Emitter, app.Logger)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (Ctrl+C to stop)\n", args[0])
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-bg.watcher.Imported():
					if onImport == nil {
						continue
					}
					if err := onImport.RunOnce(ctx); err != nil {
						app.Logger.Warn("export after import failed", zap.Error(err))
					}
				}
			}
		},
	}
	cmd.Flags().StringVarP(&exportPath, "export", "e", "", "file to export to (.json for JSON, anything else HTML)")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule for the export instead of exporting on every import")
	return cmd
}
