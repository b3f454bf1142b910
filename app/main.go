package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/lysyi3m/plex-letterboxd/app/api"
	"github.com/lysyi3m/plex-letterboxd/app/cfg"
	"github.com/lysyi3m/plex-letterboxd/app/export"
	"github.com/lysyi3m/plex-letterboxd/app/history"
	"github.com/lysyi3m/plex-letterboxd/app/library"
	"github.com/lysyi3m/plex-letterboxd/app/logging"
	"github.com/lysyi3m/plex-letterboxd/app/plex"
	"github.com/lysyi3m/plex-letterboxd/app/scheduler"
	"github.com/spf13/afero"
)

const lockFileName = ".export.lock"

func main() {
	if err := run(); err != nil {
		slog.Error("Exiting", "error", err)
		os.Exit(1)
	}
}

func run() error {
	c, err := cfg.Load()
	if err != nil {
		return err
	}
	if c == nil {
		// help was shown
		return nil
	}

	_, logFile, err := logging.Setup(c.ExportDir, c.Debug)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logFile.Close()

	slog.Info("Starting Plex to Letterboxd exporter",
		"version", c.Version,
		"plex_url", c.PlexURL,
		"export_dir", c.ExportDir,
		"history_backend", string(c.HistoryBackend),
		"timezone", c.Location.String(),
		"dry_run", c.DryRun)

	lock := flock.New(filepath.Join(c.ExportDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another instance is already exporting to %s", c.ExportDir)
	}
	defer lock.Unlock()

	fsys := afero.NewOsFs()

	libraries, err := resolveLibraries(fsys, c)
	if err != nil {
		return err
	}

	trigger, err := scheduler.NewTrigger(c.ScheduleTime, c.Cron, c.Location)
	if err != nil {
		return err
	}
	if ct, ok := trigger.(*scheduler.CronTrigger); ok && ct.Err() != nil {
		slog.Warn("Cron expression is invalid, scheduled runs will not fire", "error", ct.Err())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := plex.NewClient(c.PlexURL, c.PlexToken, c.RequestTimeout)
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("cannot connect to Plex server: %w", err)
	}
	slog.Info("Connected to Plex server", "libraries", libraries)

	store := openHistory(fsys, c)
	defer store.Close()

	pipeline := export.NewPipeline(
		client,
		store,
		export.NewCSVSink(fsys, c.ExportDir),
		export.NewNormalizer(c.Location),
		c.DryRun,
	)
	job := func(ctx context.Context) (export.RunSummary, error) {
		return pipeline.Run(ctx, libraries)
	}

	if c.RunOnce {
		summary, err := job(ctx)
		if err != nil {
			return err
		}
		slog.Info("Single run completed", "run_id", summary.RunID, "added", summary.Added, "history", summary.HistorySize)
		return nil
	}

	exportScheduler := scheduler.NewScheduler(scheduler.NewTask(trigger, job), c.PollInterval)
	exportScheduler.Start(ctx)
	defer exportScheduler.Stop()

	var httpServer *http.Server
	serverErrChan := make(chan error, 1)
	if c.Port != "" {
		httpServer = &http.Server{
			Addr:         ":" + c.Port,
			Handler:      api.NewServer(api.NewHandler(exportScheduler, c.Version)),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		go func() {
			slog.Info("Status API listening", "port", c.Port)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case runErr = <-serverErrChan:
		slog.Error("Server error", "error", runErr)
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}

	slog.Info("Exporter stopped")
	return runErr
}

func resolveLibraries(fsys afero.Fs, c *cfg.Cfg) ([]string, error) {
	if c.LibrariesFile == "" {
		return c.Libraries, nil
	}

	config, err := library.Load(fsys, c.LibrariesFile)
	if err != nil {
		return nil, err
	}
	return config.EnabledNames(), nil
}

// openHistory never touches the disk; an unreadable history surfaces as a
// failed run.
func openHistory(fsys afero.Fs, c *cfg.Cfg) history.Store {
	switch c.HistoryBackend {
	case cfg.HistoryBackendSQLite:
		return history.NewSQLiteStore(c.ExportDir)
	default:
		return history.NewFileStore(fsys, c.ExportDir)
	}
}
