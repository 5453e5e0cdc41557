// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/wsqstar/ppage/internal/api"
	"github.com/wsqstar/ppage/internal/content"
	"github.com/wsqstar/ppage/internal/graph"
	"github.com/wsqstar/ppage/internal/index"
	"github.com/wsqstar/ppage/internal/mcpserver"
	"github.com/wsqstar/ppage/internal/metrics"
	"github.com/wsqstar/ppage/internal/site"
	"github.com/wsqstar/ppage/internal/sse"
	"github.com/wsqstar/ppage/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// initLogger installs a structured JSON logger writing to w as the default.
func (a *application) initLogger(w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

type runtimeDeps struct {
	db      *index.DB
	svc     *site.Service
	metrics *metrics.Metrics
}

// build opens storage and the catalog and assembles the site service.
func (a *application) build(logger *slog.Logger) (*runtimeDeps, error) {
	cfg := a.config

	if err := os.MkdirAll(cfg.Content.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Content.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(a.version, runtime.Version())
	}

	svc := site.NewService(store, db, m, logger, site.Options{
		Content: content.Options{
			Language:       cfg.Content.DefaultLanguage,
			Fallback:       cfg.Content.FallbackLanguage,
			IgnoredFolders: cfg.Content.IgnoredFolders,
			FilesFolder:    cfg.Content.FilesFolder,
		},
		Graph: site.GraphOptions{
			DefaultDepth: cfg.Graph.DefaultDepth,
			Width:        cfg.Graph.Width,
			Height:       cfg.Graph.Height,
			Layout: graph.LayoutOptions{
				BaseRadius:  cfg.Graph.BaseRadius,
				RingSpacing: cfg.Graph.RingSpacing,
			},
		},
		LinksTTL: cfg.Cache.LinksTTL,
	})
	return &runtimeDeps{db: db, svc: svc, metrics: m}, nil
}

// watch reloads the site whenever the content tree changes.
func watch(ctx context.Context, root string, svc *site.Service, logger *slog.Logger) error {
	err := index.Watch(ctx, root, logger, index.DefaultDebounce, func(paths []string) {
		logger.Debug("content changed", slog.Int("paths", len(paths)))
		if _, err := svc.Reload(ctx, ""); err != nil && !site.IsStale(err) {
			logger.Warn("reload after change failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		logger.Error("watcher stopped", slog.String("error", err.Error()))
	}
	return nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.initLogger(os.Stdout)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_root", cfg.Content.Root),
		slog.String("language", cfg.Content.DefaultLanguage),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	deps, err := app.build(logger)
	if err != nil {
		return err
	}
	defer deps.db.Close()
	svc := deps.svc

	// SSE broker, fed by every published snapshot.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	svc.OnReload(func(snap *site.Snapshot) {
		broker.PublishReload(sse.Reload{
			Version:   snap.Version,
			Language:  snap.Language,
			Documents: len(snap.Documents),
			Issues:    len(snap.Issues),
		})
	})

	if _, err := svc.Reload(ctx, ""); err != nil {
		logger.Warn("initial load failed", slog.String("error", err.Error()))
	}

	apiRouter := api.NewRouter(svc, api.RouterOptions{
		AuthEnabled: cfg.Auth.AuthEnabled(),
		Token:       cfg.Auth.Token,
		Events:      broker,
		FilesDir:    filepath.Join(cfg.Content.Root, cfg.Content.FilesFolder),
		Languages:   cfg.Content.Languages,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(deps.metrics.Instrument)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := svc.Snapshot(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.metrics.Handler())
	}

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watch(gCtx, cfg.Content.Root, svc, logger)
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Stops the watcher once the server is down.
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools over stdio. Logs go to stderr so they do not
// corrupt the protocol stream.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.initLogger(os.Stderr)

	deps, err := app.build(logger)
	if err != nil {
		return err
	}
	defer deps.db.Close()

	if _, err := deps.svc.Reload(ctx, ""); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go watch(ctx, app.config.Content.Root, deps.svc, logger)

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(deps.svc, app.version).ServeStdio()
}
