// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/notion"
	"github.com/starford/folio/internal/refresher"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/storage"
	"golang.org/x/sync/errgroup"
)

// sseThrottle is the minimum gap between content.updated events.
const sseThrottle = 2 * time.Second

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// logger initializes the structured JSON logger.
func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func openContent(cfg *Config) (*storage.FS, error) {
	if err := os.MkdirAll(cfg.Content.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create content root: %w", err)
	}
	store, err := storage.NewFS(cfg.Content.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return store, nil
}

// newRefresher builds a refresher from cfg. Credentials are validated by the
// caller.
func newRefresher(cfg *Config, store storage.Provider, logger *slog.Logger) *refresher.Refresher {
	client := notion.NewClient(cfg.Notion.Token,
		notion.WithBaseURL(cfg.Notion.BaseURL),
		notion.WithVersion(cfg.Notion.Version),
		notion.WithRateLimit(cfg.Notion.RateLimit),
	)
	return refresher.New(client, store, cfg.Notion.ContainerID,
		refresher.WithCachePath(cfg.Content.CacheFile),
		refresher.WithSourceCache(notion.NewSourceCache()),
		refresher.WithLogger(logger),
	)
}

// newContentStore loads resources live from Notion when credentials are
// set, with the cache file as fallback.
func newContentStore(cfg *Config, store storage.Provider, logger *slog.Logger) *content.Store {
	var opts []content.StoreOption
	if err := cfg.Notion.Credentials().Validate(); err == nil {
		opts = append(opts, content.WithLiveResources(newRefresher(cfg, store, logger)))
	} else {
		logger.Info("Notion credentials not set, serving resources from the cache file")
	}
	return content.NewStore(store, cfg.Content.CacheFile, cfg.Content.TILDir, logger, opts...)
}

// RunRefresh rebuilds the resources cache file once.
func RunRefresh(ctx context.Context, opts ...Option) (refresher.Result, error) {
	app, err := newApplication(opts)
	if err != nil {
		return refresher.Result{}, err
	}
	cfg := app.config
	logger := app.logger()

	if err := cfg.Notion.Credentials().Validate(); err != nil {
		return refresher.Result{}, err
	}
	store, err := openContent(cfg)
	if err != nil {
		return refresher.Result{}, err
	}
	return newRefresher(cfg, store, logger).Run(ctx)
}

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	store, err := openContent(cfg)
	if err != nil {
		return err
	}
	cs := newContentStore(cfg, store, logger)
	if _, err := cs.Reload(ctx); err != nil {
		logger.Warn("initial content load failed", slog.String("error", err.Error()))
	}

	// Keep the datasets current while the session lasts.
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := content.Watch(watchCtx, cs, logger, nil); err != nil {
			logger.Warn("content watcher stopped", slog.String("error", err.Error()))
		}
	}()

	logger.Info("MCP server starting on stdio",
		slog.Int("resources", len(cs.Resources())),
		slog.Int("til", len(cs.TIL())))
	return mcpserver.New(cs, store, cfg.Content.TILDir).ServeStdio()
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_root", cfg.Content.Root),
		slog.String("cache_file", cfg.Content.CacheFile),
		slog.String("til_dir", cfg.Content.TILDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := openContent(cfg)
	if err != nil {
		return err
	}
	for _, dir := range []string{filepath.Dir(cfg.Content.CacheFile), cfg.Content.TILDir} {
		if err := os.MkdirAll(filepath.Join(cfg.Content.Root, dir), 0o755); err != nil {
			return fmt.Errorf("create content dir: %w", err)
		}
	}

	// Initial load.
	cs := newContentStore(cfg, store, logger)
	if _, err := cs.Reload(ctx); err != nil {
		logger.Warn("initial content load failed", slog.String("error", err.Error()))
	}

	// SSE broker.
	broker := sse.NewBroker(sseThrottle)
	defer broker.Close()

	h := api.NewHandler(cs, api.WithPageSize(cfg.Listing.PageSize), api.WithLogger(logger))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !cs.Loaded() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Listing pages at the root, JSON API and SSE under /api.
	api.MountPages(r, h)
	r.Mount("/api", api.NewRouter(h, broker))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start content watcher with SSE callback.
	g.Go(func() error {
		err := content.Watch(gCtx, cs, logger, func(ds content.Dataset, count int) {
			broker.PublishReload(string(ds), count)
		})
		if err != nil {
			logger.Error("content watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
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

		// End SSE streams so Shutdown does not wait on them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
