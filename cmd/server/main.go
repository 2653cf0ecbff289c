package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"rosteraudit/internal/config"
	"rosteraudit/internal/logging"
	"rosteraudit/internal/store"
	"rosteraudit/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"backend", cfg.Store.Backend,
		"fuzzy_threshold", cfg.Audit.FuzzyThreshold,
	)

	ctx := context.Background()

	var sessions store.SessionStore
	var configs store.ConfigStore

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		poolConfig, err := pgxpool.ParseConfig(cfg.Store.DatabaseURL)
		if err != nil {
			slog.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}
		poolConfig.MaxConns = int32(cfg.Store.MaxConns)
		poolConfig.MinConns = int32(cfg.Store.MinConns)

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		// Log which database we connected to
		if u, err := url.Parse(cfg.Store.DatabaseURL); err == nil {
			slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			slog.Info("connected to database")
		}

		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			slog.Error("failed to migrate store schema", "error", err)
			os.Exit(1)
		}
		sessions, configs = pg, pg

	default:
		local, err := store.NewLocal(cfg.Store.DataDir)
		if err != nil {
			slog.Error("failed to open data directory", "error", err)
			os.Exit(1)
		}
		slog.Info("using local store", "dir", cfg.Store.DataDir)
		sessions, configs = local, local
	}

	server := web.NewServer(cfg, sessions, configs)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
