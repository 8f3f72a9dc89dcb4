package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/tidyflow/internal/config"
	"github.com/JonMunkholm/tidyflow/internal/logging"
	"github.com/JonMunkholm/tidyflow/internal/proxy"
	"github.com/joho/godotenv"
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
	if err := cfg.ValidateProxy(); err != nil {
		slog.Error("invalid proxy configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, nil)

	target, err := url.Parse(cfg.Proxy.Target)
	if err != nil {
		slog.Error("failed to parse proxy target", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"addr", cfg.Proxy.Addr(),
		"target", target.String(),
		"upload_max_concurrent", cfg.Proxy.MaxConcurrent,
		"allowed_origins", cfg.Proxy.AllowedOrigins,
	)

	server, err := proxy.New(proxy.Options{
		Target:         target,
		AllowedOrigins: cfg.Proxy.AllowedOrigins,
		MaxConcurrent:  cfg.Proxy.MaxConcurrent,
		MaxWait:        cfg.Proxy.MaxWait,
		ReadTimeout:    cfg.Proxy.ReadTimeout,
		IdleTimeout:    cfg.Proxy.IdleTimeout,
	})
	if err != nil {
		slog.Error("failed to create proxy", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Proxy.ShutdownTimeout)
		defer cancel()

		// Wait for active uploads to complete (with timeout)
		if active := server.ActiveUploads(); active > 0 {
			slog.Info("waiting for uploads to complete", "active", active)
			if err := server.WaitForUploads(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			} else {
				slog.Info("all uploads completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("proxy starting", "addr", cfg.Proxy.Addr())
	if err := server.Start(cfg.Proxy.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("proxy stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("proxy stopped")
}
