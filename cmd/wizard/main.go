package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JonMunkholm/tidyflow/internal/client"
	"github.com/JonMunkholm/tidyflow/internal/config"
	"github.com/JonMunkholm/tidyflow/internal/history"
	"github.com/JonMunkholm/tidyflow/internal/logging"
	"github.com/JonMunkholm/tidyflow/internal/tui"
	"github.com/JonMunkholm/tidyflow/internal/workflow"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tidyflow:", err)
		os.Exit(1)
	}
}

func run() error {
	recent := flag.Int("history", 0, "print the `n` most recent runs and exit")
	flag.Parse()

	// Load .env file if it exists (Overload overwrites existing env vars)
	envLoaded := godotenv.Overload() == nil

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The TUI owns stdout, so logs go to a file.
	logFile, err := logging.OpenFile(cfg.Wizard.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, logFile)
	logger.Info("configuration loaded", "env_file", envLoaded, "config", cfg.String())

	var creds client.TokenSource = client.StaticToken(cfg.Auth.Token)
	if cfg.Auth.TokenFile != "" {
		creds = client.FileToken{Path: cfg.Auth.TokenFile}
	}

	api := client.New(client.Config{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		MaxRetries:  cfg.API.MaxRetries,
		RateLimit:   cfg.API.RateLimit,
		RateBurst:   cfg.API.RateBurst,
		Credentials: creds,
		Logger:      logger,
	})

	store, closeStore, err := openJournal(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if *recent > 0 {
		if store == nil {
			return errors.New("run history needs DATABASE_URL")
		}
		return printHistory(os.Stdout, store, *recent)
	}

	var journal history.Recorder = history.Nop{}
	if store != nil {
		journal = store
	}

	w := workflow.New(workflow.Deps{
		Analyzer:      api,
		Processor:     api,
		Retriever:     api,
		Sink:          workflow.DirSink{Dir: cfg.Wizard.DownloadDir},
		Journal:       journal,
		Logger:        logger,
		PreviewUpload: cfg.Wizard.PreviewUpload,
	})

	if _, err := tea.NewProgram(tui.New(w, api), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run wizard: %w", err)
	}
	logger.Info("wizard exited")
	return nil
}

// openJournal connects the run history. The store is nil when no database
// is configured.
func openJournal(cfg *config.Config, logger *slog.Logger) (*history.PGStore, func(), error) {
	if !cfg.HistoryEnabled() {
		logger.Info("run history disabled")
		return nil, func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.History.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.History.MaxConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	store, err := history.NewPGStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("run history enabled", "max_conns", cfg.History.MaxConns)
	return store, pool.Close, nil
}
