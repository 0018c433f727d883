package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/johnny-papercut/fantasy/internal/feed/fantasypros"
	"github.com/johnny-papercut/fantasy/internal/ingest"
	"github.com/johnny-papercut/fantasy/internal/monitor"
	"github.com/johnny-papercut/fantasy/internal/notify"
	"github.com/johnny-papercut/fantasy/internal/pkg/config"
	"github.com/johnny-papercut/fantasy/internal/pkg/logging"
	"github.com/johnny-papercut/fantasy/internal/pkg/storage"
	"github.com/johnny-papercut/fantasy/internal/provider/nflgames"
	"github.com/johnny-papercut/fantasy/internal/scheduler"
	"github.com/johnny-papercut/fantasy/internal/scoreboard"
	"github.com/johnny-papercut/fantasy/internal/server"

	_ "github.com/johnny-papercut/fantasy/internal/provider/all"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	var configPath string

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.SetupLogger("commander", slog.LevelInfo)
	slog.Info("Config loaded", "path", configPath)

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
		slog.Info("Using Telegram bot token from environment")
	}
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		if chatID, err := strconv.ParseInt(chatIDStr, 10, 64); err == nil {
			cfg.Telegram.ChatID = chatID
			slog.Info("Using Telegram chat ID from environment", "chat_id", chatID)
		}
	}
	if envDSN := os.Getenv("POSTGRES_DSN"); envDSN != "" {
		cfg.Postgres.DSN = envDSN
		slog.Info("Using PostgreSQL DSN from environment")
	}

	var store storage.Store
	if cfg.Postgres.DSN != "" {
		pg, err := storage.NewPostgresStore(&cfg.Postgres)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL storage: %v", err)
		}
		store = pg
	} else {
		slog.Warn("No PostgreSQL DSN configured, using in-memory storage")
		store = storage.NewMemoryStore()
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Error closing storage", "error", err)
		}
	}()

	var notifier *notify.TelegramNotifier
	if cfg.Telegram.Enabled && cfg.Telegram.Token != "" {
		notifier = notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
		defer notifier.Stop()
	}

	projectionsFeed := fantasypros.New(cfg.Projections)
	gamesFeed := nflgames.New(cfg.Ingest.ProviderTimeout, cfg.Ingest.UserAgent)
	changeMonitor := monitor.New(cfg.Monitor.Threshold)

	ingestor := ingest.New(store, cfg, projectionsFeed, gamesFeed, changeMonitor, notifier)
	assembler := scoreboard.NewAssembler(store, cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.NewScheduler(ingestor, cfg.Scheduler)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		if err := sched.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Error("Error stopping scheduler", "error", err)
			}
		}()
		slog.Info("Scheduler started", "full_refresh", cfg.Scheduler.FullRefresh, "score_interval", cfg.Scheduler.ScoreInterval)
	}

	srv := server.New(ingestor, assembler, store, cfg)
	srv.Run(ctx, "commander")

	<-ctx.Done()
	slog.Info("Received shutdown signal, stopping commander")
}
