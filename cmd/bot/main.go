package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"MomentumScalper/internal/broker"
	"MomentumScalper/internal/config"
	"MomentumScalper/internal/notifier"
	"MomentumScalper/internal/recorder"
	"MomentumScalper/internal/scheduler"
	"MomentumScalper/internal/universe"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MomentumScalper starting...")

	// Credentials usually live in .env during development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init broker gateway
	var gw broker.Gateway
	if os.Getenv("USE_MOCK_GATEWAY") == "true" {
		log.Println("[WARN] using mock gateway, no orders will reach a broker")
		gw = &broker.MockGateway{}
	} else {
		gw = broker.NewAlpacaGateway(cfg.Alpaca.KeyID, cfg.Alpaca.SecretKey, cfg.Alpaca.BaseURL, cfg.Alpaca.DataFeed)
	}
	log.Printf("[INFO] broker gateway: %s", gw.Name())

	// Load the tradeable universe
	symbols, err := universe.Load(cfg.Universe.TickerFile)
	if err != nil {
		log.Fatalf("[FATAL] load universe: %v", err)
	}
	log.Printf("[INFO] universe loaded: %d symbols", len(symbols))

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(cfg, gw, tn, rec, symbols)

	// Start Telegram polling
	if cfg.Telegram.BotToken != "" {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Shutdown on signal; the session loop liquidates before it returns.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
	}()

	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("[FATAL] session loop: %v", err)
	}
	log.Println("[INFO] MomentumScalper stopped")
}
