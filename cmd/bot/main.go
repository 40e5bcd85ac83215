package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ForexPulse/internal/config"
	"ForexPulse/internal/fetcher"
	"ForexPulse/internal/pipeline"
	"ForexPulse/internal/scheduler"
	"ForexPulse/internal/sentiment"
	"ForexPulse/internal/sink"
	"ForexPulse/internal/throttle"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ForexPulse starting...")

	// .env is optional; real deployments use the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
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

	// Quote source
	qf := fetcher.NewTwelveDataFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	log.Printf("[INFO] quote source: %s", qf.Name())

	// Sentiment/news sources
	var sentSrc, newsSrc sentiment.Source
	if cfg.Alerts.ScrapeContext {
		sentSrc = sentiment.NewTradingViewSource()
		newsSrc = sentiment.NewForexFactorySource()
	} else {
		sentSrc = &sentiment.StaticSource{}
		newsSrc = &sentiment.StaticSource{}
	}

	// Sinks: Telegram is required, the durable sinks are optional.
	tg := sink.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	sinks := []sink.Sink{tg}

	if dsn := cfg.PostgresDSN(); dsn != "" {
		pg, err := sink.NewPostgresSink(dsn)
		if err != nil {
			log.Printf("[WARN] postgres sink unavailable: %v", err)
		} else {
			sinks = append(sinks, pg)
			defer pg.Close()
		}
	} else {
		log.Println("[WARN] no database configured, skipping postgres sink")
	}

	if cfg.Sheets.SpreadsheetID != "" && cfg.Sheets.Token != "" {
		sinks = append(sinks, sink.NewSheetsSink(cfg.Sheets.SpreadsheetID, cfg.Sheets.Range, cfg.Sheets.Token))
	} else {
		log.Println("[WARN] no spreadsheet configured, skipping sheets sink")
	}

	// Alert throttle
	store := newThrottleStore(cfg)
	thr := throttle.New(time.Duration(cfg.Alerts.CooldownMinutes)*time.Minute, store)
	defer thr.Close()

	p := &pipeline.Pipeline{
		Pairs:      cfg.Pairs,
		Interval:   cfg.DataSource.Interval,
		OutputSize: cfg.DataSource.OutputSize,
		SRWindow:   cfg.Indicators.SRWindow,
		Fetcher:    qf,
		Sentiment:  sentSrc,
		News:       newsSrc,
		Throttle:   thr,
		Dispatcher: sink.NewDispatcher(30*time.Second, sinks...),
	}

	runTimeout := time.Duration(cfg.Schedule.RunTimeoutMinutes) * time.Minute

	// One-shot mode: process all pairs once and exit. The exit code is
	// non-zero only when every pair failed before classification.
	if os.Getenv("RUN_ONCE") == "true" {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		results, err := p.Run(ctx)
		log.Printf("[INFO] run report:\n%s", pipeline.Summary(results))
		if err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, p, runTimeout)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	go tg.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing run now")
		go sched.RunNow()
	}

	log.Println("[INFO] ForexPulse is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] ForexPulse stopped")
}

// newThrottleStore builds the cooldown persistence backend selected by
// config, falling back to in-memory when a backend cannot be opened.
func newThrottleStore(cfg *config.Config) throttle.Store {
	switch cfg.ThrottleStore.Driver {
	case "sqlite":
		s, err := throttle.NewSQLiteStore(cfg.ThrottleStore.SQLitePath)
		if err != nil {
			log.Printf("[WARN] sqlite throttle store failed, using memory: %v", err)
			return throttle.NewMemoryStore()
		}
		return s
	case "redis":
		s, err := throttle.NewRedisStore(cfg.ThrottleStore.RedisAddr, cfg.ThrottleStore.RedisPassword, cfg.ThrottleStore.RedisDB)
		if err != nil {
			log.Printf("[WARN] redis throttle store failed, using memory: %v", err)
			return throttle.NewMemoryStore()
		}
		return s
	case "file":
		return throttle.NewFileStore(cfg.ThrottleStore.FilePath)
	default:
		return throttle.NewMemoryStore()
	}
}
