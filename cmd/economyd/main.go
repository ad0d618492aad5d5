package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"EconomySentinel/internal/api"
	"EconomySentinel/internal/bonus"
	"EconomySentinel/internal/config"
	"EconomySentinel/internal/economy"
	"EconomySentinel/internal/notifier"
	"EconomySentinel/internal/recorder"
	"EconomySentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] EconomySentinel starting...")

	// Load config
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

	// Init backend client
	client := api.NewClient(cfg.API.BaseURL, cfg.API.SessionID, cfg.API.UserID, cfg.Proxy)
	log.Printf("[INFO] backend: %s (%s)", client.Name(), cfg.API.BaseURL)

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

	// Init economy manager
	mgr, err := economy.NewManager(client, rec, economy.Options{
		StateFile:          cfg.Client.StateFile,
		SessionToken:       cfg.API.SessionID,
		MobileClient:       cfg.Client.Profile == "mobile",
		RejectionThreshold: cfg.Resync.RejectionThreshold,
		ResyncCooldown:     time.Duration(cfg.Resync.CooldownSeconds) * time.Second,
	})
	if err != nil {
		log.Fatalf("[FATAL] init economy manager: %v", err)
	}

	// Init bonus engine
	eng := bonus.NewEngine()

	// Wire display notifications
	console := notifier.NewConsole()
	mgr.OnStateChanged(console.StateChanged)
	eng.OnEventsChanged(console.EventsChanged)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial sync: the cached state file is display-only, the server is truth.
	if err := mgr.SyncNow(ctx, "startup"); err != nil {
		log.Printf("[WARN] startup sync failed, serving cached state: %v", err)
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, mgr, eng)
	if err := sched.RegisterAll(cfg.Schedule.SyncCron, cfg.Schedule.IntegrityCron, cfg.Schedule.EventCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Println("[INFO] EconomySentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] EconomySentinel stopped")
}
