package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-jobalert/internal/config"
	"go-jobalert/internal/mailer"
	"go-jobalert/internal/notify"
	"go-jobalert/internal/reporter"
	"go-jobalert/internal/scheduler"
	"go-jobalert/internal/scraper/portal"
	"go-jobalert/internal/store"
	"go-jobalert/internal/watcher"
)

func main() {
	//load config
	cfg := config.Load()
	if cfg.PortalUsername == "" || cfg.PortalPassword == "" {
		log.Fatal("❌ PORTAL_USERNAME and PORTAL_PASSWORD are required")
	}
	log.Printf("🔧 Config loaded. Portal: %s, interval: %dh", cfg.PortalLoginURL, cfg.IntervalHours)

	//init stores
	seen := store.NewSeenStore(cfg.DataPath)
	subs := store.NewSubscriberStore(cfg.DataPath)

	//init mailer and dispatcher
	dispatcher := notify.NewDispatcher(mailer.New(cfg))

	//init operator reporter (optional)
	var rep watcher.Reporter
	if cfg.TelegramToken != "" {
		tgReporter, err := reporter.NewTelegramReporter(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to init Telegram reporter: %v", err)
		}
		rep = tgReporter
		log.Println("🤖 Telegram reporter initialized.")
	}

	//wire the cycle
	w := watcher.New(cfg, portal.New(cfg), seen, subs, dispatcher, rep)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("🚀 Starting job alert watcher...")

	sched := scheduler.New(w, cfg.IntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}

	//wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Shutting down...")
	cancel()
	sched.Stop()
	log.Println("🏁 Watcher stopped.")
}
