package main

import (
	"log"

	"go-jobalert/internal/api"
	"go-jobalert/internal/config"
	"go-jobalert/internal/mailer"
	"go-jobalert/internal/store"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Port: %s", cfg.Port)

	//init stores (shared data dir with the watcher)
	subs := store.NewSubscriberStore(cfg.DataPath)
	seen := store.NewSeenStore(cfg.DataPath)

	srv := api.NewServer(subs, seen, mailer.New(cfg))

	log.Printf("✅ Subscription API listening on port %s", cfg.Port)
	if err := srv.Router().Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
