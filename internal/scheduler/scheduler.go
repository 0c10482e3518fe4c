// Package scheduler wires up the cron job that periodically triggers a
// watcher cycle.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"go-jobalert/internal/watcher"
)

// Scheduler wraps robfig/cron around the watcher.
type Scheduler struct {
	cron    *cron.Cron
	watcher *watcher.Watcher
	spec    string //cron spec, e.g. "@every 1h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(w *watcher.Watcher, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		watcher: w,
		spec:    fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so a restart does not wait a full interval to catch up.
// The watcher's own guard handles a tick landing mid-cycle.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.watcher.RunCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("⏰ Cron started — spec: %s", s.spec)

	//run immediately on startup (non-blocking)
	go s.watcher.RunCycle(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("⏰ Cron stopped")
}
