// Package watcher runs the scrape→diff→notify→persist cycle. One cycle
// at a time: a trigger that fires while a cycle is still running is
// skipped, never queued, so two cycles can never race on the seen-set.
package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go-jobalert/internal/config"
	"go-jobalert/internal/diff"
	"go-jobalert/internal/models"
	"go-jobalert/internal/notify"
	"go-jobalert/internal/scraper"
	"go-jobalert/internal/store"
)

// Reporter is the optional operator alert channel.
type Reporter interface {
	SendCycleSummary(report models.CycleReport) error
	SendPersistentFailure(failures int, lastErr error) error
}

type Watcher struct {
	cfg        *config.Config
	source     scraper.Source
	seen       *store.SeenStore
	subs       *store.SubscriberStore
	dispatcher *notify.Dispatcher
	reporter   Reporter //nil when no operator channel is configured

	inProgress atomic.Bool
	failures   int
}

func New(cfg *config.Config, source scraper.Source, seen *store.SeenStore, subs *store.SubscriberStore, dispatcher *notify.Dispatcher, reporter Reporter) *Watcher {
	return &Watcher{
		cfg:        cfg,
		source:     source,
		seen:       seen,
		subs:       subs,
		dispatcher: dispatcher,
		reporter:   reporter,
	}
}

// RunCycle executes one full cycle and returns its report. A failed
// scrape aborts the cycle with no state mutated; the next scheduled
// trigger retries.
func (w *Watcher) RunCycle(ctx context.Context) models.CycleReport {
	report := models.CycleReport{StartedAt: time.Now().UTC()}

	//in-progress guard against overlapping triggers
	if !w.inProgress.CompareAndSwap(false, true) {
		log.Println("⏭️ Cycle already in progress, skipping this trigger")
		report.FinishedAt = time.Now().UTC()
		return report
	}
	defer w.inProgress.Store(false)

	cycleCtx, cancel := context.WithTimeout(ctx, time.Duration(w.cfg.CycleTimeoutMins)*time.Minute)
	defer cancel()

	log.Printf("🚀 Cycle started (source: %s)", w.source.Name())

	scraped, err := w.source.Fetch(cycleCtx)
	if err != nil {
		w.failures++
		log.Printf("❌ Scrape failed (%d consecutive): %v", w.failures, err)
		if w.reporter != nil && w.failures == w.cfg.AlertAfterFailures {
			if alertErr := w.reporter.SendPersistentFailure(w.failures, err); alertErr != nil {
				log.Printf("⚠️ Failed to send failure alert: %v", alertErr)
			}
		}
		report.Err = fmt.Errorf("scrape failed: %w", err)
		report.FinishedAt = time.Now().UTC()
		return report
	}
	w.failures = 0
	report.Scraped = len(scraped)

	if len(scraped) == 0 {
		//an empty table usually means the page broke, not zero jobs
		log.Println("⚠️ Scrape returned no rows, treating as nothing new")
	}

	fresh := diff.New(scraped, w.seen.IDs())
	report.New = len(fresh)
	if len(fresh) == 0 {
		log.Println("ℹ️ No new postings.")
		report.FinishedAt = time.Now().UTC()
		return report
	}
	log.Printf("🆕 %d new posting(s) found!", len(fresh))

	//stamp first observation
	now := time.Now().UTC()
	for i := range fresh {
		fresh[i].ScrapedAt = now
	}

	//notify before persisting: if the persist fails we would rather
	//re-notify next cycle than silently drop postings
	subscribers := w.subs.LoadConfirmed()
	outcomes := w.dispatcher.NotifyAll(fresh, subscribers)
	for _, o := range outcomes {
		if o.Err != nil {
			report.Failed++
		} else {
			report.Notified++
		}
	}
	log.Printf("📧 Digest fan-out: %d sent, %d failed (of %d subscribers)", report.Notified, report.Failed, len(subscribers))

	records := make([]models.SeenRecord, 0, len(fresh))
	for _, p := range fresh {
		records = append(records, models.NewSeenRecord(p))
	}
	if err := w.seen.Append(records); err != nil {
		//losing these records means duplicate notifications next cycle
		log.Printf("❌ Failed to persist seen-set: %v", err)
		report.Err = fmt.Errorf("failed to persist seen-set: %w", err)
	}

	w.saveResults(fresh)

	if w.reporter != nil {
		if err := w.reporter.SendCycleSummary(report); err != nil {
			log.Printf("⚠️ Failed to send cycle summary: %v", err)
		}
	}

	report.FinishedAt = time.Now().UTC()
	log.Printf("🏁 Cycle finished: %d scraped, %d new, %d notified", report.Scraped, report.New, report.Notified)
	return report
}

// saveResults writes the cycle's new postings to a dated file for later
// inspection.
func (w *Watcher) saveResults(postings []models.Posting) {
	if err := os.MkdirAll(w.cfg.LogsPath, 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}

	filename := fmt.Sprintf("new-postings-%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(w.cfg.LogsPath, filename)

	data, err := json.MarshalIndent(postings, "", " ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal postings: %v", err)
		return
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write results file: %v", err)
		return
	}

	log.Printf("📁 Results saved to %s", path)
}
