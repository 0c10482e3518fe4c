package models

import (
	"time"
)

// NoLink marks a posting row whose last column carried no anchor.
const NoLink = "no link available"

// Posting is one job listing as observed on the placement portal.
// Deadline and Posted are kept verbatim in the portal's own format.
type Posting struct {
	Company   string    `json:"company"`
	Deadline  string    `json:"deadline"`
	Posted    string    `json:"posted"`
	Link      string    `json:"link"`
	ID        string    `json:"id"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// SeenRecord is a posting that has already been notified. Records are
// append-only: written once per distinct ID, never mutated or deleted.
type SeenRecord struct {
	Company   string    `json:"company"`
	Deadline  string    `json:"deadline"`
	Posted    string    `json:"posted"`
	Link      string    `json:"link"`
	ID        string    `json:"id"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// NewSeenRecord freezes a posting into its persisted form.
func NewSeenRecord(p Posting) SeenRecord {
	return SeenRecord{
		Company:   p.Company,
		Deadline:  p.Deadline,
		Posted:    p.Posted,
		Link:      p.Link,
		ID:        p.ID,
		ScrapedAt: p.ScrapedAt,
	}
}

// Subscriber is an email address entitled to receive digests.
// Only confirmed subscribers are ever mailed.
type Subscriber struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
	Confirmed    bool      `json:"confirmed"`
}

// CycleReport is the outcome of one scrape→diff→notify→persist cycle.
// It is logged, never persisted.
type CycleReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Scraped    int
	New        int
	Notified   int
	Failed     int
	Err        error
}
