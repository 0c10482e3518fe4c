// Package diff computes which scraped postings have not been notified
// yet. Pure: it never touches the store, the orchestrator commits the
// result after notification.
package diff

import (
	mapset "github.com/deckarep/golang-set/v2"

	"go-jobalert/internal/identity"
	"go-jobalert/internal/models"
)

// New assigns each scraped posting its stable ID and returns, in scrape
// order, the ones whose ID is not in seenIDs. An empty scrape yields an
// empty result; whether that means "no jobs" or a broken page is the
// orchestrator's call.
func New(scraped []models.Posting, seenIDs mapset.Set[string]) []models.Posting {
	fresh := make([]models.Posting, 0)
	for _, p := range scraped {
		p.ID = identity.Identify(p)
		if seenIDs.Contains(p.ID) {
			continue
		}
		fresh = append(fresh, p)
	}
	return fresh
}
