// Define an interface for the posting source
// Keep the orchestrator independent of browser details

package scraper

import (
	"context"

	"go-jobalert/internal/models"
)

// Source is where a cycle pulls postings from. Fetch returns the raw
// rows currently visible on the portal, with explicit sentinels for
// missing cells; any login, navigation or markup failure surfaces as an
// error and aborts the cycle.
type Source interface {
	//Fetch postings currently listed on the portal
	Fetch(ctx context.Context) ([]models.Posting, error)

	//Name is the source name for logs
	Name() string
}
