// Package identity derives a stable, content-based ID for a posting so
// re-scrapes of unchanged rows are recognized as duplicates. The ID is a
// SHA-256 over the four portal fields only; ScrapedAt never participates,
// otherwise every cycle would mint fresh IDs for old rows.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go-jobalert/internal/models"
)

// unknownField stands in for a missing cell so absence still hashes
// deterministically.
const unknownField = "Unknown"

// fieldSep keeps ("ab","c") and ("a","bc") from colliding.
const fieldSep = "\x1f"

// Identify returns the hex SHA-256 of (company, deadline, posted, link).
// A portal edit to any field yields a new ID; that posting is then
// treated as new and re-notified. Known limitation, not a defect.
func Identify(p models.Posting) string {
	fields := []string{
		normalize(p.Company),
		normalize(p.Deadline),
		normalize(p.Posted),
		normalizeLink(p.Link),
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, fieldSep)))
	return hex.EncodeToString(sum[:])
}

func normalize(field string) string {
	if strings.TrimSpace(field) == "" {
		return unknownField
	}
	return field
}

func normalizeLink(link string) string {
	if strings.TrimSpace(link) == "" {
		return models.NoLink
	}
	return link
}
