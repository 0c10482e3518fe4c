package notify

import (
	"fmt"
	"strings"

	"go-jobalert/internal/models"
)

// Subject carries the new-posting count so the inbox line is useful on
// its own.
func Subject(count int) string {
	return fmt.Sprintf("%d New Job(s) from BIT TNP", count)
}

// Digest renders all new postings into one plain-text body, one block
// per posting.
func Digest(postings []models.Posting) string {
	blocks := make([]string, 0, len(postings))
	for _, p := range postings {
		blocks = append(blocks, fmt.Sprintf(
			"Company: %s\nDeadline: %s\nPosted: %s\nLink: %s",
			p.Company, p.Deadline, p.Posted, p.Link,
		))
	}
	return strings.Join(blocks, "\n\n")
}
