// Package notify fans a digest of new postings out to every confirmed
// subscriber. Partial failure is the normal case: one dead mailbox must
// never block the rest of the list.
package notify

import (
	"log"
	"sync"

	"go-jobalert/internal/mailer"
	"go-jobalert/internal/models"
)

// Outcome records one delivery attempt.
type Outcome struct {
	Subscriber models.Subscriber
	Err        error
}

type Dispatcher struct {
	sender mailer.Sender
}

func NewDispatcher(sender mailer.Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// NotifyAll sends one digest per subscriber containing all of postings.
// Sends run concurrently, one goroutine per recipient; each failure is
// captured in that recipient's outcome. With no postings or no
// subscribers there is nothing to send and no side effect at all.
func (d *Dispatcher) NotifyAll(postings []models.Posting, subscribers []models.Subscriber) []Outcome {
	if len(postings) == 0 || len(subscribers) == 0 {
		return nil
	}

	subject := Subject(len(postings))
	body := Digest(postings)

	outcomes := make([]Outcome, len(subscribers))
	var wg sync.WaitGroup
	for i, sub := range subscribers {
		wg.Add(1)
		go func(i int, sub models.Subscriber) {
			defer wg.Done()
			err := d.sender.Send(sub.Email, subject, body)
			if err != nil {
				log.Printf("⚠️ Failed to send digest to %s: %v", sub.Email, err)
			} else {
				log.Printf("📧 Digest sent to %s", sub.Email)
			}
			outcomes[i] = Outcome{Subscriber: sub, Err: err}
		}(i, sub)
	}
	wg.Wait()

	return outcomes
}
