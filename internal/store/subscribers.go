package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-jobalert/internal/models"
)

const subscribersFile = "subscribers.json"

// ErrAlreadySubscribed is returned by Add when the exact email (as
// stored) already exists.
var ErrAlreadySubscribed = errors.New("email already subscribed")

// SubscriberStore persists the recipient list. Same durability
// discipline as the seen-set: temp file plus rename, soft-fail load.
//
// The API server is the only writer, but the watcher reads the same
// file from its own process, so every access re-stats the file and
// reloads it when it changed. A subscription taken mid-flight is picked
// up by the very next cycle, no watcher restart needed.
type SubscriberStore struct {
	mu          sync.Mutex
	filePath    string
	subscribers []models.Subscriber
	byEmail     map[string]int
	fileMod     time.Time
	fileSize    int64
}

// NewSubscriberStore creates or loads the subscriber list under dataDir.
func NewSubscriberStore(dataDir string) *SubscriberStore {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create data directory: %v", err)
	}
	s := &SubscriberStore{
		filePath: filepath.Join(dataDir, subscribersFile),
		byEmail:  make(map[string]int),
	}
	s.load()
	return s
}

// Add persists a new confirmed subscriber. Duplicate emails (exact
// match on the stored form) fail with ErrAlreadySubscribed.
func (s *SubscriberStore) Add(email string) (models.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()

	if _, exists := s.byEmail[email]; exists {
		return models.Subscriber{}, ErrAlreadySubscribed
	}

	sub := models.Subscriber{
		Email:        email,
		SubscribedAt: time.Now().UTC(),
		Confirmed:    true,
	}
	s.subscribers = append(s.subscribers, sub)
	s.byEmail[email] = len(s.subscribers) - 1

	if err := s.save(); err != nil {
		//roll back the in-memory entry so a retry can succeed
		s.subscribers = s.subscribers[:len(s.subscribers)-1]
		delete(s.byEmail, email)
		return models.Subscriber{}, err
	}
	return sub, nil
}

// LoadConfirmed returns confirmed subscribers in subscription order,
// re-read from disk so subscriptions taken by the API process since the
// last cycle are included.
func (s *SubscriberStore) LoadConfirmed() []models.Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()

	confirmed := make([]models.Subscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		if sub.Confirmed {
			confirmed = append(confirmed, sub)
		}
	}
	return confirmed
}

// Count returns the total number of stored subscribers.
func (s *SubscriberStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	return len(s.subscribers)
}

// load reads the persisted list into memory at construction.
func (s *SubscriberStore) load() {
	if _, err := os.Stat(s.filePath); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to stat %s: %v", subscribersFile, err)
			return
		}
		if err := s.save(); err != nil {
			log.Printf("⚠️ Failed to initialize %s: %v", subscribersFile, err)
		}
		return
	}
	s.refreshLocked()
	log.Printf("📋 Loaded %d subscribers", len(s.subscribers))
}

// refreshLocked reloads the file when another process replaced it since
// the last read. Caller holds the lock.
func (s *SubscriberStore) refreshLocked() {
	info, err := os.Stat(s.filePath)
	if err != nil {
		return
	}
	if info.ModTime().Equal(s.fileMod) && info.Size() == s.fileSize {
		return
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		log.Printf("⚠️ Failed to read %s: %v", subscribersFile, err)
		return
	}

	var subscribers []models.Subscriber
	if err := json.Unmarshal(data, &subscribers); err != nil {
		log.Printf("⚠️ Failed to parse %s, keeping current list: %v", subscribersFile, err)
		return
	}

	s.subscribers = nil
	s.byEmail = make(map[string]int)
	for _, sub := range subscribers {
		if _, exists := s.byEmail[sub.Email]; exists {
			continue
		}
		s.subscribers = append(s.subscribers, sub)
		s.byEmail[sub.Email] = len(s.subscribers) - 1
	}
	s.fileMod = info.ModTime()
	s.fileSize = info.Size()
}

func (s *SubscriberStore) save() error {
	subscribers := s.subscribers
	if subscribers == nil {
		subscribers = []models.Subscriber{}
	}
	data, err := json.MarshalIndent(subscribers, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal subscribers: %w", err)
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.filePath, err)
	}

	if info, err := os.Stat(s.filePath); err == nil {
		s.fileMod = info.ModTime()
		s.fileSize = info.Size()
	}
	return nil
}
