package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"go-jobalert/internal/models"
)

const seenFile = "seen_postings.json"

// SeenStore persists the postings already notified about, append-only,
// keyed by stable ID. A crash mid-write must never lose previously
// committed records, so every write goes to a temp file first and is
// renamed into place.
//
// The watcher and the API server each open the same file from their own
// process, so every read path re-stats the file and reloads it when
// another process replaced it.
type SeenStore struct {
	mu          sync.Mutex
	filePath    string
	records     []models.SeenRecord
	ids         mapset.Set[string]
	lastUpdated time.Time
	fileMod     time.Time
	fileSize    int64
}

// NewSeenStore creates or loads the seen-set under dataDir. A missing
// file initializes (and persists) an empty set; a corrupt file logs a
// warning and starts empty rather than killing the cycle.
func NewSeenStore(dataDir string) *SeenStore {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create data directory: %v", err)
	}
	s := &SeenStore{
		filePath: filepath.Join(dataDir, seenFile),
		ids:      mapset.NewSet[string](),
	}
	s.load()
	return s
}

// Contains reports whether an ID has already been notified. Backed by
// the in-memory set, not a scan of the record list.
func (s *SeenStore) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	return s.ids.Contains(id)
}

// IDs returns a snapshot of all seen IDs for the diff engine. The clone
// keeps cycle state decoupled from the live store.
func (s *SeenStore) IDs() mapset.Set[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	return s.ids.Clone()
}

// Count returns the number of persisted records.
func (s *SeenStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	return len(s.records)
}

// LastUpdated is when the set last changed on disk. Zero until the
// first write is observed.
func (s *SeenStore) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
	return s.lastUpdated
}

// Append merges records into the set and writes the union back.
// Idempotent per ID: a record whose ID is already present is dropped,
// never duplicated. A write failure rolls the merge back and is
// surfaced, because silently losing the new records would re-notify
// everyone next cycle.
func (s *SeenStore) Append(records []models.SeenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()

	start := len(s.records)
	for _, rec := range records {
		if s.ids.Contains(rec.ID) {
			continue
		}
		s.ids.Add(rec.ID)
		s.records = append(s.records, rec)
	}

	if len(s.records) == start {
		return nil
	}
	if err := s.save(); err != nil {
		//keep memory consistent with disk so the next cycle retries
		for _, rec := range s.records[start:] {
			s.ids.Remove(rec.ID)
		}
		s.records = s.records[:start]
		return err
	}
	return nil
}

// load reads the persisted set into memory at construction.
func (s *SeenStore) load() {
	if _, err := os.Stat(s.filePath); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to stat %s: %v", seenFile, err)
			return
		}
		//first run: persist the empty set so subsequent reads are consistent
		if err := s.save(); err != nil {
			log.Printf("⚠️ Failed to initialize %s: %v", seenFile, err)
		}
		return
	}
	s.refreshLocked()
	log.Printf("📋 Loaded %d previously seen postings", len(s.records))
}

// refreshLocked reloads the file when another process replaced it since
// the last read. Comparing modtime and size catches the atomic rename
// the other process performs. Caller holds the lock.
func (s *SeenStore) refreshLocked() {
	info, err := os.Stat(s.filePath)
	if err != nil {
		return
	}
	if info.ModTime().Equal(s.fileMod) && info.Size() == s.fileSize {
		return
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		log.Printf("⚠️ Failed to read %s: %v", seenFile, err)
		return
	}

	var records []models.SeenRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("⚠️ Failed to parse %s, keeping current seen-set: %v", seenFile, err)
		return
	}

	s.records = nil
	s.ids = mapset.NewSet[string]()
	for _, rec := range records {
		if s.ids.Contains(rec.ID) {
			continue
		}
		s.ids.Add(rec.ID)
		s.records = append(s.records, rec)
	}
	s.fileMod = info.ModTime()
	s.fileSize = info.Size()
	s.lastUpdated = info.ModTime()
}

// save writes the full record list via temp-file-and-rename.
func (s *SeenStore) save() error {
	records := s.records
	if records == nil {
		records = []models.SeenRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seen postings: %w", err)
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.filePath, err)
	}

	s.lastUpdated = time.Now().UTC()
	if info, err := os.Stat(s.filePath); err == nil {
		s.fileMod = info.ModTime()
		s.fileSize = info.Size()
		s.lastUpdated = info.ModTime()
	}
	return nil
}
