package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/epavlenko/openclaw-youtube/internal/core/ports"
)

// RepliedSet is the JSON-file implementation of ports.RepliedStore.
// The on-disk record holds the handled comment ids in ascending order plus
// the time of the last write. A missing or unreadable file means an empty
// set; it is never fatal.
type RepliedSet struct {
	FilePath string

	mu        sync.RWMutex
	ids       map[string]struct{}
	updatedAt time.Time
	dirty     bool
}

type repliedRecord struct {
	Replied   []string  `json:"replied"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRepliedSet(filePath string) (*RepliedSet, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}
	s := &RepliedSet{FilePath: filePath, ids: make(map[string]struct{})}
	s.loadFromFile()
	return s, nil
}

var _ ports.RepliedStore = (*RepliedSet)(nil)

// loadFromFile tolerates both a missing file and a corrupt one.
func (s *RepliedSet) loadFromFile() {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		return
	}
	var rec repliedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return
	}
	for _, id := range rec.Replied {
		s.ids[id] = struct{}{}
	}
	s.updatedAt = rec.UpdatedAt
}

func (s *RepliedSet) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *RepliedSet) Add(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return nil
	}
	s.ids[id] = struct{}{}
	s.dirty = true
	return nil
}

// Flush writes the record only when an Add actually changed the set, so
// a read-only scan leaves the file untouched.
func (s *RepliedSet) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	rec := repliedRecord{Replied: s.sortedIDs(), UpdatedAt: time.Now().UTC()}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.FilePath, data, 0644); err != nil {
		return err
	}
	s.updatedAt = rec.UpdatedAt
	s.dirty = false
	return nil
}

func (s *RepliedSet) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
	s.dirty = false
	s.loadFromFile()
	return nil
}

func (s *RepliedSet) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedIDs()
}

func (s *RepliedSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *RepliedSet) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func (s *RepliedSet) sortedIDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
