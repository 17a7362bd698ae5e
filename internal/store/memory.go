package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
)

// MemoryStore implements Store in process memory. Records are deep copied
// on the way in and out, so callers can never mutate a saved itinerary.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	seq     int
}

type memoryRecord struct {
	Record
	seq int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]memoryRecord)}
}

func (s *MemoryStore) Create(ctx context.Context, userID string, it *itinerary.ItineraryData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if userID == "" {
		return "", ErrMissingUser
	}
	if it == nil {
		return "", fmt.Errorf("create: no itinerary")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.seq++
	s.records[id] = memoryRecord{
		Record: Record{
			ID:        id,
			UserID:    userID,
			Title:     it.Title,
			CreatedAt: time.Now().UTC(),
			Itinerary: it.Clone(),
		},
		seq: s.seq,
	}
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	out := copyRecord(rec.Record)
	return &out, nil
}

func (s *MemoryStore) List(ctx context.Context, userID string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]memoryRecord, 0)
	for _, rec := range s.records {
		if rec.UserID == userID {
			matched = append(matched, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })

	out := make([]Record, len(matched))
	for i, rec := range matched {
		out[i] = copyRecord(rec.Record)
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func copyRecord(r Record) Record {
	r.Itinerary = r.Itinerary.Clone()
	return r
}
