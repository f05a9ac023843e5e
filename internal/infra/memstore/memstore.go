// Package memstore provides an in-memory record store. It backs local
// development and tests when no PostgREST URL is configured, preserving
// insertion order the way the real store's default listing does.
package memstore

import (
	"context"
	"sync"

	"github.com/Mihad360/finance-equalizer-server/internal/domain"

	"github.com/google/uuid"
)

// Store is a mutex-guarded in-memory record collection.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Record
	ordered []string // ids in insertion order
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{byID: make(map[string]*domain.Record)}
}

// Insert stores a copy of rec under a fresh uuid and returns the id.
func (s *Store) Insert(_ context.Context, rec *domain.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	stored := *rec
	stored.ID = id
	s.byID[id] = &stored
	s.ordered = append(s.ordered, id)
	return id, nil
}

// List returns all records in insertion order.
func (s *Store) List(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.Record, 0, len(s.ordered))
	for _, id := range s.ordered {
		records = append(records, *s.byID[id])
	}
	return records, nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *Store) Get(_ context.Context, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "record", ID: id}
	}
	out := *rec
	return &out, nil
}

// Delete removes the record with the given id, reporting the affected count.
func (s *Store) Delete(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return 0, nil
	}
	delete(s.byID, id)
	for i, oid := range s.ordered {
		if oid == id {
			s.ordered = append(s.ordered[:i], s.ordered[i+1:]...)
			break
		}
	}
	return 1, nil
}

// Update writes the given fields onto the record with the given id.
func (s *Store) Update(_ context.Context, id string, fields map[string]any) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return 0, 0, nil
	}

	before := *rec
	for k, v := range fields {
		switch k {
		case "title":
			rec.Title, _ = v.(string)
		case "amount":
			rec.Amount, _ = v.(float64)
		case "description":
			rec.Description, _ = v.(string)
		case "date":
			rec.Date, _ = v.(string)
		case "category":
			rec.Category, _ = v.(string)
		case "type":
			rec.Type, _ = v.(string)
		}
	}

	var modified int64
	if *rec != before {
		modified = 1
	}
	return 1, modified, nil
}

// Ping always succeeds; the store lives in-process.
func (s *Store) Ping(_ context.Context) error {
	return nil
}
