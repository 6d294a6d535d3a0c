// Package memory provides the process-local entry store.
package memory

import (
	"context"
	"sync"
	"time"

	"example.com/fitnesstracker/internal/domain"
	"example.com/fitnesstracker/internal/observability"
)

// Repository stores entries in memory. Contents are lost on restart.
type Repository struct {
	mu      sync.RWMutex
	entries []domain.Entry
	index   map[int]int
	nextID  int
}

// NewRepository constructs an empty repository.
func NewRepository() *Repository {
	return &Repository{
		index:  make(map[int]int),
		nextID: 1,
	}
}

// Seed appends the given entries, assigning fresh IDs.
func (r *Repository) Seed(ctx context.Context, entries []domain.Entry) error {
	for _, e := range entries {
		if _, err := r.Add(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// List implements domain.EntryRepository. Entries come back in insertion order.
func (r *Repository) List(ctx context.Context) ([]domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

// Get implements domain.EntryRepository.
func (r *Repository) Get(ctx context.Context, id int) (*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[id]
	if !ok {
		return nil, nil
	}
	entry := r.entries[pos]
	return &entry, nil
}

// Add implements domain.EntryRepository. IDs start at 1 and are never reused.
func (r *Repository) Add(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++
	r.index[entry.ID] = len(r.entries)
	r.entries = append(r.entries, entry)

	observability.SetEntriesStored(len(r.entries))
	observability.RecordEntrySaved(time.Now().UTC())
	return entry, nil
}

// Update implements domain.EntryRepository.
func (r *Repository) Update(ctx context.Context, entry domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[entry.ID]
	if !ok {
		return domain.ErrEntryNotFound
	}
	r.entries[pos] = entry

	observability.RecordEntrySaved(time.Now().UTC())
	return nil
}
