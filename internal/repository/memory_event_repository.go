package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/enigmAsad/ticketing-service/internal/domain"
)

// MemoryEventRepository implements EventRepository in process memory
type MemoryEventRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Event
	ordered []*domain.Event
}

// NewMemoryEventRepository creates a new MemoryEventRepository
func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{
		byID: make(map[string]*domain.Event),
	}
}

// Create stores a new event
func (r *MemoryEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if event == nil || event.ID == "" {
		return domain.ErrInvalidEventID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[event.ID]; exists {
		return fmt.Errorf("event %s already exists", event.ID)
	}
	r.byID[event.ID] = event
	r.ordered = append(r.ordered, event)
	return nil
}

// GetByID retrieves an event by its ID
func (r *MemoryEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id], nil
}

// List returns all events in insertion order
func (r *MemoryEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*domain.Event, len(r.ordered))
	copy(events, r.ordered)
	return events, nil
}

// Count returns the number of stored events
func (r *MemoryEventRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}
