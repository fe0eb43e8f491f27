package election

import (
	"context"
	"fmt"
	"sort"
	"sync"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// MemoryStore keeps positions in memory for tests and development.
type MemoryStore struct {
	mu        sync.RWMutex
	positions map[id.PositionID]*Position
}

// NewMemoryStore constructs an empty in-memory position store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{positions: make(map[id.PositionID]*Position)}
}

func (s *MemoryStore) Create(_ context.Context, position *Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *position
	s.positions[position.ID] = &copied
	return nil
}

func (s *MemoryStore) Find(_ context.Context, positionID id.PositionID) (*Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if position, ok := s.positions[positionID]; ok {
		copied := *position
		return &copied, nil
	}
	return nil, fmt.Errorf("position %s: %w", positionID, sentinel.ErrNotFound)
}

func (s *MemoryStore) List(_ context.Context) ([]*Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Position, 0, len(s.positions))
	for _, position := range s.positions {
		copied := *position
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
