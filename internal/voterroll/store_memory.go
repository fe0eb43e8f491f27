package voterroll

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// MemoryStore keeps the voter ledger in memory for tests and development.
type MemoryStore struct {
	mu      sync.RWMutex
	voters  map[id.VoterID]*Voter
	byRegNo map[string]id.VoterID
}

// NewMemoryStore constructs an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		voters:  make(map[id.VoterID]*Voter),
		byRegNo: make(map[string]id.VoterID),
	}
}

func (s *MemoryStore) Create(_ context.Context, voter *Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToUpper(voter.RegNo)
	if _, exists := s.byRegNo[key]; exists {
		return fmt.Errorf("reg no %s exists: %w", voter.RegNo, sentinel.ErrConflict)
	}
	copied := *voter
	s.voters[voter.ID] = &copied
	s.byRegNo[key] = voter.ID
	return nil
}

func (s *MemoryStore) Find(_ context.Context, voterID id.VoterID) (*Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if voter, ok := s.voters[voterID]; ok {
		copied := *voter
		return &copied, nil
	}
	return nil, fmt.Errorf("voter %s: %w", voterID, sentinel.ErrNotFound)
}

func (s *MemoryStore) FindByRegNo(_ context.Context, regNo string) (*Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if voterID, ok := s.byRegNo[strings.ToUpper(regNo)]; ok {
		copied := *s.voters[voterID]
		return &copied, nil
	}
	return nil, fmt.Errorf("voter %s: %w", regNo, sentinel.ErrNotFound)
}

func (s *MemoryStore) List(_ context.Context, offset, limit int) ([]*Voter, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*Voter, 0, len(s.voters))
	for _, voter := range s.voters {
		copied := *voter
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].RegNo < all[j].RegNo })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *MemoryStore) MarkVoted(_ context.Context, voterID id.VoterID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	voter, ok := s.voters[voterID]
	if !ok {
		return fmt.Errorf("voter %s: %w", voterID, sentinel.ErrNotFound)
	}
	voter.Status = StatusVoted
	return nil
}

func (s *MemoryStore) CountByStatus(_ context.Context, status Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, voter := range s.voters {
		if voter.Status == status {
			count++
		}
	}
	return count, nil
}
