package ballot

import (
	"context"
	"fmt"
	"sort"
	"sync"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

type pairKey struct {
	voter    id.VoterID
	position id.PositionID
}

// MemoryStore keeps votes in memory for tests and development. The pair
// index is checked and written under one lock, mirroring the atomicity the
// Postgres store gets from its unique constraint.
type MemoryStore struct {
	mu    sync.Mutex
	votes []*Vote
	pairs map[pairKey]struct{}
}

// NewMemoryStore constructs an empty in-memory vote store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pairs: make(map[pairKey]struct{})}
}

func (s *MemoryStore) Create(_ context.Context, vote *Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{voter: vote.VoterID, position: vote.PositionID}
	if _, exists := s.pairs[key]; exists {
		return fmt.Errorf("vote exists for voter %s position %s: %w",
			vote.VoterID, vote.PositionID, sentinel.ErrConflict)
	}
	copied := *vote
	s.votes = append(s.votes, &copied)
	s.pairs[key] = struct{}{}
	return nil
}

func (s *MemoryStore) Tally(_ context.Context, positionID id.PositionID) ([]TallyRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[id.CandidateID]int)
	for _, vote := range s.votes {
		if vote.PositionID == positionID {
			counts[vote.CandidateID]++
		}
	}
	rows := make([]TallyRow, 0, len(counts))
	for candidateID, votes := range counts {
		rows = append(rows, TallyRow{CandidateID: candidateID, Votes: votes})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Votes != rows[j].Votes {
			return rows[i].Votes > rows[j].Votes
		}
		return rows[i].CandidateID.String() < rows[j].CandidateID.String()
	})
	return rows, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.votes), nil
}
