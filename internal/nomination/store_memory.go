package nomination

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// MemoryStore keeps candidates in memory for tests and development. All
// mutations hold the write lock for the whole check-and-set, giving the same
// atomicity the Postgres store gets from single statements.
type MemoryStore struct {
	mu         sync.RWMutex
	candidates map[id.CandidateID]*Candidate
}

// NewMemoryStore constructs an empty in-memory candidate store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{candidates: make(map[id.CandidateID]*Candidate)}
}

func (s *MemoryStore) Create(_ context.Context, candidate *Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.candidates {
		if existing.UserID == candidate.UserID &&
			existing.PositionID == candidate.PositionID &&
			existing.Status != StatusRejected {
			return fmt.Errorf("active candidacy exists for user %s position %s: %w",
				candidate.UserID, candidate.PositionID, sentinel.ErrConflict)
		}
	}
	copied := *candidate
	s.candidates[candidate.ID] = &copied
	return nil
}

func (s *MemoryStore) Find(_ context.Context, candidateID id.CandidateID) (*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if candidate, ok := s.candidates[candidateID]; ok {
		copied := *candidate
		return &copied, nil
	}
	return nil, fmt.Errorf("candidate %s: %w", candidateID, sentinel.ErrNotFound)
}

func (s *MemoryStore) FindActiveByUser(_ context.Context, userID id.UserID) (*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *Candidate
	for _, candidate := range s.candidates {
		if candidate.UserID != userID || candidate.Status == StatusRejected {
			continue
		}
		if best == nil || candidate.CreatedAt.After(best.CreatedAt) {
			best = candidate
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no active candidacy for user %s: %w", userID, sentinel.ErrNotFound)
	}
	copied := *best
	return &copied, nil
}

func (s *MemoryStore) List(_ context.Context, status *Status) ([]*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Candidate
	for _, candidate := range s.candidates {
		if status != nil && candidate.Status != *status {
			continue
		}
		copied := *candidate
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) ListApprovedByPosition(_ context.Context, positionID id.PositionID) ([]*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Candidate
	for _, candidate := range s.candidates {
		if candidate.PositionID != positionID || candidate.Status != StatusApproved {
			continue
		}
		copied := *candidate
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Decide(_ context.Context, candidateID id.CandidateID, to Status, reason *string, decidedAt time.Time) (*Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[candidateID]
	if !ok {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, sentinel.ErrNotFound)
	}
	if candidate.Status != StatusSubmitted {
		return nil, fmt.Errorf("candidate %s already %s: %w", candidateID, candidate.Status, sentinel.ErrInvalidState)
	}
	candidate.Status = to
	candidate.RejectionReason = reason
	candidate.UpdatedAt = decidedAt
	copied := *candidate
	return &copied, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, candidateID id.CandidateID, patch ProfilePatch, updatedAt time.Time) (*Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[candidateID]
	if !ok {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, sentinel.ErrNotFound)
	}
	if candidate.Status != StatusSubmitted {
		return nil, fmt.Errorf("candidate %s already %s: %w", candidateID, candidate.Status, sentinel.ErrInvalidState)
	}
	if patch.Slogan != nil {
		candidate.Slogan = *patch.Slogan
	}
	if patch.ManifestoRef != nil {
		candidate.ManifestoRef = *patch.ManifestoRef
	}
	if patch.PhotoRef != nil {
		candidate.PhotoRef = patch.PhotoRef
	}
	candidate.UpdatedAt = updatedAt
	copied := *candidate
	return &copied, nil
}
