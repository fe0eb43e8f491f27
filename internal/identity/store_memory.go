package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// MemoryStore keeps users in memory for tests and development.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]*User
	byEmail map[string]id.UserID
}

// NewMemoryStore constructs an empty in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[id.UserID]*User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *MemoryStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return fmt.Errorf("email %s taken: %w", user.Email, sentinel.ErrConflict)
	}
	copied := *user
	s.users[user.ID] = &copied
	s.byEmail[key] = user.ID
	return nil
}

func (s *MemoryStore) Find(_ context.Context, userID id.UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if userID, ok := s.byEmail[strings.ToLower(email)]; ok {
		copied := *s.users[userID]
		return &copied, nil
	}
	return nil, fmt.Errorf("user %s: %w", email, sentinel.ErrNotFound)
}
