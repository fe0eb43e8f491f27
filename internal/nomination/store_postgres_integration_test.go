//go:build integration

package nomination_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rollcall/internal/election"
	"rollcall/internal/identity"
	"rollcall/internal/nomination"
	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *nomination.PostgresStore
	users    *identity.PostgresStore
	posns    *election.PostgresStore

	user     *identity.User
	position *election.Position
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = nomination.NewPostgresStore(s.postgres.DB)
	s.users = identity.NewPostgresStore(s.postgres.DB)
	s.posns = election.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "vote", "candidate", "position", "account"))

	now := time.Now().UTC().Truncate(time.Microsecond)
	s.user = &identity.User{
		ID:           id.NewUserID(),
		Email:        "jane@campus.edu",
		Name:         "Jane Doe",
		RegNo:        "ENG/2022/001",
		PasswordHash: "x",
		Role:         id.RoleCandidate,
		CreatedAt:    now,
	}
	s.Require().NoError(s.users.Create(ctx, s.user))

	s.position = &election.Position{
		ID:         id.NewPositionID(),
		Name:       "President",
		Seats:      1,
		Nomination: id.Window{Opens: now, Closes: now.Add(24 * time.Hour)},
		Voting:     id.Window{Opens: now.Add(48 * time.Hour), Closes: now.Add(72 * time.Hour)},
		CreatedAt:  now,
	}
	s.Require().NoError(s.posns.Create(ctx, s.position))
}

func (s *PostgresStoreSuite) newCandidate() *nomination.Candidate {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &nomination.Candidate{
		ID:           id.NewCandidateID(),
		UserID:       s.user.ID,
		PositionID:   s.position.ID,
		Slogan:       "Onward",
		ManifestoRef: "manifesto.pdf",
		Status:       nomination.StatusSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// TestConcurrentCreate races duplicate submissions against the partial
// unique index. Exactly one must win.
func (s *PostgresStoreSuite) TestConcurrentCreate() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var succeeded, conflicted atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, s.newCandidate())
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicted.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), succeeded.Load())
	s.Equal(int32(goroutines-1), conflicted.Load())
}

// TestConcurrentDecide races approvals and rejections of one candidate. The
// conditional UPDATE must let exactly one through.
func (s *PostgresStoreSuite) TestConcurrentDecide() {
	ctx := context.Background()
	candidate := s.newCandidate()
	s.Require().NoError(s.store.Create(ctx, candidate))

	const goroutines = 10
	var wg sync.WaitGroup
	var succeeded atomic.Int32
	decidedAt := time.Now().UTC()
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			to := nomination.StatusApproved
			var reason *string
			if n%2 == 1 {
				to = nomination.StatusRejected
				r := "no"
				reason = &r
			}
			if _, err := s.store.Decide(ctx, candidate.ID, to, reason, decidedAt); err == nil {
				succeeded.Add(1)
			} else {
				s.Require().ErrorIs(err, sentinel.ErrInvalidState)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), succeeded.Load())

	final, err := s.store.Find(ctx, candidate.ID)
	s.Require().NoError(err)
	s.True(final.Status.Decided())
}

func (s *PostgresStoreSuite) TestRejectionFreesThePair() {
	ctx := context.Background()
	candidate := s.newCandidate()
	s.Require().NoError(s.store.Create(ctx, candidate))

	reason := "incomplete"
	_, err := s.store.Decide(ctx, candidate.ID, nomination.StatusRejected, &reason, time.Now().UTC())
	s.Require().NoError(err)

	s.Require().NoError(s.store.Create(ctx, s.newCandidate()))
}

func (s *PostgresStoreSuite) TestUpdateProfileOnlyWhileSubmitted() {
	ctx := context.Background()
	candidate := s.newCandidate()
	s.Require().NoError(s.store.Create(ctx, candidate))

	slogan := "Better"
	updated, err := s.store.UpdateProfile(ctx, candidate.ID, nomination.ProfilePatch{Slogan: &slogan}, time.Now().UTC())
	s.Require().NoError(err)
	s.Equal(slogan, updated.Slogan)
	s.Equal(candidate.ManifestoRef, updated.ManifestoRef)

	_, err = s.store.Decide(ctx, candidate.ID, nomination.StatusApproved, nil, time.Now().UTC())
	s.Require().NoError(err)

	_, err = s.store.UpdateProfile(ctx, candidate.ID, nomination.ProfilePatch{Slogan: &slogan}, time.Now().UTC())
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *PostgresStoreSuite) TestFindNotFound() {
	_, err := s.store.Find(context.Background(), id.NewCandidateID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
