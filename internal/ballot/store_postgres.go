package ballot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// PostgresStore persists votes in PostgreSQL. The (voter_id, position_id)
// unique constraint is the binding one-vote invariant; under concurrent
// inserts exactly one succeeds and the rest surface ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed vote store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, vote *Vote) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vote (id, voter_id, position_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(vote.ID), uuid.UUID(vote.VoterID), uuid.UUID(vote.PositionID),
		uuid.UUID(vote.CandidateID), vote.CastAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("vote exists for voter %s position %s: %w",
			vote.VoterID, vote.PositionID, sentinel.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create vote: %w", err)
	}
	return nil
}

func (s *PostgresStore) Tally(ctx context.Context, positionID id.PositionID) ([]TallyRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_id, COUNT(*) AS votes
		FROM vote WHERE position_id = $1
		GROUP BY candidate_id
		ORDER BY votes DESC, candidate_id`, uuid.UUID(positionID))
	if err != nil {
		return nil, fmt.Errorf("tally votes: %w", err)
	}
	defer rows.Close()

	var tally []TallyRow
	for rows.Next() {
		var (
			rawCandidate uuid.UUID
			row          TallyRow
		)
		if err := rows.Scan(&rawCandidate, &row.Votes); err != nil {
			return nil, fmt.Errorf("scan tally row: %w", err)
		}
		row.CandidateID = id.CandidateID(rawCandidate)
		tally = append(tally, row)
	}
	return tally, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vote`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return count, nil
}
