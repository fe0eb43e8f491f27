package nomination

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// PostgresStore persists candidates in PostgreSQL. The partial unique index
// idx_candidate_active backs the one-active-candidacy invariant; decisions
// and profile edits are single conditional UPDATEs so the SUBMITTED guard
// cannot race.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed candidate store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const candidateColumns = `id, user_id, position_id, slogan, manifesto_ref, photo_ref, status, rejection_reason, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, candidate *Candidate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidate (`+candidateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(candidate.ID), uuid.UUID(candidate.UserID), uuid.UUID(candidate.PositionID),
		candidate.Slogan, candidate.ManifestoRef, candidate.PhotoRef,
		string(candidate.Status), candidate.RejectionReason,
		candidate.CreatedAt, candidate.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("active candidacy exists for user %s position %s: %w",
			candidate.UserID, candidate.PositionID, sentinel.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, candidateID id.CandidateID) (*Candidate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidate WHERE id = $1`, uuid.UUID(candidateID))
	candidate, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find candidate: %w", err)
	}
	return candidate, nil
}

func (s *PostgresStore) FindActiveByUser(ctx context.Context, userID id.UserID) (*Candidate, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+candidateColumns+` FROM candidate
		WHERE user_id = $1 AND status <> 'REJECTED'
		ORDER BY created_at DESC LIMIT 1`, uuid.UUID(userID))
	candidate, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no active candidacy for user %s: %w", userID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find active candidacy: %w", err)
	}
	return candidate, nil
}

func (s *PostgresStore) List(ctx context.Context, status *Status) ([]*Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidate`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()
	return collectCandidates(rows)
}

func (s *PostgresStore) ListApprovedByPosition(ctx context.Context, positionID id.PositionID) ([]*Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+candidateColumns+` FROM candidate
		WHERE position_id = $1 AND status = 'APPROVED'
		ORDER BY created_at`, uuid.UUID(positionID))
	if err != nil {
		return nil, fmt.Errorf("list approved candidates: %w", err)
	}
	defer rows.Close()
	return collectCandidates(rows)
}

func (s *PostgresStore) Decide(ctx context.Context, candidateID id.CandidateID, to Status, reason *string, decidedAt time.Time) (*Candidate, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE candidate
		SET status = $2, rejection_reason = $3, updated_at = $4
		WHERE id = $1 AND status = 'SUBMITTED'
		RETURNING `+candidateColumns,
		uuid.UUID(candidateID), string(to), reason, decidedAt)

	candidate, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.explainMissedUpdate(ctx, candidateID)
	}
	if err != nil {
		return nil, fmt.Errorf("decide candidate: %w", err)
	}
	return candidate, nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, candidateID id.CandidateID, patch ProfilePatch, updatedAt time.Time) (*Candidate, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE candidate
		SET slogan = COALESCE($2, slogan),
		    manifesto_ref = COALESCE($3, manifesto_ref),
		    photo_ref = COALESCE($4, photo_ref),
		    updated_at = $5
		WHERE id = $1 AND status = 'SUBMITTED'
		RETURNING `+candidateColumns,
		uuid.UUID(candidateID), patch.Slogan, patch.ManifestoRef, patch.PhotoRef, updatedAt)

	candidate, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.explainMissedUpdate(ctx, candidateID)
	}
	if err != nil {
		return nil, fmt.Errorf("update candidate profile: %w", err)
	}
	return candidate, nil
}

// explainMissedUpdate distinguishes "no such candidate" from "already
// decided" after a conditional UPDATE touched zero rows.
func (s *PostgresStore) explainMissedUpdate(ctx context.Context, candidateID id.CandidateID) error {
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM candidate WHERE id = $1`, uuid.UUID(candidateID)).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("candidate %s: %w", candidateID, sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("inspect candidate: %w", err)
	}
	return fmt.Errorf("candidate %s already %s: %w", candidateID, status, sentinel.ErrInvalidState)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*Candidate, error) {
	var (
		candidate            Candidate
		rawID, rawUser       uuid.UUID
		rawPosition          uuid.UUID
		status               string
	)
	err := row.Scan(&rawID, &rawUser, &rawPosition, &candidate.Slogan,
		&candidate.ManifestoRef, &candidate.PhotoRef, &status,
		&candidate.RejectionReason, &candidate.CreatedAt, &candidate.UpdatedAt)
	if err != nil {
		return nil, err
	}
	candidate.ID = id.CandidateID(rawID)
	candidate.UserID = id.UserID(rawUser)
	candidate.PositionID = id.PositionID(rawPosition)
	candidate.Status = Status(status)
	return &candidate, nil
}

func collectCandidates(rows *sql.Rows) ([]*Candidate, error) {
	var candidates []*Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}
