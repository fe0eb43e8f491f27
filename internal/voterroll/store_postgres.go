package voterroll

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

// PostgresStore persists the voter ledger in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, voter *Voter) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO eligible_voter (id, reg_no, name, constituency, email, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(voter.ID), voter.RegNo, voter.Name, voter.Constituency,
		voter.Email, string(voter.Status),
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("reg no %s exists: %w", voter.RegNo, sentinel.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create voter: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, voterID id.VoterID) (*Voter, error) {
	return s.findBy(ctx, `id = $1`, uuid.UUID(voterID))
}

func (s *PostgresStore) FindByRegNo(ctx context.Context, regNo string) (*Voter, error) {
	return s.findBy(ctx, `UPPER(reg_no) = UPPER($1)`, regNo)
}

func (s *PostgresStore) findBy(ctx context.Context, where string, arg any) (*Voter, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, reg_no, name, constituency, email, status
		FROM eligible_voter WHERE `+where, arg)

	voter, err := scanVoter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("voter: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find voter: %w", err)
	}
	return voter, nil
}

func (s *PostgresStore) List(ctx context.Context, offset, limit int) ([]*Voter, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM eligible_voter`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count voters: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reg_no, name, constituency, email, status
		FROM eligible_voter ORDER BY reg_no OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list voters: %w", err)
	}
	defer rows.Close()

	var voters []*Voter
	for rows.Next() {
		voter, err := scanVoter(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan voter: %w", err)
		}
		voters = append(voters, voter)
	}
	return voters, total, rows.Err()
}

func (s *PostgresStore) MarkVoted(ctx context.Context, voterID id.VoterID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE eligible_voter SET status = 'VOTED' WHERE id = $1`, uuid.UUID(voterID))
	if err != nil {
		return fmt.Errorf("mark voted: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("voter %s: %w", voterID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context, status Status) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM eligible_voter WHERE status = $1`, string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count voters by status: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVoter(row rowScanner) (*Voter, error) {
	var (
		voter  Voter
		rawID  uuid.UUID
		status string
	)
	if err := row.Scan(&rawID, &voter.RegNo, &voter.Name, &voter.Constituency,
		&voter.Email, &status); err != nil {
		return nil, err
	}
	voter.ID = id.VoterID(rawID)
	voter.Status = Status(status)
	return &voter, nil
}
