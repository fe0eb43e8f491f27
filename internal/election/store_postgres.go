package election

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// PostgresStore persists positions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed position store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, position *Position) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO position (id, name, constituency, seats, nomination_opens, nomination_closes, voting_opens, voting_closes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(position.ID), position.Name, position.Constituency, position.Seats,
		position.Nomination.Opens, position.Nomination.Closes,
		position.Voting.Opens, position.Voting.Closes,
		position.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create position: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, positionID id.PositionID) (*Position, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, constituency, seats, nomination_opens, nomination_closes, voting_opens, voting_closes, created_at
		FROM position WHERE id = $1`, uuid.UUID(positionID))

	position, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("position %s: %w", positionID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find position: %w", err)
	}
	return position, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, constituency, seats, nomination_opens, nomination_closes, voting_opens, voting_closes, created_at
		FROM position ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var positions []*Position
	for rows.Next() {
		position, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, position)
	}
	return positions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosition(row rowScanner) (*Position, error) {
	var (
		position Position
		rawID    uuid.UUID
	)
	err := row.Scan(&rawID, &position.Name, &position.Constituency, &position.Seats,
		&position.Nomination.Opens, &position.Nomination.Closes,
		&position.Voting.Opens, &position.Voting.Closes,
		&position.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	position.ID = id.PositionID(rawID)
	return &position, nil
}
