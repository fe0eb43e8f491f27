package identity

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

// PostgresStore persists users in the account table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed user store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, user *User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account (id, email, name, reg_no, program, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(user.ID), user.Email, user.Name,
		nullString(user.RegNo), nullString(user.Program),
		user.PasswordHash, string(user.Role), user.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("email %s taken: %w", user.Email, sentinel.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, userID id.UserID) (*User, error) {
	return s.findBy(ctx, `id = $1`, uuid.UUID(userID))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findBy(ctx, `LOWER(email) = LOWER($1)`, email)
}

func (s *PostgresStore) findBy(ctx context.Context, where string, arg any) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, reg_no, program, password_hash, role, created_at
		FROM account WHERE `+where, arg)

	var (
		user    User
		rawID   uuid.UUID
		regNo   sql.NullString
		program sql.NullString
		role    string
	)
	err := row.Scan(&rawID, &user.Email, &user.Name, &regNo, &program,
		&user.PasswordHash, &role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	user.ID = id.UserID(rawID)
	user.RegNo = regNo.String
	user.Program = program.String
	user.Role = id.Role(role)
	return &user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
