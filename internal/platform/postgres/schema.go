package postgres

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates all tables needed by the service. Safe to call on
// every start; uses IF NOT EXISTS throughout.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const schema = `
-- Accounts (admins, officers, candidates)
CREATE TABLE IF NOT EXISTS account (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    reg_no TEXT,
    program TEXT,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('ADMIN', 'OFFICER', 'CANDIDATE', 'VOTER')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Election positions
CREATE TABLE IF NOT EXISTS position (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    constituency TEXT,
    seats INT NOT NULL CHECK (seats >= 1),
    nomination_opens TIMESTAMPTZ NOT NULL,
    nomination_closes TIMESTAMPTZ NOT NULL,
    voting_opens TIMESTAMPTZ NOT NULL,
    voting_closes TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Candidate nominations
CREATE TABLE IF NOT EXISTS candidate (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES account(id),
    position_id UUID NOT NULL REFERENCES position(id),
    slogan TEXT NOT NULL,
    manifesto_ref TEXT NOT NULL,
    photo_ref TEXT,
    status TEXT NOT NULL DEFAULT 'SUBMITTED' CHECK (status IN ('SUBMITTED', 'APPROVED', 'REJECTED')),
    rejection_reason TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_candidate_position ON candidate(position_id);
CREATE INDEX IF NOT EXISTS idx_candidate_status ON candidate(status);
-- One live (non-rejected) candidacy per user per position.
CREATE UNIQUE INDEX IF NOT EXISTS idx_candidate_active
    ON candidate(user_id, position_id) WHERE status <> 'REJECTED';

-- Eligible voter ledger
CREATE TABLE IF NOT EXISTS eligible_voter (
    id UUID PRIMARY KEY,
    reg_no TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    constituency TEXT NOT NULL,
    email TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'ELIGIBLE' CHECK (status IN ('ELIGIBLE', 'VOTED', 'INELIGIBLE'))
);

-- Cast ballots; the unique constraint is the binding one-vote invariant.
CREATE TABLE IF NOT EXISTS vote (
    id UUID PRIMARY KEY,
    voter_id UUID NOT NULL REFERENCES eligible_voter(id),
    position_id UUID NOT NULL REFERENCES position(id),
    candidate_id UUID NOT NULL REFERENCES candidate(id),
    cast_at TIMESTAMPTZ NOT NULL,
    UNIQUE (voter_id, position_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_position ON vote(position_id);

-- Append-only audit trail
CREATE TABLE IF NOT EXISTS audit_log (
    id UUID PRIMARY KEY,
    actor_type TEXT NOT NULL,
    actor_id TEXT,
    action TEXT NOT NULL,
    entity TEXT NOT NULL,
    entity_id TEXT,
    payload JSONB,
    occurred_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_occurred_at ON audit_log(occurred_at DESC);
`
