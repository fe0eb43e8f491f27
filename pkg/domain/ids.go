// Package domain holds the typed identifiers and small value types shared
// across the election domain. Typed UUIDs prevent cross-entity ID mixups at
// compile time; Parse* helpers enforce validity at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "rollcall/pkg/domain-errors"
)

type (
	// UserID identifies an authenticated account (admin, officer, candidate).
	UserID uuid.UUID
	// PositionID identifies an election position (seat).
	PositionID uuid.UUID
	// CandidateID identifies a nomination record.
	CandidateID uuid.UUID
	// VoterID identifies an entry in the eligible-voter ledger.
	VoterID uuid.UUID
	// VoteID identifies a cast ballot.
	VoteID uuid.UUID
)

func (id UserID) String() string      { return uuid.UUID(id).String() }
func (id PositionID) String() string  { return uuid.UUID(id).String() }
func (id CandidateID) String() string { return uuid.UUID(id).String() }
func (id VoterID) String() string     { return uuid.UUID(id).String() }
func (id VoteID) String() string      { return uuid.UUID(id).String() }

func (id UserID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }
func (id PositionID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id CandidateID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id VoterID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }
func (id VoteID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }

// NewUserID generates a fresh random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewPositionID generates a fresh random position ID.
func NewPositionID() PositionID { return PositionID(uuid.New()) }

// NewCandidateID generates a fresh random candidate ID.
func NewCandidateID() CandidateID { return CandidateID(uuid.New()) }

// NewVoterID generates a fresh random voter ID.
func NewVoterID() VoterID { return VoterID(uuid.New()) }

// NewVoteID generates a fresh random vote ID.
func NewVoteID() VoteID { return VoteID(uuid.New()) }

// parseUUID rejects empty, malformed, and nil UUIDs. All Parse* helpers share
// this so the validity rule cannot drift per ID type.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, kind+" id must not be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, kind+" id is not a valid uuid")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, kind+" id must not be the nil uuid")
	}
	return parsed, nil
}

// ParseUserID validates raw as a user ID.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user")
	return UserID(parsed), err
}

// ParsePositionID validates raw as a position ID.
func ParsePositionID(raw string) (PositionID, error) {
	parsed, err := parseUUID(raw, "position")
	return PositionID(parsed), err
}

// ParseCandidateID validates raw as a candidate ID.
func ParseCandidateID(raw string) (CandidateID, error) {
	parsed, err := parseUUID(raw, "candidate")
	return CandidateID(parsed), err
}

// ParseVoterID validates raw as a voter ID.
func ParseVoterID(raw string) (VoterID, error) {
	parsed, err := parseUUID(raw, "voter")
	return VoterID(parsed), err
}
