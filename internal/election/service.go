package election

import (
	"context"

	"rollcall/internal/audit"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/requestcontext"
)

// Service owns position creation and lookup. Positions are immutable once
// created; there is deliberately no update or delete operation, since a
// deleted position would orphan candidates and votes.
type Service struct {
	store Store
	audit *audit.Publisher
}

// NewService wires the position registry.
func NewService(store Store, publisher *audit.Publisher) *Service {
	return &Service{store: store, audit: publisher}
}

// CreateInput carries the fields an administrator supplies for a new position.
type CreateInput struct {
	Name         string
	Constituency *string
	Seats        int
	Nomination   id.Window
	Voting       id.Window
}

// Create validates and persists one position. Only admins reach this
// operation; the role gate lives in the HTTP middleware chain and the actor
// is recorded on the audit trail.
func (s *Service) Create(ctx context.Context, actorID id.UserID, input CreateInput) (*Position, error) {
	position := &Position{
		ID:           id.NewPositionID(),
		Name:         input.Name,
		Constituency: input.Constituency,
		Seats:        input.Seats,
		Nomination:   input.Nomination,
		Voting:       input.Voting,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := position.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, position); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create position", err)
	}

	s.audit.Emit(ctx, audit.Event{
		ActorType: audit.ActorUser,
		ActorID:   actorID.String(),
		Action:    audit.ActionCreatePosition,
		Entity:    "position",
		EntityID:  position.ID.String(),
		Payload:   map[string]any{"name": position.Name, "seats": position.Seats},
		Timestamp: requestcontext.Now(ctx),
	})
	return position, nil
}

// CreateBulk creates several positions in order, stopping at the first
// failure. Already-created positions stay; the caller sees how far it got.
func (s *Service) CreateBulk(ctx context.Context, actorID id.UserID, inputs []CreateInput) ([]*Position, error) {
	if len(inputs) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "positions array must not be empty")
	}
	created := make([]*Position, 0, len(inputs))
	for _, input := range inputs {
		position, err := s.Create(ctx, actorID, input)
		if err != nil {
			return created, err
		}
		created = append(created, position)
	}
	return created, nil
}

// Find returns one position by ID.
func (s *Service) Find(ctx context.Context, positionID id.PositionID) (*Position, error) {
	position, err := s.store.Find(ctx, positionID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "position not found", err)
	}
	return position, nil
}

// List returns all positions.
func (s *Service) List(ctx context.Context) ([]*Position, error) {
	positions, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list positions", err)
	}
	return positions, nil
}
