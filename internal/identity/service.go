package identity

import (
	"context"
	"errors"
	"strings"

	"rollcall/internal/audit"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

// Service handles registration, login, and logout. Registration is
// self-service for candidates; admin and officer accounts are provisioned
// out of band (seed or operations tooling).
type Service struct {
	store      Store
	tokens     *JWTService
	revocation RevocationList
	audit      *audit.Publisher
}

// NewService wires the identity service.
func NewService(store Store, tokens *JWTService, revocation RevocationList, publisher *audit.Publisher) *Service {
	return &Service{store: store, tokens: tokens, revocation: revocation, audit: publisher}
}

// RegisterInput carries candidate self-signup fields.
type RegisterInput struct {
	Name     string
	Email    string
	RegNo    string
	Program  string
	Password string
}

// Register creates a candidate account.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name must not be empty")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is not valid")
	}
	if strings.TrimSpace(input.RegNo) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "registration number must not be empty")
	}
	if len(input.Password) < 6 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "password must be at least 6 characters")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to hash password", err)
	}

	user := &User{
		ID:           id.NewUserID(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		RegNo:        strings.ToUpper(strings.TrimSpace(input.RegNo)),
		Program:      strings.TrimSpace(input.Program),
		PasswordHash: hash,
		Role:         id.RoleCandidate,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create account", err)
	}

	s.audit.Emit(ctx, audit.Event{
		ActorType: audit.ActorUser,
		ActorID:   user.ID.String(),
		Action:    audit.ActionRegister,
		Entity:    "account",
		EntityID:  user.ID.String(),
		Timestamp: requestcontext.Now(ctx),
	})
	return user, nil
}

// Login verifies credentials and issues an access token. Bad email and bad
// password return the same error so the endpoint cannot be used to probe for
// accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, "", dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, "", dErrors.Wrap(dErrors.CodeInternal, "failed to look up account", err)
	}
	if !verifyPassword(user.PasswordHash, password) {
		return nil, "", dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, "", dErrors.Wrap(dErrors.CodeInternal, "failed to issue token", err)
	}

	s.audit.Emit(ctx, audit.Event{
		ActorType: audit.ActorUser,
		ActorID:   user.ID.String(),
		Action:    audit.ActionLogin,
		Entity:    "account",
		EntityID:  user.ID.String(),
		Timestamp: requestcontext.Now(ctx),
	})
	return user, token, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	jti, expires, err := s.tokens.ExtractJTI(tokenString)
	if err != nil {
		return err
	}
	ttl := expires.Sub(requestcontext.Now(ctx))
	if err := s.revocation.Revoke(ctx, jti, ttl); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to revoke token", err)
	}

	s.audit.Emit(ctx, audit.Event{
		ActorType: audit.ActorUser,
		ActorID:   requestcontext.UserID(ctx).String(),
		Action:    audit.ActionLogout,
		Entity:    "account",
		Timestamp: requestcontext.Now(ctx),
	})
	return nil
}

// Find returns one user by ID.
func (s *Service) Find(ctx context.Context, userID id.UserID) (*User, error) {
	user, err := s.store.Find(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "account not found", err)
	}
	return user, nil
}
