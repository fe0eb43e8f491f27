package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	mwauth "rollcall/pkg/platform/middleware/auth"
)

// Claims are the JWT claims carried by access tokens. The role rides in the
// token so every request arrives with an explicit actor role; nothing is
// looked up from ambient session state.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs and validates HS256 access tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

// NewJWTService constructs the token service.
func NewJWTService(signingKey string, ttl time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     "rollcall",
		ttl:        ttl,
	}
}

// TTL returns the configured token lifetime; logout uses it to bound the
// revocation record.
func (s *JWTService) TTL() time.Duration { return s.ttl }

// GenerateAccessToken issues a signed token for the user.
func (s *JWTService) GenerateAccessToken(userID id.UserID, role id.Role) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies a token, returning middleware claims.
func (s *JWTService) ValidateToken(tokenString string) (*mwauth.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	role, ok := id.ParseRole(claims.Role)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token role")
	}
	return &mwauth.Claims{UserID: userID, Role: role, JTI: claims.ID}, nil
}

// ExtractJTI returns the token's jti without full business validation beyond
// signature and expiry; logout uses it to record the revocation.
func (s *JWTService) ExtractJTI(tokenString string) (string, time.Time, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.signingKey, nil
	})
	if err != nil {
		return "", time.Time{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return "", time.Time{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return claims.ID, expires, nil
}
