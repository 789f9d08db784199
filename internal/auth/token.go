package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	apperrors "github.com/WilliamTrivedi/Blood-Donation/internal/platform/errors"
)

// AccessTokenTTL is how long an issued access token stays valid.
const AccessTokenTTL = 30 * time.Minute

// Claims are the JWT claims carried by an access token.
type Claims struct {
	Role   domain.Role `json:"role"`
	UserID string      `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	clock  clockwork.Clock
}

func NewTokenService(secret string, clock clockwork.Clock) *TokenService {
	return &TokenService{secret: []byte(secret), clock: clock}
}

// Issue creates a signed access token for the user.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		Role:   user.Role,
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.InternalError("failed to sign token", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.UnauthorizedError("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !token.Valid {
		return nil, apperrors.UnauthorizedError("invalid or expired token")
	}
	return claims, nil
}
