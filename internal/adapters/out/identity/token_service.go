// Package identity implements bearer token issuing and verification with
// HMAC-signed JWTs.
package identity

import (
	"time"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

// JWTTokenService issues and verifies HS256-signed tokens carrying the
// principal's ID, email, and role.
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTTokenService creates a token service with the given signing secret
// and token lifetime.
func NewJWTTokenService(secret string, ttl time.Duration) (*JWTTokenService, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("jwtSecret")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidError("jwtTTL")
	}

	return &JWTTokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed token for the principal.
func (s *JWTTokenService) Issue(principal ports.Principal) (string, error) {
	if err := principal.UserID.Validate(); err != nil {
		return "", err
	}
	if err := principal.Role.Validate(); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	claims := tokenClaims{
		Email: principal.Email,
		Role:  principal.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token and returns its principal. Every
// rejection surfaces as ValueIsInvalidError with the jwt sentinel kept in the
// unwrap chain, so callers can distinguish an expired token
// (jwt.ErrTokenExpired) from a malformed one (jwt.ErrTokenMalformed) from a
// bad signature (jwt.ErrTokenSignatureInvalid).
func (s *JWTTokenService) Verify(token string) (ports.Principal, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&tokenClaims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return ports.Principal{}, errs.NewValueIsInvalidErrorWithCause("token", err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return ports.Principal{}, errs.NewValueIsInvalidError("token")
	}

	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return ports.Principal{}, errs.NewValueIsInvalidErrorWithCause("token", err)
	}

	role, err := account.RoleFromString(claims.Role)
	if err != nil {
		return ports.Principal{}, errs.NewValueIsInvalidErrorWithCause("token", err)
	}

	return ports.Principal{
		UserID: userID,
		Email:  claims.Email,
		Role:   role,
	}, nil
}
