package ports

import (
	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
)

// Principal is the authenticated caller extracted from a verified token.
type Principal struct {
	UserID kernel.UUID
	Email  string
	Role   account.Role
}

// TokenService issues and verifies the bearer tokens carried on API calls.
//
// Verification failures (expired, malformed, wrong signature) surface as
// ValueIsInvalidError; the HTTP layer maps them to 401.
type TokenService interface {
	// Issue creates a signed token for the principal.
	Issue(principal Principal) (string, error)

	// Verify parses and validates a token and returns its principal.
	Verify(token string) (Principal, error)
}
