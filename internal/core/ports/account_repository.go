package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
)

// AccountRepository defines the read contract for user accounts. Parcel
// creation resolves the sender by identifier and tries to link the receiver
// by email; both lookups happen inside the same transaction as the insert.
type AccountRepository interface {
	// Get retrieves an account by its unique identifier.
	// Returns ObjectNotFoundError when no such account exists.
	Get(ctx context.Context, id kernel.UUID) (*account.Account, error)

	// GetByEmail retrieves an account by its unique email address.
	// Returns ObjectNotFoundError when no account carries the email.
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
}
