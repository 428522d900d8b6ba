// Package ports defines the contracts between the application core and the
// infrastructure adapters: repositories, the unit of work, outbound
// notifications, and identity tokens. The interfaces enable dependency
// inversion and testability.
package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// ParcelRepository defines the persistence contract for parcel aggregates.
//
// Implementations bound storage access with timeouts and translate storage
// failures into the error taxonomy: a missing row becomes
// ObjectNotFoundError, a tracking ID uniqueness violation becomes
// ObjectAlreadyExistsError, a lost optimistic-concurrency race becomes
// ConcurrencyConflictError, and timeouts or connectivity failures become
// StorageUnavailableError.
type ParcelRepository interface {
	// Add persists a new parcel aggregate to storage.
	// Returns ObjectAlreadyExistsError when the tracking ID collides with
	// an existing parcel; callers regenerate the ID and retry.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update persists changes to an existing parcel aggregate using
	// compare-and-swap on the version the aggregate was loaded with.
	// Returns ConcurrencyConflictError when a concurrent writer got there
	// first.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// Get retrieves a parcel aggregate by its internal identifier,
	// including its full status history.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetByTrackingID retrieves a parcel aggregate by its human-facing
	// tracking identifier.
	GetByTrackingID(ctx context.Context, trackingID parcel.TrackingID) (*parcel.Parcel, error)
}
