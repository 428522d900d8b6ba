// Package queries contains read operations in the CQRS architecture.
// Single-parcel reads load the aggregate through the repository so callers
// see the full status history; list and statistics queries read the
// database directly with SQL shaped for the response.
package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrGetParcelQueryIsNotConstructed = errors.New(
		"GetParcelQuery must be created via NewGetParcelQuery constructor",
	)
)

// GetParcelQuery retrieves a single parcel with its full status history.
// Access is role-scoped: admins see any parcel, senders their own, receivers
// the parcels addressed to them by account link or snapshot email.
type GetParcelQuery struct {
	parcelID  kernel.UUID
	actorID   kernel.UUID
	actorRole account.Role

	guard guard.ConstructorGuard
}

// NewGetParcelQuery creates a query to retrieve one parcel.
// Validates the identifiers and the actor role.
func NewGetParcelQuery(parcelID, actorID kernel.UUID, actorRole account.Role) (GetParcelQuery, error) {
	if err := parcelID.Validate(); err != nil {
		return GetParcelQuery{}, err
	}
	if err := actorID.Validate(); err != nil {
		return GetParcelQuery{}, err
	}
	if err := actorRole.Validate(); err != nil {
		return GetParcelQuery{}, err
	}

	return GetParcelQuery{
		parcelID:  parcelID,
		actorID:   actorID,
		actorRole: actorRole,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetParcelQueryIsNotConstructed if validation fails.
func (q GetParcelQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelQueryIsNotConstructed)
}

// ParcelID returns the identifier of the parcel to load.
func (q GetParcelQuery) ParcelID() kernel.UUID {
	return q.parcelID
}

// ActorID returns the identifier of the requesting user.
func (q GetParcelQuery) ActorID() kernel.UUID {
	return q.actorID
}

// ActorRole returns the role of the requesting user.
func (q GetParcelQuery) ActorRole() account.Role {
	return q.actorRole
}
