package queries

import (
	"context"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
)

// GetParcelByTrackingIDQueryHandler resolves public tracking lookups.
type GetParcelByTrackingIDQueryHandler struct {
	parcelRepo ports.ParcelRepository
}

// NewGetParcelByTrackingIDQueryHandler creates a handler for tracking
// lookups.
func NewGetParcelByTrackingIDQueryHandler(parcelRepo ports.ParcelRepository) GetParcelByTrackingIDQueryHandler {
	return GetParcelByTrackingIDQueryHandler{parcelRepo: parcelRepo}
}

// Handle executes the lookup. Returns ObjectNotFoundError when no parcel
// carries the tracking ID.
func (h GetParcelByTrackingIDQueryHandler) Handle(
	ctx context.Context,
	query GetParcelByTrackingIDQuery,
) (*parcel.Parcel, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.parcelRepo.GetByTrackingID(ctx, query.TrackingID())
}
