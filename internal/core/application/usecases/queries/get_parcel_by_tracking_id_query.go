package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrGetParcelByTrackingIDQueryIsNotConstructed = errors.New(
		"GetParcelByTrackingIDQuery must be created via NewGetParcelByTrackingIDQuery constructor",
	)
)

// GetParcelByTrackingIDQuery retrieves a parcel by its human-facing tracking
// identifier. Tracking is unauthenticated: whoever holds the tracking ID may
// follow the shipment, like on a carrier's public tracking page.
type GetParcelByTrackingIDQuery struct {
	trackingID parcel.TrackingID

	guard guard.ConstructorGuard
}

// NewGetParcelByTrackingIDQuery creates a query to look up a parcel by
// tracking ID.
func NewGetParcelByTrackingIDQuery(trackingID parcel.TrackingID) (GetParcelByTrackingIDQuery, error) {
	if err := trackingID.Validate(); err != nil {
		return GetParcelByTrackingIDQuery{}, err
	}

	return GetParcelByTrackingIDQuery{
		trackingID: trackingID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetParcelByTrackingIDQueryIsNotConstructed if validation fails.
func (q GetParcelByTrackingIDQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelByTrackingIDQueryIsNotConstructed)
}

// TrackingID returns the tracking identifier to look up.
func (q GetParcelByTrackingIDQuery) TrackingID() parcel.TrackingID {
	return q.trackingID
}
