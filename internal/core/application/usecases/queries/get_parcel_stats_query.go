package queries

import (
	"errors"

	"parceltrack/internal/pkg/guard"
)

var (
	ErrGetParcelStatsQueryIsNotConstructed = errors.New(
		"GetParcelStatsQuery must be created via NewGetParcelStatsQuery constructor",
	)
)

// GetParcelStatsQuery retrieves aggregate shipment statistics for the admin
// dashboard. The numbers are a point-in-time snapshot of the parcel store.
type GetParcelStatsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetParcelStatsQuery creates a query to compute parcel statistics.
// This is a parameterless query; access control sits at the API layer.
func NewGetParcelStatsQuery() GetParcelStatsQuery {
	return GetParcelStatsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetParcelStatsQueryIsNotConstructed if validation fails.
func (q GetParcelStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelStatsQueryIsNotConstructed)
}

// GetParcelStatsQueryResponse carries the aggregate counters computed in a
// single pass over the parcel store.
type GetParcelStatsQueryResponse struct {
	Total      int64
	Requested  int64
	Approved   int64
	Dispatched int64
	InTransit  int64
	Delivered  int64
	Cancelled  int64
	Returned   int64

	Flagged int64
	Held    int64
	Blocked int64
	Urgent  int64

	TotalFees float64
}
