package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetParcelStatsQueryHandler computes the admin statistics in one SQL pass
// using filtered aggregates, so the counters are consistent with each other
// regardless of concurrent writes.
type GetParcelStatsQueryHandler struct {
	db *gorm.DB
}

// NewGetParcelStatsQueryHandler creates a handler for statistics queries.
// Requires a GORM database connection for query execution.
func NewGetParcelStatsQueryHandler(db *gorm.DB) GetParcelStatsQueryHandler {
	return GetParcelStatsQueryHandler{db: db}
}

// Handle executes the statistics query.
func (h GetParcelStatsQueryHandler) Handle(
	ctx context.Context,
	query GetParcelStatsQuery,
) (GetParcelStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetParcelStatsQueryResponse{}, err
	}

	var stats GetParcelStatsQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'requested'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'dispatched'),
			COUNT(*) FILTER (WHERE status = 'in-transit'),
			COUNT(*) FILTER (WHERE status = 'delivered'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*) FILTER (WHERE status = 'returned'),
			COUNT(*) FILTER (WHERE is_flagged),
			COUNT(*) FILTER (WHERE is_held),
			COUNT(*) FILTER (WHERE is_blocked),
			COUNT(*) FILTER (WHERE delivery_is_urgent),
			COALESCE(SUM(fee_total), 0)
		FROM parcels
	`).Row()

	err := row.Scan(
		&stats.Total,
		&stats.Requested,
		&stats.Approved,
		&stats.Dispatched,
		&stats.InTransit,
		&stats.Delivered,
		&stats.Cancelled,
		&stats.Returned,
		&stats.Flagged,
		&stats.Held,
		&stats.Blocked,
		&stats.Urgent,
		&stats.TotalFees,
	)
	if err != nil {
		return GetParcelStatsQueryResponse{}, err
	}

	return stats, nil
}
