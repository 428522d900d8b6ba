package queries

import (
	"context"
	"fmt"
	"strings"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListParcelsQueryHandler pages through parcel summaries with direct SQL for
// optimal read performance in the CQRS pattern. Results are ordered newest
// first.
type ListParcelsQueryHandler struct {
	db *gorm.DB
}

// NewListParcelsQueryHandler creates a handler for parcel listing queries.
// Requires a GORM database connection for query execution.
func NewListParcelsQueryHandler(db *gorm.DB) ListParcelsQueryHandler {
	return ListParcelsQueryHandler{db: db}
}

// Handle executes the listing query. The total count and the page rows run
// against the same filter set, so pagination stays consistent with the
// filters applied.
func (h ListParcelsQueryHandler) Handle(
	ctx context.Context,
	query ListParcelsQuery,
) (ListParcelsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListParcelsQueryResponse{}, err
	}

	where, args := buildListFilter(query)

	var total int64
	countSQL := "SELECT COUNT(*) FROM parcels" + where
	if err := h.db.WithContext(ctx).Raw(countSQL, args...).Scan(&total).Error; err != nil {
		return ListParcelsQueryResponse{}, err
	}

	pageSQL := fmt.Sprintf(`
		SELECT
			id,
			tracking_id,
			status,
			sender_email,
			receiver_email,
			parcel_type,
			delivery_is_urgent,
			fee_total,
			created_at
		FROM parcels%s
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, where)
	pageArgs := append(args, query.PageSize(), (query.Page()-1)*query.PageSize())

	rows, err := h.db.WithContext(ctx).Raw(pageSQL, pageArgs...).Rows()
	if err != nil {
		return ListParcelsQueryResponse{}, err
	}
	defer rows.Close()

	items := make([]ListParcelsItem, 0, query.PageSize())

	for rows.Next() {
		var item ListParcelsItem
		var id uuid.UUID
		var status, parcelType string

		err = rows.Scan(
			&id,
			&item.TrackingID,
			&status,
			&item.SenderEmail,
			&item.ReceiverEmail,
			&parcelType,
			&item.IsUrgent,
			&item.FeeTotal,
			&item.CreatedAt,
		)
		if err != nil {
			return ListParcelsQueryResponse{}, err
		}

		parcelID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return ListParcelsQueryResponse{}, idErr
		}
		item.ID = parcelID

		item.Status, err = parcel.StatusFromString(status)
		if err != nil {
			return ListParcelsQueryResponse{}, err
		}

		item.Type, err = parcel.ParcelTypeFromString(parcelType)
		if err != nil {
			return ListParcelsQueryResponse{}, err
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return ListParcelsQueryResponse{}, err
	}

	return ListParcelsQueryResponse{Items: items, Total: total}, nil
}

// buildListFilter assembles the WHERE clause for the role scope and the
// optional filters. Both the count and the page query share its output.
func buildListFilter(query ListParcelsQuery) (string, []any) {
	var clauses []string
	var args []any

	switch query.ActorRole() {
	case account.RoleSender:
		clauses = append(clauses, "sender_id = ?")
		args = append(args, query.ActorID().String())
	case account.RoleReceiver:
		clauses = append(clauses, "(receiver_id = ? OR receiver_email = ?)")
		args = append(args, query.ActorID().String(), query.ActorEmail())
	case account.RoleAdmin:
		// admins see everything
	}

	if status := query.Status(); status != nil {
		clauses = append(clauses, "status = ?")
		args = append(args, status.String())
	}
	if urgent := query.Urgent(); urgent != nil {
		clauses = append(clauses, "delivery_is_urgent = ?")
		args = append(args, *urgent)
	}
	if from := query.CreatedFrom(); from != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, *from)
	}
	if to := query.CreatedTo(); to != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, *to)
	}
	if flagged := query.Flagged(); flagged != nil {
		clauses = append(clauses, "is_flagged = ?")
		args = append(args, *flagged)
	}
	if held := query.Held(); held != nil {
		clauses = append(clauses, "is_held = ?")
		args = append(args, *held)
	}
	if blocked := query.Blocked(); blocked != nil {
		clauses = append(clauses, "is_blocked = ?")
		args = append(args, *blocked)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
