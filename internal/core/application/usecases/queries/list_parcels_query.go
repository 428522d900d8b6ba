package queries

import (
	"errors"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrListParcelsQueryIsNotConstructed = errors.New(
		"ListParcelsQuery must be created via NewListParcelsQuery constructor",
	)
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListParcelsQuery retrieves a page of parcel summaries, newest first.
//
// The visible set is role-scoped: senders see their own parcels, receivers
// the parcels addressed to them, admins everything. Any caller may filter by
// status, urgency, and creation window; the administrative markers are admin
// filters.
type ListParcelsQuery struct {
	actorID    kernel.UUID
	actorRole  account.Role
	actorEmail string

	status      *parcel.Status
	urgent      *bool
	createdFrom *time.Time
	createdTo   *time.Time
	flagged     *bool
	held        *bool
	blocked     *bool

	page     int
	pageSize int

	guard guard.ConstructorGuard
}

// NewListParcelsQuery creates a paged listing query. Page numbers are
// 1-based; a zero pageSize selects the default, oversized requests are
// capped.
func NewListParcelsQuery(
	actorID kernel.UUID,
	actorRole account.Role,
	actorEmail string,
	page, pageSize int,
) (ListParcelsQuery, error) {
	if err := actorID.Validate(); err != nil {
		return ListParcelsQuery{}, err
	}
	if err := actorRole.Validate(); err != nil {
		return ListParcelsQuery{}, err
	}
	if page < 1 {
		return ListParcelsQuery{}, errs.NewValueIsOutOfRangeError("page", page, 1, nil)
	}
	if pageSize < 0 {
		return ListParcelsQuery{}, errs.NewValueIsOutOfRangeError("pageSize", pageSize, 0, maxPageSize)
	}

	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return ListParcelsQuery{
		actorID:    actorID,
		actorRole:  actorRole,
		actorEmail: actorEmail,
		page:       page,
		pageSize:   pageSize,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrListParcelsQueryIsNotConstructed if validation fails.
func (q ListParcelsQuery) Validate() error {
	return q.guard.Validate(ErrListParcelsQueryIsNotConstructed)
}

// WithStatus restricts the listing to one status.
func (q ListParcelsQuery) WithStatus(status parcel.Status) (ListParcelsQuery, error) {
	if err := status.Validate(); err != nil {
		return ListParcelsQuery{}, err
	}

	q.status = &status
	return q, nil
}

// WithUrgent restricts the listing by express handling.
func (q ListParcelsQuery) WithUrgent(urgent bool) ListParcelsQuery {
	q.urgent = &urgent
	return q
}

// WithCreatedBetween restricts the listing to parcels created inside the
// given window. A zero bound leaves that end open.
func (q ListParcelsQuery) WithCreatedBetween(from, to time.Time) (ListParcelsQuery, error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return ListParcelsQuery{}, errs.NewValueIsInvalidErrorWithCause("createdRange",
			fmt.Errorf("from %s is after to %s", from.Format(time.RFC3339), to.Format(time.RFC3339)))
	}

	if !from.IsZero() {
		q.createdFrom = &from
	}
	if !to.IsZero() {
		q.createdTo = &to
	}
	return q, nil
}

// WithFlagged restricts the listing by the review flag. Admin filter.
func (q ListParcelsQuery) WithFlagged(flagged bool) ListParcelsQuery {
	q.flagged = &flagged
	return q
}

// WithHeld restricts the listing by the hold marker. Admin filter.
func (q ListParcelsQuery) WithHeld(held bool) ListParcelsQuery {
	q.held = &held
	return q
}

// WithBlocked restricts the listing by the block marker. Admin filter.
func (q ListParcelsQuery) WithBlocked(blocked bool) ListParcelsQuery {
	q.blocked = &blocked
	return q
}

// ActorID returns the identifier of the requesting user.
func (q ListParcelsQuery) ActorID() kernel.UUID {
	return q.actorID
}

// ActorRole returns the role of the requesting user.
func (q ListParcelsQuery) ActorRole() account.Role {
	return q.actorRole
}

// ActorEmail returns the email of the requesting user, used to match
// receiver snapshots.
func (q ListParcelsQuery) ActorEmail() string {
	return q.actorEmail
}

// Status returns the optional status filter.
func (q ListParcelsQuery) Status() *parcel.Status {
	return q.status
}

// Urgent returns the optional express-handling filter.
func (q ListParcelsQuery) Urgent() *bool {
	return q.urgent
}

// CreatedFrom returns the optional lower creation-time bound.
func (q ListParcelsQuery) CreatedFrom() *time.Time {
	return q.createdFrom
}

// CreatedTo returns the optional upper creation-time bound.
func (q ListParcelsQuery) CreatedTo() *time.Time {
	return q.createdTo
}

// Flagged returns the optional review-flag filter.
func (q ListParcelsQuery) Flagged() *bool {
	return q.flagged
}

// Held returns the optional hold filter.
func (q ListParcelsQuery) Held() *bool {
	return q.held
}

// Blocked returns the optional block filter.
func (q ListParcelsQuery) Blocked() *bool {
	return q.blocked
}

// Page returns the 1-based page number.
func (q ListParcelsQuery) Page() int {
	return q.page
}

// PageSize returns the page size after defaulting and capping.
func (q ListParcelsQuery) PageSize() int {
	return q.pageSize
}

// ListParcelsItem is one row of the listing: the summary a dashboard needs
// without the history or the full contact snapshots.
type ListParcelsItem struct {
	ID            kernel.UUID
	TrackingID    string
	Status        parcel.Status
	SenderEmail   string
	ReceiverEmail string
	Type          parcel.ParcelType
	IsUrgent      bool
	FeeTotal      float64
	CreatedAt     time.Time
}

// ListParcelsQueryResponse is one page of parcel summaries plus the total
// match count for pagination.
type ListParcelsQueryResponse struct {
	Items []ListParcelsItem
	Total int64
}
