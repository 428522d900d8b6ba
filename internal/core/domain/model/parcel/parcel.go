package parcel

import (
	"errors"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

var (
	// ErrParcelIsNotConstructed is returned when a Parcel instance was not
	// created through NewParcel or RestoreParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel")
)

// TransitionAuthorizer decides whether a role may invoke a particular
// transition. It restricts the base transition table, it never expands it;
// the table itself is checked first so the two failure kinds stay distinct.
type TransitionAuthorizer interface {
	// Authorize returns nil if the role may request the (from -> to)
	// transition, or an AccessForbiddenError otherwise.
	Authorize(role account.Role, from, to Status) error
}

// Parcel is the aggregate root of the tracking domain. It owns the status
// state machine, the append-only status history, the denormalized party
// snapshots, and the administrative flags.
//
// Invariants:
//   - History is never truncated or reordered; its last entry's status
//     always equals the current status.
//   - Status changes go through ChangeStatus; no other path mutates the
//     current status.
//   - A blocked or held parcel rejects every status change.
//   - The version increases with every persisted mutation (maintained by
//     the repository) so concurrent writers cannot silently overwrite one
//     another.
type Parcel struct {
	id           kernel.UUID
	trackingID   TrackingID
	senderID     kernel.UUID
	receiverID   *kernel.UUID
	senderInfo   ContactInfo
	receiverInfo ContactInfo
	details      Details
	delivery     DeliveryInfo
	fee          Fee
	status       Status
	history      []StatusLog

	assignedPersonnel string
	isFlagged         bool
	isHeld            bool
	isBlocked         bool

	version   int
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewParcel creates a parcel in Requested status with a single history entry
// attributed to the sender. All invariants are validated; the fee breakdown
// is computed by the caller (fee calculator service) and only stored here.
func NewParcel(
	id kernel.UUID,
	trackingID TrackingID,
	senderID kernel.UUID,
	receiverID *kernel.UUID,
	senderInfo ContactInfo,
	receiverInfo ContactInfo,
	details Details,
	delivery DeliveryInfo,
	fee Fee,
) (*Parcel, error) {
	p := &Parcel{
		status:        StatusRequested,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setTrackingID(trackingID),
		p.setSenderID(senderID),
		p.setReceiverID(receiverID),
		p.setSenderInfo(senderInfo),
		p.setReceiverInfo(receiverInfo),
		p.setDetails(details),
		p.setFee(fee),
	); err != nil {
		return nil, err
	}
	p.delivery = delivery

	p.history = []StatusLog{{
		Status:        StatusRequested,
		Timestamp:     time.Now().UTC(),
		UpdatedBy:     senderID,
		UpdatedByType: account.RoleSender,
		Note:          "Parcel created",
	}}

	return p, nil
}

// RestoreParcel reconstructs a parcel from persistence. It revalidates the
// cross-field invariants so corrupted rows surface as errors instead of
// invalid aggregates.
func RestoreParcel(
	id kernel.UUID,
	trackingID TrackingID,
	senderID kernel.UUID,
	receiverID *kernel.UUID,
	senderInfo ContactInfo,
	receiverInfo ContactInfo,
	details Details,
	delivery DeliveryInfo,
	fee Fee,
	status Status,
	history []StatusLog,
	assignedPersonnel string,
	isFlagged, isHeld, isBlocked bool,
	version int,
	createdAt, updatedAt time.Time,
) (*Parcel, error) {
	p := &Parcel{
		status:            status,
		delivery:          delivery,
		assignedPersonnel: assignedPersonnel,
		isFlagged:         isFlagged,
		isHeld:            isHeld,
		isBlocked:         isBlocked,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
		isConstructed:     true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setTrackingID(trackingID),
		p.setSenderID(senderID),
		p.setReceiverID(receiverID),
		p.setSenderInfo(senderInfo),
		p.setReceiverInfo(receiverInfo),
		p.setDetails(details),
		p.setFee(fee),
	); err != nil {
		return nil, err
	}

	if err := status.Validate(); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("parcel version",
			fmt.Errorf("%d is not a valid version", version))
	}
	if len(history) == 0 {
		return nil, errs.NewValueIsRequiredError("statusHistory")
	}
	if history[len(history)-1].Status != status {
		return nil, errs.NewValueIsInvalidErrorWithCause("statusHistory",
			fmt.Errorf("last history status %s does not match current status %s",
				history[len(history)-1].Status, status))
	}
	p.history = history

	return p, nil
}

// Validate ensures the Parcel instance was properly constructed through
// NewParcel or RestoreParcel.
func (p *Parcel) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrParcelIsNotConstructed
	}
	return nil
}

// IsEqual compares two parcels by their unique identifiers.
func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the parcel's internal unique identifier.
func (p *Parcel) ID() kernel.UUID {
	return p.id
}

// TrackingID returns the immutable human-facing identifier.
func (p *Parcel) TrackingID() TrackingID {
	return p.trackingID
}

// SenderID returns the owning sender account's identifier.
func (p *Parcel) SenderID() kernel.UUID {
	return p.senderID
}

// ReceiverID returns the linked receiver account's identifier, or nil if the
// receiver email matched no registered account at creation time. It is a
// lookup convenience, not an ownership edge; ReceiverInfo is authoritative.
func (p *Parcel) ReceiverID() *kernel.UUID {
	return p.receiverID
}

// SenderInfo returns the sender contact snapshot captured at creation.
func (p *Parcel) SenderInfo() ContactInfo {
	return p.senderInfo
}

// ReceiverInfo returns the receiver contact snapshot captured at creation.
func (p *Parcel) ReceiverInfo() ContactInfo {
	return p.receiverInfo
}

// Details returns the shipment attributes.
func (p *Parcel) Details() Details {
	return p.details
}

// Delivery returns the delivery preferences.
func (p *Parcel) Delivery() DeliveryInfo {
	return p.delivery
}

// Fee returns the stored fee breakdown.
func (p *Parcel) Fee() Fee {
	return p.fee
}

// Status returns the current state-machine state.
func (p *Parcel) Status() Status {
	return p.status
}

// History returns a copy of the append-only status history, oldest first.
func (p *Parcel) History() []StatusLog {
	history := make([]StatusLog, len(p.history))
	copy(history, p.history)
	return history
}

// AssignedPersonnel returns the delivery personnel set by an admin, if any.
func (p *Parcel) AssignedPersonnel() string {
	return p.assignedPersonnel
}

// IsFlagged reports the administrative flagged marker.
func (p *Parcel) IsFlagged() bool {
	return p.isFlagged
}

// IsHeld reports the administrative hold marker.
func (p *Parcel) IsHeld() bool {
	return p.isHeld
}

// IsBlocked reports the administrative block marker.
func (p *Parcel) IsBlocked() bool {
	return p.isBlocked
}

// Version returns the optimistic-concurrency version loaded from storage.
func (p *Parcel) Version() int {
	return p.version
}

// CreatedAt returns the repository-maintained creation instant.
func (p *Parcel) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns the repository-maintained last-update instant.
func (p *Parcel) UpdatedAt() time.Time {
	return p.updatedAt
}

// ChangeStatus applies a role-gated status transition.
//
// Checks run in a fixed order so failures are distinguishable:
//  1. A blocked or held parcel rejects every status change with an
//     ObjectBlockedError, regardless of role or target.
//  2. (current -> target) must be an edge of the transition table, else
//     InvalidTransitionError.
//  3. The authorizer must allow the transition for the actor's role, else
//     AccessForbiddenError.
//
// On success the current status changes and one history entry is appended
// carrying the target status, a server timestamp, the actor, and the
// optional location and note. The aggregate is left untouched on any error.
func (p *Parcel) ChangeStatus(
	auth TransitionAuthorizer,
	target Status,
	actorID kernel.UUID,
	actorRole account.Role,
	location, note string,
) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	if err := actorRole.Validate(); err != nil {
		return err
	}
	if err := p.ensureMutable(); err != nil {
		return err
	}

	newStatus, err := p.status.Transition(target)
	if err != nil {
		return err
	}

	if err := auth.Authorize(actorRole, p.status, target); err != nil {
		return err
	}

	p.status = newStatus
	p.appendHistory(StatusLog{
		Status:        newStatus,
		Timestamp:     time.Now().UTC(),
		UpdatedBy:     actorID,
		UpdatedByType: actorRole,
		Location:      location,
		Note:          note,
	})
	return nil
}

// CanBeCancelled reports whether the sender's cancellation window is still
// open: the window closes at dispatch, and an already-cancelled parcel cannot
// be cancelled again.
func (p *Parcel) CanBeCancelled() error {
	switch p.status {
	case StatusDispatched, StatusInTransit, StatusDelivered:
		return errs.NewValueIsInvalidErrorWithCause("cancel",
			fmt.Errorf("parcel in status %s can no longer be cancelled", p.status))
	case StatusCancelled:
		return errs.NewValueIsInvalidErrorWithCause("cancel",
			errors.New("parcel is already cancelled"))
	default:
		return nil
	}
}

// SetBlocked toggles the administrative block. Blocking appends an audit
// entry; unblocking must keep working on a blocked parcel, so this method
// bypasses ensureMutable.
func (p *Parcel) SetBlocked(blocked bool, actorID kernel.UUID, note string) error {
	return p.setAdminFlag(&p.isBlocked, blocked, actorID, note, "Parcel blocked", "Parcel unblocked")
}

// SetHeld toggles the administrative hold and appends an audit entry.
func (p *Parcel) SetHeld(held bool, actorID kernel.UUID, note string) error {
	return p.setAdminFlag(&p.isHeld, held, actorID, note, "Parcel held", "Parcel hold released")
}

// SetFlagged toggles the review flag and appends an audit entry. Flagged
// parcels still move through the state machine; the flag is informational.
func (p *Parcel) SetFlagged(flagged bool, actorID kernel.UUID, note string) error {
	return p.setAdminFlag(&p.isFlagged, flagged, actorID, note, "Parcel flagged", "Parcel unflagged")
}

// AssignPersonnel records the delivery personnel responsible for the parcel
// and appends an audit entry. Admin-only; enforcement sits in the command
// layer next to the other role checks.
func (p *Parcel) AssignPersonnel(personnel string, actorID kernel.UUID) error {
	if personnel == "" {
		return errs.NewValueIsRequiredError("deliveryPersonnel")
	}
	if err := actorID.Validate(); err != nil {
		return err
	}

	p.assignedPersonnel = personnel
	p.appendHistory(StatusLog{
		Status:        p.status,
		Timestamp:     time.Now().UTC(),
		UpdatedBy:     actorID,
		UpdatedByType: account.RoleAdmin,
		Note:          fmt.Sprintf("Delivery personnel assigned: %s", personnel),
	})
	return nil
}

func (p *Parcel) setAdminFlag(
	flag *bool, value bool, actorID kernel.UUID, note, onNote, offNote string,
) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	*flag = value
	if note == "" {
		note = onNote
		if !value {
			note = offNote
		}
	}
	p.appendHistory(StatusLog{
		Status:        p.status,
		Timestamp:     time.Now().UTC(),
		UpdatedBy:     actorID,
		UpdatedByType: account.RoleAdmin,
		Note:          note,
	})
	return nil
}

// ensureMutable rejects status-changing operations on blocked or held
// parcels. The two cases carry distinguishable causes but the same Blocked
// error kind.
func (p *Parcel) ensureMutable() error {
	if p.isBlocked {
		return errs.NewObjectBlockedError("parcel", p.id.String())
	}
	if p.isHeld {
		return errs.NewObjectBlockedErrorWithCause("parcel", p.id.String(),
			errors.New("parcel is on administrative hold"))
	}
	return nil
}

// appendHistory is the only way history grows. Entries are never removed or
// reordered.
func (p *Parcel) appendHistory(entry StatusLog) {
	p.history = append(p.history, entry)
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setTrackingID(trackingID TrackingID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}
	p.trackingID = trackingID
	return nil
}

func (p *Parcel) setSenderID(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return err
	}
	p.senderID = senderID
	return nil
}

func (p *Parcel) setReceiverID(receiverID *kernel.UUID) error {
	if receiverID != nil {
		if err := receiverID.Validate(); err != nil {
			return err
		}
	}
	p.receiverID = receiverID
	return nil
}

func (p *Parcel) setSenderInfo(info ContactInfo) error {
	if info.Name == "" {
		return errs.NewValueIsRequiredError("senderInfo.name")
	}
	if err := info.Validate(); err != nil {
		return err
	}
	p.senderInfo = info
	return nil
}

func (p *Parcel) setReceiverInfo(info ContactInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	p.receiverInfo = info
	return nil
}

func (p *Parcel) setDetails(details Details) error {
	if err := details.Validate(); err != nil {
		return err
	}
	p.details = details
	return nil
}

func (p *Parcel) setFee(fee Fee) error {
	if err := fee.Validate(); err != nil {
		return err
	}
	p.fee = fee
	return nil
}
