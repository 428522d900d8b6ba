package commands

import (
	"context"
	"time"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
)

// CancelParcelCommandHandler handles shipment cancellation. It is a
// specialized status transition: the cancellation window check runs before
// the generic transition machinery so callers get a precise error when the
// window has closed, rather than a generic transition failure.
type CancelParcelCommandHandler struct {
	uowFactory UoWFactory
	authorizer parcel.TransitionAuthorizer
	notifier   ports.Notifier
}

// NewCancelParcelCommandHandler creates a handler for cancellation
// operations.
func NewCancelParcelCommandHandler(
	uowFactory UoWFactory,
	authorizer parcel.TransitionAuthorizer,
	notifier ports.Notifier,
) CancelParcelCommandHandler {
	return CancelParcelCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		notifier:   notifier,
	}
}

// Handle processes the cancellation command.
//
// The actor must exist, not be blocked, and be the parcel's sender or an
// admin; receivers cannot cancel. The window check (not yet dispatched, not
// already cancelled) runs first, then the transition applies through the
// aggregate like any other status change.
func (h *CancelParcelCommandHandler) Handle(ctx context.Context, cmd CancelParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actor, err := resolveActor(ctx, uow.AccountRepository(), cmd.ActorID(), cmd.ActorRole())
	if err != nil {
		return err
	}

	parcelRepo := uow.ParcelRepository()
	aggregate, err := parcelRepo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return err
	}

	if err = ensureActorMayModify(aggregate, actor); err != nil {
		return err
	}

	if err = aggregate.CanBeCancelled(); err != nil {
		return err
	}

	from := aggregate.Status()
	note := cmd.Note()
	if note == "" {
		note = "Parcel cancelled"
	}

	if err = aggregate.ChangeStatus(h.authorizer, parcel.StatusCancelled,
		actor.ID, actor.Role, "", note); err != nil {
		return err
	}

	if err = parcelRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.NotifyStatusChanged(ctx, ports.StatusChangedEvent{
		ParcelID:   aggregate.ID().String(),
		TrackingID: aggregate.TrackingID().String(),
		From:       from.String(),
		To:         aggregate.Status().String(),
		ActorID:    actor.ID.String(),
		ActorRole:  actor.Role.String(),
		Note:       note,
		OccurredAt: time.Now().UTC(),
	})

	return nil
}
