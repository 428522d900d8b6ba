package commands

import (
	"context"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// UpdateParcelStatusCommandHandler handles the business logic for status
// transitions. Loads the parcel and the acting account in one transaction,
// applies the role-gated transition on the aggregate, and persists the result
// with compare-and-swap on the loaded version. A concurrent writer surfaces
// as ConcurrencyConflictError to the caller.
type UpdateParcelStatusCommandHandler struct {
	uowFactory UoWFactory
	authorizer parcel.TransitionAuthorizer
	notifier   ports.Notifier
}

// NewUpdateParcelStatusCommandHandler creates a handler for status transition
// operations.
func NewUpdateParcelStatusCommandHandler(
	uowFactory UoWFactory,
	authorizer parcel.TransitionAuthorizer,
	notifier ports.Notifier,
) UpdateParcelStatusCommandHandler {
	return UpdateParcelStatusCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		notifier:   notifier,
	}
}

// Handle processes the status transition command.
//
// The actor must exist, not be blocked, and still hold the role the command
// claims. Senders may only touch their own parcels; receivers only parcels
// addressed to them. The transition itself is validated by the aggregate:
// table first, then the role policy. The status-changed notification is
// fire-and-forget and runs after commit.
func (h *UpdateParcelStatusCommandHandler) Handle(ctx context.Context, cmd UpdateParcelStatusCommand) error {
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

	from := aggregate.Status()
	if err = aggregate.ChangeStatus(h.authorizer, cmd.Target(),
		actor.ID, actor.Role, cmd.Location(), cmd.Note()); err != nil {
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
		Location:   cmd.Location(),
		Note:       cmd.Note(),
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

// resolveActor loads the acting account and rejects blocked users and role
// claims that no longer match the account store.
func resolveActor(
	ctx context.Context,
	accountRepo ports.AccountRepository,
	actorID kernel.UUID,
	claimedRole account.Role,
) (*account.Account, error) {
	actor, err := accountRepo.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.IsBlocked {
		return nil, errs.NewObjectBlockedError("account", actor.ID.String())
	}
	if actor.Role != claimedRole {
		return nil, errs.NewAccessForbiddenErrorWithCause("role",
			fmt.Errorf("claimed role %s does not match account role %s", claimedRole, actor.Role))
	}
	return actor, nil
}

// ensureActorMayModify enforces parcel ownership: senders act on their own
// parcels, receivers on parcels addressed to them by account link or by
// snapshot email, admins on any parcel.
func ensureActorMayModify(aggregate *parcel.Parcel, actor *account.Account) error {
	switch actor.Role {
	case account.RoleAdmin:
		return nil
	case account.RoleSender:
		if aggregate.SenderID().IsEqual(actor.ID) {
			return nil
		}
	case account.RoleReceiver:
		if aggregate.ReceiverID() != nil && aggregate.ReceiverID().IsEqual(actor.ID) {
			return nil
		}
		if aggregate.ReceiverInfo().Email == actor.Email {
			return nil
		}
	}

	return errs.NewAccessForbiddenErrorWithCause(actor.Role.String(),
		fmt.Errorf("account %s is not a party to parcel %s", actor.ID, aggregate.TrackingID()))
}
