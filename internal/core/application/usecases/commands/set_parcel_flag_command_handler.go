package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
)

// SetParcelFlagCommandHandler handles toggling the administrative markers.
// Admin-only: the acting account must hold the admin role. Toggling works on
// blocked parcels too, otherwise nothing could ever be unblocked.
type SetParcelFlagCommandHandler struct {
	uowFactory UoWFactory
}

// NewSetParcelFlagCommandHandler creates a handler for administrative flag
// operations.
func NewSetParcelFlagCommandHandler(uowFactory UoWFactory) SetParcelFlagCommandHandler {
	return SetParcelFlagCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the flag command. Every toggle appends an audit entry to
// the parcel's history carrying the unchanged current status.
func (h *SetParcelFlagCommandHandler) Handle(ctx context.Context, cmd SetParcelFlagCommand) error {
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

	actor, err := resolveActor(ctx, uow.AccountRepository(), cmd.ActorID(), account.RoleAdmin)
	if err != nil {
		return err
	}

	parcelRepo := uow.ParcelRepository()
	aggregate, err := parcelRepo.Get(ctx, cmd.ParcelID())
	if err != nil {
		return err
	}

	if err = applyFlag(aggregate, cmd, actor.ID); err != nil {
		return err
	}

	if err = parcelRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func applyFlag(aggregate *parcel.Parcel, cmd SetParcelFlagCommand, actorID kernel.UUID) error {
	switch cmd.Kind() {
	case FlagKindBlocked:
		return aggregate.SetBlocked(cmd.Value(), actorID, cmd.Note())
	case FlagKindHeld:
		return aggregate.SetHeld(cmd.Value(), actorID, cmd.Note())
	case FlagKindFlagged:
		return aggregate.SetFlagged(cmd.Value(), actorID, cmd.Note())
	default:
		return errs.NewValueIsInvalidError("flag")
	}
}
