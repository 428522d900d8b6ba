package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/account"
)

// AssignPersonnelCommandHandler records delivery personnel on a parcel.
// Admin-only; the assignment appends an audit entry to the history.
type AssignPersonnelCommandHandler struct {
	uowFactory UoWFactory
}

// NewAssignPersonnelCommandHandler creates a handler for personnel assignment
// operations.
func NewAssignPersonnelCommandHandler(uowFactory UoWFactory) AssignPersonnelCommandHandler {
	return AssignPersonnelCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the personnel assignment command.
func (h *AssignPersonnelCommandHandler) Handle(ctx context.Context, cmd AssignPersonnelCommand) error {
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

	if err = aggregate.AssignPersonnel(cmd.Personnel(), actor.ID); err != nil {
		return err
	}

	if err = parcelRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
