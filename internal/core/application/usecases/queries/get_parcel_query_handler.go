package queries

import (
	"context"
	"fmt"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// GetParcelQueryHandler loads one parcel through the repository so the
// response carries the reconstructed aggregate with its complete history.
type GetParcelQueryHandler struct {
	parcelRepo  ports.ParcelRepository
	accountRepo ports.AccountRepository
}

// NewGetParcelQueryHandler creates a handler for single-parcel reads.
func NewGetParcelQueryHandler(
	parcelRepo ports.ParcelRepository,
	accountRepo ports.AccountRepository,
) GetParcelQueryHandler {
	return GetParcelQueryHandler{
		parcelRepo:  parcelRepo,
		accountRepo: accountRepo,
	}
}

// Handle executes the query. Existence is not revealed to strangers: an
// access failure and a missing parcel both leave the caller without the
// record, but they return distinct error kinds (Forbidden vs NotFound) for
// parties who are allowed to know.
func (h GetParcelQueryHandler) Handle(ctx context.Context, query GetParcelQuery) (*parcel.Parcel, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := h.parcelRepo.Get(ctx, query.ParcelID())
	if err != nil {
		return nil, err
	}

	if err = h.ensureActorMayRead(ctx, aggregate, query); err != nil {
		return nil, err
	}

	return aggregate, nil
}

func (h GetParcelQueryHandler) ensureActorMayRead(
	ctx context.Context,
	aggregate *parcel.Parcel,
	query GetParcelQuery,
) error {
	switch query.ActorRole() {
	case account.RoleAdmin:
		return nil
	case account.RoleSender:
		if aggregate.SenderID().IsEqual(query.ActorID()) {
			return nil
		}
	case account.RoleReceiver:
		if aggregate.ReceiverID() != nil && aggregate.ReceiverID().IsEqual(query.ActorID()) {
			return nil
		}
		// Fall back to the snapshot email for receivers who registered
		// after the parcel was created.
		actor, err := h.accountRepo.Get(ctx, query.ActorID())
		if err != nil {
			return err
		}
		if aggregate.ReceiverInfo().Email == actor.Email {
			return nil
		}
	}

	return errs.NewAccessForbiddenErrorWithCause(query.ActorRole().String(),
		fmt.Errorf("account %s is not a party to parcel %s",
			query.ActorID(), aggregate.TrackingID()))
}
