package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// maxTrackingIDAttempts bounds the regeneration loop when a generated
// tracking ID collides with an existing parcel. With a 36^6 suffix space one
// retry is already rare; three failed attempts indicate a storage problem.
const maxTrackingIDAttempts = 3

// CreateParcelCommandHandler handles the business logic for parcel creation.
//
// The sender lookup, the receiver-by-email lookup, and the parcel insert run
// inside one transaction: either the parcel exists with both references
// resolved, or nothing was written. A tracking ID collision aborts the
// attempt and retries with a fresh ID.
type CreateParcelCommandHandler struct {
	uowFactory    UoWFactory
	feeCalculator services.FeeCalculator
	notifier      ports.Notifier
}

// NewCreateParcelCommandHandler creates a handler for parcel creation
// operations. Requires a UoWFactory spanning parcels and accounts, the fee
// calculator, and a notifier for the created event.
func NewCreateParcelCommandHandler(
	uowFactory UoWFactory,
	feeCalculator services.FeeCalculator,
	notifier ports.Notifier,
) CreateParcelCommandHandler {
	return CreateParcelCommandHandler{
		uowFactory:    uowFactory,
		feeCalculator: feeCalculator,
		notifier:      notifier,
	}
}

// Handle processes the parcel creation command and returns the assigned
// tracking ID.
//
// The sender must exist, hold the sender role, and not be blocked. The
// receiver is linked by email when a registered account carries it; a blocked
// account fails the creation, and with no match the contact snapshot alone
// identifies the receiver. The notification is fire-and-forget and runs after
// commit.
func (h *CreateParcelCommandHandler) Handle(ctx context.Context, cmd CreateParcelCommand) (parcel.TrackingID, error) {
	if err := cmd.Validate(); err != nil {
		return parcel.TrackingID{}, err
	}

	fee, err := h.feeCalculator.Calculate(cmd.Details(), cmd.Delivery(), cmd.PaymentMethod())
	if err != nil {
		return parcel.TrackingID{}, err
	}

	var lastErr error
	for range maxTrackingIDAttempts {
		trackingID := parcel.NewTrackingID(time.Now().UTC())

		created, err := h.attempt(ctx, cmd, trackingID, fee)
		if err == nil {
			h.notifier.NotifyParcelCreated(ctx, ports.ParcelCreatedEvent{
				ParcelID:   created.ID().String(),
				TrackingID: created.TrackingID().String(),
				SenderID:   created.SenderID().String(),
				Receiver:   created.ReceiverInfo().Email,
				OccurredAt: time.Now().UTC(),
			})
			return trackingID, nil
		}

		lastErr = err
		if !errors.Is(err, errs.ErrObjectAlreadyExists) {
			return parcel.TrackingID{}, err
		}
	}

	return parcel.TrackingID{}, lastErr
}

// attempt runs one full transactional creation try with the given tracking
// ID. A duplicate-key failure aborts the whole transaction, so the retry
// starts over with fresh lookups instead of re-inserting into an aborted one.
func (h *CreateParcelCommandHandler) attempt(
	ctx context.Context,
	cmd CreateParcelCommand,
	trackingID parcel.TrackingID,
	fee parcel.Fee,
) (*parcel.Parcel, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	accountRepo := uow.AccountRepository()

	sender, err := accountRepo.Get(ctx, cmd.SenderID())
	if err != nil {
		return nil, err
	}
	if sender.IsBlocked {
		return nil, errs.NewObjectBlockedError("account", sender.ID.String())
	}
	if sender.Role != account.RoleSender {
		return nil, errs.NewAccessForbiddenError("only senders may create parcels")
	}

	receiverID, err := h.resolveReceiver(ctx, accountRepo, cmd.ReceiverInfo().Email)
	if err != nil {
		return nil, err
	}

	senderInfo := parcel.ContactInfo{
		Name:    sender.Name,
		Email:   sender.Email,
		Phone:   sender.Phone,
		Address: sender.Address,
	}

	aggregate, err := parcel.NewParcel(
		cmd.ParcelID(),
		trackingID,
		sender.ID,
		receiverID,
		senderInfo,
		cmd.ReceiverInfo(),
		cmd.Details(),
		cmd.Delivery(),
		fee,
	)
	if err != nil {
		return nil, err
	}

	if err = uow.ParcelRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}

// resolveReceiver links the parcel to a registered account when one carries
// the receiver email, whatever its role. No match is not an error; the parcel
// is then addressed by its contact snapshot alone. A blocked account rejects
// the creation outright: it must never be linked.
func (h *CreateParcelCommandHandler) resolveReceiver(
	ctx context.Context,
	accountRepo ports.AccountRepository,
	email string,
) (*kernel.UUID, error) {
	receiver, err := accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if receiver.IsBlocked {
		return nil, errs.NewValueIsInvalidErrorWithCause("receiver",
			fmt.Errorf("receiver account %s is blocked", receiver.ID))
	}

	id := receiver.ID
	return &id, nil
}
