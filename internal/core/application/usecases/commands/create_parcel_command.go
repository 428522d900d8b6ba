package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrCreateParcelCommandIsNotConstructed = errors.New(
		"CreateParcelCommand must be created via NewCreateParcelCommand constructor",
	)
)

// CreateParcelCommand represents a sender's request to ship a parcel.
// Encapsulates the receiver contact snapshot, the shipment details, the
// delivery preferences, and the payment method. The tracking ID is generated
// by the handler, not supplied by the caller.
//
// Example:
//
//	cmd, err := NewCreateParcelCommand(parcelID, senderID, receiverInfo, details, delivery, parcel.PaymentCash)
//	if err != nil {
//	    return fmt.Errorf("invalid parcel data: %w", err)
//	}
//
//	trackingID, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create parcel: %w", err)
//	}
//	fmt.Printf("Parcel registered as %s", trackingID)
type CreateParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID      kernel.UUID
	senderID      kernel.UUID
	receiverInfo  parcel.ContactInfo
	details       parcel.Details
	delivery      parcel.DeliveryInfo
	paymentMethod parcel.PaymentMethod

	guard guard.ConstructorGuard
}

// NewCreateParcelCommand creates a command to register a new parcel.
// Validates the identifiers, the receiver snapshot, and the shipment details.
// Returns an error if any validation fails.
func NewCreateParcelCommand(
	parcelID kernel.UUID,
	senderID kernel.UUID,
	receiverInfo parcel.ContactInfo,
	details parcel.Details,
	delivery parcel.DeliveryInfo,
	paymentMethod parcel.PaymentMethod,
) (CreateParcelCommand, error) {
	cmd := CreateParcelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setSenderID(senderID),
		cmd.setReceiverInfo(receiverInfo),
		cmd.setDetails(details),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateParcelCommand{}, err
	}
	cmd.delivery = delivery

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateParcelCommandIsNotConstructed if validation fails.
func (c CreateParcelCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelCommandIsNotConstructed)
}

// ParcelID returns the unique identifier for the new parcel.
func (c CreateParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// SenderID returns the identifier of the sender account.
func (c CreateParcelCommand) SenderID() kernel.UUID {
	return c.senderID
}

// ReceiverInfo returns the receiver contact snapshot.
func (c CreateParcelCommand) ReceiverInfo() parcel.ContactInfo {
	return c.receiverInfo
}

// Details returns the shipment attributes.
func (c CreateParcelCommand) Details() parcel.Details {
	return c.details
}

// Delivery returns the delivery preferences.
func (c CreateParcelCommand) Delivery() parcel.DeliveryInfo {
	return c.delivery
}

// PaymentMethod returns how the delivery fee is settled.
func (c CreateParcelCommand) PaymentMethod() parcel.PaymentMethod {
	return c.paymentMethod
}

func (c *CreateParcelCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}

	c.parcelID = parcelID
	return nil
}

func (c *CreateParcelCommand) setSenderID(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return err
	}

	c.senderID = senderID
	return nil
}

func (c *CreateParcelCommand) setReceiverInfo(info parcel.ContactInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	c.receiverInfo = info
	return nil
}

func (c *CreateParcelCommand) setDetails(details parcel.Details) error {
	if err := details.Validate(); err != nil {
		return err
	}

	c.details = details
	return nil
}

func (c *CreateParcelCommand) setPaymentMethod(method parcel.PaymentMethod) error {
	switch method {
	case parcel.PaymentUnspecified, parcel.PaymentCash, parcel.PaymentCard, parcel.PaymentOnline:
		c.paymentMethod = method
		return nil
	default:
		return errs.NewValueIsInvalidError("paymentMethod")
	}
}
