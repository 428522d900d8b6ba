package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrCancelParcelCommandIsNotConstructed = errors.New(
		"CancelParcelCommand must be created via NewCancelParcelCommand constructor",
	)
)

// CancelParcelCommand represents a request to cancel a shipment. Senders may
// cancel their own parcels while the cancellation window is open (before
// dispatch); admins may cancel any parcel the transition table permits.
type CancelParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID  kernel.UUID
	actorID   kernel.UUID
	actorRole account.Role
	note      string

	guard guard.ConstructorGuard
}

// NewCancelParcelCommand creates a command to cancel a parcel.
// Validates the identifiers and the actor role.
func NewCancelParcelCommand(
	parcelID kernel.UUID,
	actorID kernel.UUID,
	actorRole account.Role,
	note string,
) (CancelParcelCommand, error) {
	cmd := CancelParcelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setActor(actorID, actorRole),
	); err != nil {
		return CancelParcelCommand{}, err
	}
	cmd.note = note

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelParcelCommandIsNotConstructed if validation fails.
func (c CancelParcelCommand) Validate() error {
	return c.guard.Validate(ErrCancelParcelCommandIsNotConstructed)
}

// ParcelID returns the identifier of the parcel to cancel.
func (c CancelParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// ActorID returns the identifier of the acting user.
func (c CancelParcelCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the role of the acting user.
func (c CancelParcelCommand) ActorRole() account.Role {
	return c.actorRole
}

// Note returns the optional cancellation note for the history entry.
func (c CancelParcelCommand) Note() string {
	return c.note
}

func (c *CancelParcelCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}

	c.parcelID = parcelID
	return nil
}

func (c *CancelParcelCommand) setActor(actorID kernel.UUID, actorRole account.Role) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	if err := actorRole.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	c.actorRole = actorRole
	return nil
}
