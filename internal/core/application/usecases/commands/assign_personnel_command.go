package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrAssignPersonnelCommandIsNotConstructed = errors.New(
		"AssignPersonnelCommand must be created via NewAssignPersonnelCommand constructor",
	)
)

// AssignPersonnelCommand represents an admin request to record the delivery
// personnel responsible for a parcel.
type AssignPersonnelCommand struct { //nolint:recvcheck //using for validation
	parcelID  kernel.UUID
	personnel string
	actorID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignPersonnelCommand creates a command to assign delivery personnel.
// Validates the identifiers and requires a non-empty personnel name.
func NewAssignPersonnelCommand(
	parcelID kernel.UUID,
	personnel string,
	actorID kernel.UUID,
) (AssignPersonnelCommand, error) {
	cmd := AssignPersonnelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setPersonnel(personnel),
		cmd.setActorID(actorID),
	); err != nil {
		return AssignPersonnelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignPersonnelCommandIsNotConstructed if validation fails.
func (c AssignPersonnelCommand) Validate() error {
	return c.guard.Validate(ErrAssignPersonnelCommandIsNotConstructed)
}

// ParcelID returns the identifier of the parcel to update.
func (c AssignPersonnelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// Personnel returns the name of the delivery personnel.
func (c AssignPersonnelCommand) Personnel() string {
	return c.personnel
}

// ActorID returns the identifier of the acting admin.
func (c AssignPersonnelCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c *AssignPersonnelCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}

	c.parcelID = parcelID
	return nil
}

func (c *AssignPersonnelCommand) setPersonnel(personnel string) error {
	if personnel == "" {
		return errs.NewValueIsRequiredError("deliveryPersonnel")
	}

	c.personnel = personnel
	return nil
}

func (c *AssignPersonnelCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}
