package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrUpdateParcelStatusCommandIsNotConstructed = errors.New(
		"UpdateParcelStatusCommand must be created via NewUpdateParcelStatusCommand constructor",
	)
)

// UpdateParcelStatusCommand represents a request to move a parcel to a new
// status. The actor identity and role decide whether the transition is
// permitted; location and note are optional history annotations.
type UpdateParcelStatusCommand struct { //nolint:recvcheck //using for validation
	parcelID  kernel.UUID
	target    parcel.Status
	actorID   kernel.UUID
	actorRole account.Role
	location  string
	note      string

	guard guard.ConstructorGuard
}

// NewUpdateParcelStatusCommand creates a command to change a parcel's status.
// Validates the identifiers, the target status, and the actor role.
func NewUpdateParcelStatusCommand(
	parcelID kernel.UUID,
	target parcel.Status,
	actorID kernel.UUID,
	actorRole account.Role,
	location, note string,
) (UpdateParcelStatusCommand, error) {
	cmd := UpdateParcelStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setTarget(target),
		cmd.setActor(actorID, actorRole),
	); err != nil {
		return UpdateParcelStatusCommand{}, err
	}
	cmd.location = location
	cmd.note = note

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateParcelStatusCommandIsNotConstructed if validation fails.
func (c UpdateParcelStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateParcelStatusCommandIsNotConstructed)
}

// ParcelID returns the identifier of the parcel to update.
func (c UpdateParcelStatusCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// Target returns the requested status.
func (c UpdateParcelStatusCommand) Target() parcel.Status {
	return c.target
}

// ActorID returns the identifier of the acting user.
func (c UpdateParcelStatusCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the role of the acting user.
func (c UpdateParcelStatusCommand) ActorRole() account.Role {
	return c.actorRole
}

// Location returns the optional location annotation for the history entry.
func (c UpdateParcelStatusCommand) Location() string {
	return c.location
}

// Note returns the optional note for the history entry.
func (c UpdateParcelStatusCommand) Note() string {
	return c.note
}

func (c *UpdateParcelStatusCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}

	c.parcelID = parcelID
	return nil
}

func (c *UpdateParcelStatusCommand) setTarget(target parcel.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *UpdateParcelStatusCommand) setActor(actorID kernel.UUID, actorRole account.Role) error {
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
