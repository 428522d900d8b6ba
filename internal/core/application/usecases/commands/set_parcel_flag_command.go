package commands

import (
	"errors"
	"fmt"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrSetParcelFlagCommandIsNotConstructed = errors.New(
		"SetParcelFlagCommand must be created via NewSetParcelFlagCommand constructor",
	)
)

// FlagKind selects which administrative marker a SetParcelFlagCommand
// toggles.
type FlagKind int

const (
	// FlagKindUnknown represents an invalid or undefined flag kind.
	FlagKindUnknown FlagKind = iota

	// FlagKindBlocked freezes the parcel entirely; every status change is
	// rejected until unblocked.
	FlagKindBlocked

	// FlagKindHeld pauses the parcel; status changes are rejected until the
	// hold is released.
	FlagKindHeld

	// FlagKindFlagged marks the parcel for review without affecting the
	// state machine.
	FlagKindFlagged
)

func getFlagKindStrings() map[FlagKind]string {
	return map[FlagKind]string{
		FlagKindUnknown: "unknown",
		FlagKindBlocked: "blocked",
		FlagKindHeld:    "held",
		FlagKindFlagged: "flagged",
	}
}

// FlagKindFromString parses the wire form of a flag kind.
func FlagKindFromString(s string) (FlagKind, error) {
	for kind, str := range getFlagKindStrings() {
		if kind != FlagKindUnknown && str == s {
			return kind, nil
		}
	}
	return FlagKindUnknown, errs.NewValueIsInvalidErrorWithCause("flag",
		fmt.Errorf("%q is not a valid flag kind", s))
}

// Validate rejects FlagKindUnknown and out-of-range values.
func (k FlagKind) Validate() error {
	if k == FlagKindUnknown {
		return errs.NewValueIsInvalidErrorWithCause("flag",
			fmt.Errorf("%d is not a valid flag kind", k))
	}
	if _, ok := getFlagKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("flag",
			fmt.Errorf("%d is not a valid flag kind", k))
	}
	return nil
}

// String returns the wire form of the flag kind.
func (k FlagKind) String() string {
	if str, ok := getFlagKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

// SetParcelFlagCommand represents an admin request to toggle one of the
// administrative markers (blocked, held, flagged) on a parcel.
type SetParcelFlagCommand struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID
	kind     FlagKind
	value    bool
	actorID  kernel.UUID
	note     string

	guard guard.ConstructorGuard
}

// NewSetParcelFlagCommand creates a command to toggle an administrative flag.
// Validates the identifiers and the flag kind.
func NewSetParcelFlagCommand(
	parcelID kernel.UUID,
	kind FlagKind,
	value bool,
	actorID kernel.UUID,
	note string,
) (SetParcelFlagCommand, error) {
	cmd := SetParcelFlagCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setKind(kind),
		cmd.setActorID(actorID),
	); err != nil {
		return SetParcelFlagCommand{}, err
	}
	cmd.value = value
	cmd.note = note

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSetParcelFlagCommandIsNotConstructed if validation fails.
func (c SetParcelFlagCommand) Validate() error {
	return c.guard.Validate(ErrSetParcelFlagCommandIsNotConstructed)
}

// ParcelID returns the identifier of the parcel to update.
func (c SetParcelFlagCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// Kind returns which administrative marker to toggle.
func (c SetParcelFlagCommand) Kind() FlagKind {
	return c.kind
}

// Value returns the desired marker state.
func (c SetParcelFlagCommand) Value() bool {
	return c.value
}

// ActorID returns the identifier of the acting admin.
func (c SetParcelFlagCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Note returns the optional audit note for the history entry.
func (c SetParcelFlagCommand) Note() string {
	return c.note
}

func (c *SetParcelFlagCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}

	c.parcelID = parcelID
	return nil
}

func (c *SetParcelFlagCommand) setKind(kind FlagKind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	c.kind = kind
	return nil
}

func (c *SetParcelFlagCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}
