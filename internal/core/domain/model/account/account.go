// Package account holds the read-only view of the account store. The parcel
// core never mutates accounts; it reads them to authorize parcel creation and
// to capture contact snapshots.
package account

import (
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// Account is the record the account store exposes to the parcel core: the
// identity, contact details, role, and blocked flag of a registered user.
type Account struct {
	ID        kernel.UUID
	Email     string
	Name      string
	Phone     string
	Address   kernel.Address
	Role      Role
	IsBlocked bool
}

// Validate checks the invariants the parcel core relies on: a constructed ID,
// a non-empty email, and a valid role.
func (a *Account) Validate() error {
	if err := a.ID.Validate(); err != nil {
		return err
	}
	if a.Email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	return a.Role.Validate()
}
