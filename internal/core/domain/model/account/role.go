package account

import (
	"fmt"

	"parceltrack/internal/pkg/errs"
)

// Role classifies what a principal may do with parcels. Roles restrict the
// transition table, they never expand it: an admin is bounded by the table,
// senders and receivers by a narrower overlay on top of it.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	// This value (0) helps catch uninitialized Role values.
	RoleUnknown Role = iota

	// RoleSender owns parcels it created and may cancel them before dispatch.
	RoleSender

	// RoleReceiver is addressed by parcels and may confirm their delivery.
	RoleReceiver

	// RoleAdmin operates the delivery workflow without role restrictions.
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleSender:   "sender",
		RoleReceiver: "receiver",
		RoleAdmin:    "admin",
	}
}

func getValidRoleStrings() map[Role]string {
	//nolint:exhaustive // RoleUnknown is intentionally excluded as it's invalid
	return map[Role]string{
		RoleSender:   "sender",
		RoleReceiver: "receiver",
		RoleAdmin:    "admin",
	}
}

// RoleFromString parses the wire form of a role ("sender", "receiver",
// "admin"). Returns an error for any other input.
func RoleFromString(s string) (Role, error) {
	for role, str := range getValidRoleStrings() {
		if str == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// Validate checks if the Role value is valid.
// Valid roles are: RoleSender, RoleReceiver, RoleAdmin.
func (r Role) Validate() error {
	if _, ok := getValidRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the wire form of the role, or "unknown" for invalid values.
// This method implements the fmt.Stringer interface and is safe to call on
// any Role value.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}
