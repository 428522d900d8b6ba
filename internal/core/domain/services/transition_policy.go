package services

import (
	"fmt"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
)

// TransitionPolicy is the domain service deciding which roles may request
// which status transitions. It restricts the base transition table, it never
// expands it: the aggregate checks the table first, so a transition that is
// structurally illegal fails with InvalidTransitionError before this policy
// is consulted, and a legal-but-unauthorized one fails here with
// AccessForbiddenError.
//
// Role rules:
//   - Sender: may only cancel, and only while the parcel has not been
//     dispatched (Requested -> Cancelled, Approved -> Cancelled).
//   - Receiver: may only confirm delivery (InTransit -> Delivered).
//   - Admin: may request any transition the table allows.
type TransitionPolicy struct{}

// NewTransitionPolicy creates a new TransitionPolicy instance.
func NewTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{}
}

type transitionEdge struct {
	from parcel.Status
	to   parcel.Status
}

func getRoleTransitions() map[account.Role][]transitionEdge {
	return map[account.Role][]transitionEdge{
		account.RoleSender: {
			{parcel.StatusRequested, parcel.StatusCancelled},
			{parcel.StatusApproved, parcel.StatusCancelled},
		},
		account.RoleReceiver: {
			{parcel.StatusInTransit, parcel.StatusDelivered},
		},
	}
}

// Authorize implements parcel.TransitionAuthorizer. It returns nil when the
// role may request the (from -> to) transition, or an AccessForbiddenError
// naming the role and the transition otherwise.
func (TransitionPolicy) Authorize(role account.Role, from, to parcel.Status) error {
	if err := role.Validate(); err != nil {
		return err
	}

	if role == account.RoleAdmin {
		return nil
	}

	for _, edge := range getRoleTransitions()[role] {
		if edge.from == from && edge.to == to {
			return nil
		}
	}

	return errs.NewAccessForbiddenErrorWithCause(role.String(),
		fmt.Errorf("role %s may not change status from %s to %s", role, from, to))
}
