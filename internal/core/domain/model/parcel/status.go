package parcel

import (
	"fmt"

	"parceltrack/internal/pkg/errs"
)

// Status represents the lifecycle state of a parcel. It implements a state
// machine with a fixed transition table so parcels follow the delivery
// workflow.
//
// State transitions:
//
//	Requested ──┬──> Approved ──┬──> Dispatched ──> InTransit ──> Delivered
//	            │               │         ^              │
//	            v               v         │              v
//	        Cancelled       Cancelled     └─────────  Returned
//	                                      (re-dispatch allowed)
//
// Delivered and Cancelled are terminal. Returned allows re-dispatch; the
// receiver address used for a re-dispatch is whatever the parcel's contact
// snapshot holds. Correcting it is an administrative concern outside the
// state machine.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusRequested is the initial status of every created parcel.
	StatusRequested

	// StatusApproved indicates the request was accepted for delivery.
	StatusApproved

	// StatusDispatched indicates the parcel left the origin facility.
	StatusDispatched

	// StatusInTransit indicates the parcel is on its way to the receiver.
	StatusInTransit

	// StatusDelivered indicates the receiver got the parcel. Terminal.
	StatusDelivered

	// StatusCancelled indicates the shipment was called off. Terminal.
	StatusCancelled

	// StatusReturned indicates a failed delivery that went back to the
	// origin. A returned parcel may be dispatched again.
	StatusReturned
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusRequested:  "requested",
		StatusApproved:   "approved",
		StatusDispatched: "dispatched",
		StatusInTransit:  "in-transit",
		StatusDelivered:  "delivered",
		StatusCancelled:  "cancelled",
		StatusReturned:   "returned",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusRequested:  "requested",
		StatusApproved:   "approved",
		StatusDispatched: "dispatched",
		StatusInTransit:  "in-transit",
		StatusDelivered:  "delivered",
		StatusCancelled:  "cancelled",
		StatusReturned:   "returned",
	}
}

// getTransitionTable returns the directed transition graph. An empty slice
// means the status is terminal.
func getTransitionTable() map[Status][]Status {
	return map[Status][]Status{
		StatusRequested:  {StatusApproved, StatusCancelled},
		StatusApproved:   {StatusDispatched, StatusCancelled},
		StatusDispatched: {StatusInTransit, StatusReturned},
		StatusInTransit:  {StatusDelivered, StatusReturned},
		StatusDelivered:  {},
		StatusCancelled:  {},
		StatusReturned:   {StatusDispatched},
	}
}

// StatusFromString parses the wire form of a status ("requested",
// "in-transit", ...). Returns an error for any other input.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// StatusUnknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire form of the status, or "unknown" for invalid
// values. This method implements the fmt.Stringer interface and is safe to
// call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(getTransitionTable()[s]) == 0 && s.Validate() == nil
}

// CanTransition checks whether (s -> target) is an edge of the transition
// table without performing the transition.
//
// Returns nil if the transition is legal, or an InvalidTransitionError
// naming both statuses otherwise. Role restrictions are layered on top of
// this check by the transition policy; the two failure kinds stay distinct.
func (s Status) CanTransition(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	for _, next := range getTransitionTable()[s] {
		if next == target {
			return nil
		}
	}
	return errs.NewInvalidTransitionError(s.String(), target.String())
}

// Transition returns the new status after a legal transition, or an error
// leaving the caller's state untouched.
func (s Status) Transition(target Status) (Status, error) {
	if err := s.CanTransition(target); err != nil {
		return 0, err
	}
	return target, nil
}
