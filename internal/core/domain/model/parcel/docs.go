// Package parcel contains the Parcel aggregate and its value objects.
//
// The aggregate owns the status state machine, the append-only status
// history, the denormalized sender/receiver snapshots, and the
// administrative flags (blocked, held, flagged). Every state change is
// validated against the transition table and, on top of that, against a
// role-based TransitionAuthorizer supplied by the caller.
package parcel
