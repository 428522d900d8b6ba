// Package services provides domain services that implement business rules
// spanning more than one aggregate or value object in the parcel tracking
// system.
//
// The package includes:
//   - TransitionPolicy: role-based authorization of status transitions,
//     layered on top of the parcel status state machine
//   - FeeCalculator: delivery fee breakdown computed at parcel creation
//
// Domain services stay free of infrastructure concerns; they are plugged into
// aggregates and use case handlers by the composition root.
package services
