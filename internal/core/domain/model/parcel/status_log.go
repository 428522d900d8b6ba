package parcel

import (
	"time"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// StatusLog is one entry of the append-only status history: who put the
// parcel into which status, when, and optionally where. Administrative
// actions (block, hold, flag, personnel assignment) also append entries; they
// carry the unchanged current status plus an explanatory note, so the last
// entry's status always equals the parcel's current status.
type StatusLog struct {
	Status        Status
	Timestamp     time.Time
	UpdatedBy     kernel.UUID
	UpdatedByType account.Role
	Location      string
	Note          string
}

// Validate checks the fields every history entry must carry.
func (l StatusLog) Validate() error {
	if err := l.Status.Validate(); err != nil {
		return err
	}
	if l.Timestamp.IsZero() {
		return errs.NewValueIsRequiredError("timestamp")
	}
	if err := l.UpdatedBy.Validate(); err != nil {
		return err
	}
	return l.UpdatedByType.Validate()
}
