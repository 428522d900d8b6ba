package parcel

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"parceltrack/internal/pkg/errs"
)

// trackingIDAlphabet is the unambiguous character set for the random suffix.
// 36 characters over 6 positions gives ~2.2e9 combinations; collisions are
// rare but possible, so creation detects uniqueness violations on persist and
// regenerates.
const trackingIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const trackingIDSuffixLength = 6

var trackingIDPattern = regexp.MustCompile(`^TRK-\d{8}-[A-Z0-9]{6}$`)

// ErrTrackingIDIsNotConstructed indicates a zero-value TrackingID.
var ErrTrackingIDIsNotConstructed = errs.NewValueIsRequiredError(
	"tracking ID must be created via NewTrackingID or TrackingIDFromString")

// TrackingID is the human-facing parcel identifier, distinct from the
// internal record id. Format: TRK-YYYYMMDD-XXXXXX where X is drawn from
// A-Z0-9. Immutable and globally unique.
type TrackingID struct {
	value string
}

// NewTrackingID generates a fresh tracking ID for the given creation time.
// Uniqueness is not guaranteed here; the creation workflow relies on the
// repository's unique index and regenerates on collision.
func NewTrackingID(now time.Time) TrackingID {
	suffix := make([]byte, trackingIDSuffixLength)
	for i := range suffix {
		suffix[i] = trackingIDAlphabet[rand.IntN(len(trackingIDAlphabet))]
	}
	return TrackingID{
		value: fmt.Sprintf("TRK-%s-%s", now.Format("20060102"), suffix),
	}
}

// TrackingIDFromString parses and validates a tracking ID supplied by a
// caller or loaded from persistence.
func TrackingIDFromString(s string) (TrackingID, error) {
	if !trackingIDPattern.MatchString(s) {
		return TrackingID{}, errs.NewValueIsInvalidErrorWithCause("trackingId",
			fmt.Errorf("%q does not match TRK-YYYYMMDD-XXXXXX", s))
	}
	return TrackingID{value: s}, nil
}

// String returns the tracking ID in its wire form.
func (t TrackingID) String() string {
	return t.value
}

// IsEqual compares two tracking IDs.
func (t TrackingID) IsEqual(other TrackingID) bool {
	return t.value == other.value
}

// Validate returns ErrTrackingIDIsNotConstructed for the zero value.
func (t TrackingID) Validate() error {
	if t.value == "" {
		return ErrTrackingIDIsNotConstructed
	}
	return nil
}
