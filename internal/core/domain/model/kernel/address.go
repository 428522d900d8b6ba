package kernel

import "parceltrack/internal/pkg/errs"

// Address is a postal address used in the denormalized sender and receiver
// contact snapshots. It is captured at parcel creation so later account edits
// do not retroactively alter historical records.
type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// IsZero reports whether no address field is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Validate requires street, city, and country for a non-empty address.
// State and zip code stay optional since not every country uses them.
func (a Address) Validate() error {
	if a.Street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	if a.City == "" {
		return errs.NewValueIsRequiredError("city")
	}
	if a.Country == "" {
		return errs.NewValueIsRequiredError("country")
	}
	return nil
}
