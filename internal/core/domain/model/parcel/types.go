package parcel

import (
	"fmt"
	"regexp"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// ParcelType classifies the contents of a shipment.
type ParcelType int

const (
	// TypeUnknown represents an invalid or undefined parcel type.
	TypeUnknown ParcelType = iota
	TypeDocument
	TypePackage
	TypeFragile
	TypeElectronics
	TypeClothing
	TypeOther
)

// MaxWeightKg is the heaviest shipment the service accepts.
const MaxWeightKg = 1000.0

func getParcelTypeStrings() map[ParcelType]string {
	return map[ParcelType]string{
		TypeUnknown:     "unknown",
		TypeDocument:    "document",
		TypePackage:     "package",
		TypeFragile:     "fragile",
		TypeElectronics: "electronics",
		TypeClothing:    "clothing",
		TypeOther:       "other",
	}
}

// ParcelTypeFromString parses the wire form of a parcel type.
func ParcelTypeFromString(s string) (ParcelType, error) {
	for pt, str := range getParcelTypeStrings() {
		if pt != TypeUnknown && str == s {
			return pt, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("parcelType",
		fmt.Errorf("%q is not a valid parcel type", s))
}

// Validate rejects TypeUnknown and out-of-range values.
func (p ParcelType) Validate() error {
	if p == TypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("parcelType",
			fmt.Errorf("%d is not a valid parcel type", p))
	}
	if _, ok := getParcelTypeStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("parcelType",
			fmt.Errorf("%d is not a valid parcel type", p))
	}
	return nil
}

// String returns the wire form of the parcel type.
func (p ParcelType) String() string {
	if str, ok := getParcelTypeStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// Dimensions are the optional physical measurements of a parcel, in cm.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// IsZero reports whether no dimension is set.
func (d Dimensions) IsZero() bool {
	return d == Dimensions{}
}

// Validate requires every dimension to be positive when dimensions are given.
func (d Dimensions) Validate() error {
	if d.Length <= 0 || d.Width <= 0 || d.Height <= 0 {
		return errs.NewValueIsInvalidError("dimensions must be positive")
	}
	return nil
}

// Details describe what is being shipped.
type Details struct {
	Type          ParcelType
	WeightKg      float64
	Dimensions    *Dimensions
	Description   string
	DeclaredValue float64
}

// Validate enforces the shipment attribute invariants: a valid type, a
// positive bounded weight, positive dimensions when present, and a
// non-negative declared value.
func (d Details) Validate() error {
	if err := d.Type.Validate(); err != nil {
		return err
	}
	if d.WeightKg <= 0 || d.WeightKg > MaxWeightKg {
		return errs.NewValueIsOutOfRangeError("weightKg", d.WeightKg, 0.0, MaxWeightKg)
	}
	if d.Dimensions != nil {
		if err := d.Dimensions.Validate(); err != nil {
			return err
		}
	}
	if d.DeclaredValue < 0 {
		return errs.NewValueIsInvalidError("declaredValue must not be negative")
	}
	return nil
}

// DeliveryInfo carries the sender's delivery preferences. DistanceKm is the
// delivery distance when known at creation; it feeds the fee calculation.
type DeliveryInfo struct {
	PreferredDate *time.Time
	Instructions  string
	IsUrgent      bool
	DistanceKm    *float64
}

// PaymentMethod is how the delivery fee is settled.
type PaymentMethod string

const (
	// PaymentUnspecified means the sender deferred the choice; it can be
	// settled later, before payment is recorded.
	PaymentUnspecified PaymentMethod = ""

	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

// Fee is the computed delivery fee breakdown. Computation itself lives in the
// fee calculator service; the aggregate only stores the result.
type Fee struct {
	Base          float64
	Weight        float64
	Urgent        float64
	Total         float64
	IsPaid        bool
	PaymentMethod PaymentMethod
}

// Validate rejects negative fee components.
func (f Fee) Validate() error {
	if f.Base < 0 || f.Weight < 0 || f.Urgent < 0 || f.Total < 0 {
		return errs.NewValueIsInvalidError("fee components must not be negative")
	}
	return nil
}

// ContactInfo is the denormalized party snapshot captured at parcel creation.
// The receiver snapshot is the authoritative delivery contact even when a
// receiverId back-reference exists.
type ContactInfo struct {
	Name    string
	Email   string
	Phone   string
	Address kernel.Address
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate requires a well-formed email; name, phone, and address may be
// filled in later for receivers who are not registered users.
func (c ContactInfo) Validate() error {
	if c.Email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	if !emailPattern.MatchString(c.Email) {
		return errs.NewValueIsInvalidErrorWithCause("email",
			fmt.Errorf("%q is not a valid email address", c.Email))
	}
	if !c.Address.IsZero() {
		return c.Address.Validate()
	}
	return nil
}
