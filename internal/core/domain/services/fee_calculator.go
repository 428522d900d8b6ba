package services

import (
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
)

// Fee components, in the service's base currency unit.
const (
	feeBase          = 50.0
	feePerKg         = 20.0
	feeUrgent        = 25.0
	feePerDistanceKm = 5.0
)

// FeeCalculator is the domain service computing the delivery fee breakdown
// stored on a parcel at creation. The breakdown is a snapshot: later tariff
// changes never reprice an existing parcel.
type FeeCalculator struct{}

// NewFeeCalculator creates a new FeeCalculator instance.
func NewFeeCalculator() FeeCalculator {
	return FeeCalculator{}
}

// Calculate returns the fee breakdown for the given shipment: a flat base
// component, a weight component proportional to the shipment weight, and an
// urgency surcharge when express handling was requested. A known delivery
// distance, when supplied, is priced per kilometre and folded into the base
// component. The fee starts unpaid; payment settlement is tracked separately.
func (FeeCalculator) Calculate(
	details parcel.Details,
	delivery parcel.DeliveryInfo,
	method parcel.PaymentMethod,
) (parcel.Fee, error) {
	if err := details.Validate(); err != nil {
		return parcel.Fee{}, err
	}
	if delivery.DistanceKm != nil && *delivery.DistanceKm < 0 {
		return parcel.Fee{}, errs.NewValueIsInvalidError("distanceKm must not be negative")
	}

	fee := parcel.Fee{
		Base:          feeBase,
		Weight:        details.WeightKg * feePerKg,
		PaymentMethod: method,
	}
	if delivery.DistanceKm != nil {
		fee.Base += *delivery.DistanceKm * feePerDistanceKm
	}
	if delivery.IsUrgent {
		fee.Urgent = feeUrgent
	}
	fee.Total = fee.Base + fee.Weight + fee.Urgent

	return fee, nil
}
