package http

import (
	"time"

	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// ErrorResponse is the JSON error envelope returned on all failures.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AddressRequest carries a postal address.
type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// ContactRequest carries a contact snapshot.
type ContactRequest struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	Address AddressRequest `json:"address"`
}

// DimensionsRequest carries package dimensions in centimeters.
type DimensionsRequest struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CreateParcelRequest is the body of POST /api/v1/parcels.
type CreateParcelRequest struct {
	Receiver      ContactRequest     `json:"receiver"`
	Type          string             `json:"type"`
	WeightKg      float64            `json:"weightKg"`
	Dimensions    *DimensionsRequest `json:"dimensions,omitempty"`
	Description   string             `json:"description"`
	DeclaredValue float64            `json:"declaredValue"`
	PreferredDate *time.Time         `json:"preferredDate,omitempty"`
	Instructions  string             `json:"instructions"`
	IsUrgent      bool               `json:"isUrgent"`
	DistanceKm    *float64           `json:"distanceKm,omitempty"`
	PaymentMethod string             `json:"paymentMethod"`
}

// CreateParcelResponse is returned after a parcel was registered.
type CreateParcelResponse struct {
	ParcelID   string `json:"parcelId"`
	TrackingID string `json:"trackingId"`
}

// UpdateStatusRequest is the body of POST /api/v1/parcels/:id/status.
type UpdateStatusRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Note     string `json:"note"`
}

// CancelParcelRequest is the body of POST /api/v1/parcels/:id/cancel.
type CancelParcelRequest struct {
	Note string `json:"note"`
}

// SetFlagRequest is the body of PUT /api/v1/parcels/:id/flags.
type SetFlagRequest struct {
	Kind  string `json:"kind"`
	Value bool   `json:"value"`
	Note  string `json:"note"`
}

// AssignPersonnelRequest is the body of PUT /api/v1/parcels/:id/personnel.
type AssignPersonnelRequest struct {
	Personnel string `json:"personnel"`
}

// AddressResponse mirrors AddressRequest on the way out.
type AddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// ContactResponse mirrors ContactRequest on the way out.
type ContactResponse struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Address AddressResponse `json:"address"`
}

// StatusLogResponse is one entry of the status history.
type StatusLogResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UpdatedBy     string    `json:"updatedBy"`
	UpdatedByType string    `json:"updatedByType"`
	Location      string    `json:"location,omitempty"`
	Note          string    `json:"note,omitempty"`
}

// FeeResponse is the fee breakdown snapshot.
type FeeResponse struct {
	Base          float64 `json:"base"`
	Weight        float64 `json:"weight"`
	Urgent        float64 `json:"urgent"`
	Total         float64 `json:"total"`
	IsPaid        bool    `json:"isPaid"`
	PaymentMethod string  `json:"paymentMethod"`
}

// ParcelResponse is the full parcel view for authenticated parties.
type ParcelResponse struct {
	ID                string              `json:"id"`
	TrackingID        string              `json:"trackingId"`
	SenderID          string              `json:"senderId"`
	ReceiverID        *string             `json:"receiverId,omitempty"`
	Sender            ContactResponse     `json:"sender"`
	Receiver          ContactResponse     `json:"receiver"`
	Type              string              `json:"type"`
	WeightKg          float64             `json:"weightKg"`
	Dimensions        *DimensionsRequest  `json:"dimensions,omitempty"`
	Description       string              `json:"description"`
	DeclaredValue     float64             `json:"declaredValue"`
	PreferredDate     *time.Time          `json:"preferredDate,omitempty"`
	Instructions      string              `json:"instructions"`
	IsUrgent          bool                `json:"isUrgent"`
	DistanceKm        *float64            `json:"distanceKm,omitempty"`
	Fee               FeeResponse         `json:"fee"`
	Status            string              `json:"status"`
	History           []StatusLogResponse `json:"history"`
	AssignedPersonnel string              `json:"assignedPersonnel,omitempty"`
	IsFlagged         bool                `json:"isFlagged"`
	IsHeld            bool                `json:"isHeld"`
	IsBlocked         bool                `json:"isBlocked"`
	Version           int                 `json:"version"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// TrackingEventResponse is a history entry stripped of actor identifiers for
// the public tracking endpoint.
type TrackingEventResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// TrackingResponse is the public view of a parcel: progress only, no contact
// details and no actor identities.
type TrackingResponse struct {
	TrackingID string                  `json:"trackingId"`
	Status     string                  `json:"status"`
	History    []TrackingEventResponse `json:"history"`
	CreatedAt  time.Time               `json:"createdAt"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

// ListItemResponse is one row of the parcel listing.
type ListItemResponse struct {
	ID            string    `json:"id"`
	TrackingID    string    `json:"trackingId"`
	Status        string    `json:"status"`
	SenderEmail   string    `json:"senderEmail"`
	ReceiverEmail string    `json:"receiverEmail"`
	Type          string    `json:"type"`
	IsUrgent      bool      `json:"isUrgent"`
	FeeTotal      float64   `json:"feeTotal"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListParcelsResponse is the paged listing envelope.
type ListParcelsResponse struct {
	Items    []ListItemResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

// StatsResponse is the admin dashboard counters.
type StatsResponse struct {
	Total      int64   `json:"total"`
	Requested  int64   `json:"requested"`
	Approved   int64   `json:"approved"`
	Dispatched int64   `json:"dispatched"`
	InTransit  int64   `json:"inTransit"`
	Delivered  int64   `json:"delivered"`
	Cancelled  int64   `json:"cancelled"`
	Returned   int64   `json:"returned"`
	Flagged    int64   `json:"flagged"`
	Held       int64   `json:"held"`
	Blocked    int64   `json:"blocked"`
	Urgent     int64   `json:"urgent"`
	TotalFees  float64 `json:"totalFees"`
}

func contactToResponse(info parcel.ContactInfo) ContactResponse {
	return ContactResponse{
		Name:  info.Name,
		Email: info.Email,
		Phone: info.Phone,
		Address: AddressResponse{
			Street:  info.Address.Street,
			City:    info.Address.City,
			State:   info.Address.State,
			ZipCode: info.Address.ZipCode,
			Country: info.Address.Country,
		},
	}
}

func contactFromRequest(req ContactRequest) parcel.ContactInfo {
	return parcel.ContactInfo{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Address: kernel.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			ZipCode: req.Address.ZipCode,
			Country: req.Address.Country,
		},
	}
}

func parcelToResponse(p *parcel.Parcel) ParcelResponse {
	var receiverID *string
	if id := p.ReceiverID(); id != nil {
		s := id.String()
		receiverID = &s
	}

	details := p.Details()
	var dims *DimensionsRequest
	if details.Dimensions != nil {
		dims = &DimensionsRequest{
			Length: details.Dimensions.Length,
			Width:  details.Dimensions.Width,
			Height: details.Dimensions.Height,
		}
	}

	history := make([]StatusLogResponse, 0, len(p.History()))
	for _, entry := range p.History() {
		history = append(history, StatusLogResponse{
			Status:        entry.Status.String(),
			Timestamp:     entry.Timestamp,
			UpdatedBy:     entry.UpdatedBy.String(),
			UpdatedByType: entry.UpdatedByType.String(),
			Location:      entry.Location,
			Note:          entry.Note,
		})
	}

	delivery := p.Delivery()
	fee := p.Fee()

	return ParcelResponse{
		ID:            p.ID().String(),
		TrackingID:    p.TrackingID().String(),
		SenderID:      p.SenderID().String(),
		ReceiverID:    receiverID,
		Sender:        contactToResponse(p.SenderInfo()),
		Receiver:      contactToResponse(p.ReceiverInfo()),
		Type:          details.Type.String(),
		WeightKg:      details.WeightKg,
		Dimensions:    dims,
		Description:   details.Description,
		DeclaredValue: details.DeclaredValue,
		PreferredDate: delivery.PreferredDate,
		Instructions:  delivery.Instructions,
		IsUrgent:      delivery.IsUrgent,
		DistanceKm:    delivery.DistanceKm,
		Fee: FeeResponse{
			Base:          fee.Base,
			Weight:        fee.Weight,
			Urgent:        fee.Urgent,
			Total:         fee.Total,
			IsPaid:        fee.IsPaid,
			PaymentMethod: string(fee.PaymentMethod),
		},
		Status:            p.Status().String(),
		History:           history,
		AssignedPersonnel: p.AssignedPersonnel(),
		IsFlagged:         p.IsFlagged(),
		IsHeld:            p.IsHeld(),
		IsBlocked:         p.IsBlocked(),
		Version:           p.Version(),
		CreatedAt:         p.CreatedAt(),
		UpdatedAt:         p.UpdatedAt(),
	}
}

func parcelToTrackingResponse(p *parcel.Parcel) TrackingResponse {
	history := make([]TrackingEventResponse, 0, len(p.History()))
	for _, entry := range p.History() {
		history = append(history, TrackingEventResponse{
			Status:    entry.Status.String(),
			Timestamp: entry.Timestamp,
			Location:  entry.Location,
			Note:      entry.Note,
		})
	}

	return TrackingResponse{
		TrackingID: p.TrackingID().String(),
		Status:     p.Status().String(),
		History:    history,
		CreatedAt:  p.CreatedAt(),
		UpdatedAt:  p.UpdatedAt(),
	}
}

func listToResponse(result queries.ListParcelsQueryResponse, page, pageSize int) ListParcelsResponse {
	items := make([]ListItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, ListItemResponse{
			ID:            item.ID.String(),
			TrackingID:    item.TrackingID,
			Status:        item.Status.String(),
			SenderEmail:   item.SenderEmail,
			ReceiverEmail: item.ReceiverEmail,
			Type:          item.Type.String(),
			IsUrgent:      item.IsUrgent,
			FeeTotal:      item.FeeTotal,
			CreatedAt:     item.CreatedAt,
		})
	}

	return ListParcelsResponse{
		Items:    items,
		Total:    result.Total,
		Page:     page,
		PageSize: pageSize,
	}
}

func statsToResponse(stats queries.GetParcelStatsQueryResponse) StatsResponse {
	return StatsResponse{
		Total:      stats.Total,
		Requested:  stats.Requested,
		Approved:   stats.Approved,
		Dispatched: stats.Dispatched,
		InTransit:  stats.InTransit,
		Delivered:  stats.Delivered,
		Cancelled:  stats.Cancelled,
		Returned:   stats.Returned,
		Flagged:    stats.Flagged,
		Held:       stats.Held,
		Blocked:    stats.Blocked,
		Urgent:     stats.Urgent,
		TotalFees:  stats.TotalFees,
	}
}
