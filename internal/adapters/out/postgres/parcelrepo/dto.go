// Package parcelrepo provides data transfer objects and mapping functions for
// parcel persistence. It implements the repository pattern for the parcel
// aggregate, handling conversion between domain entities and database rows,
// including the status history stored as a JSONB document alongside the row.
package parcelrepo

import (
	"time"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// ParcelDTO represents the database structure for persisting parcel
// aggregates. The tracking ID carries a unique index so collisions surface as
// duplicate-key errors, and the version column drives optimistic concurrency
// on updates.
type ParcelDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingID string     `gorm:"uniqueIndex;size:21;not null"`
	SenderID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	ReceiverID *uuid.UUID `gorm:"type:uuid;index"`

	Sender   ContactDTO `gorm:"embedded;embeddedPrefix:sender_"`
	Receiver ContactDTO `gorm:"embedded;embeddedPrefix:receiver_"`

	ParcelType    string `gorm:"size:16;not null"`
	WeightKg      float64
	DimLength     *float64
	DimWidth      *float64
	DimHeight     *float64
	Description   string
	DeclaredValue float64

	Delivery DeliveryDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	Fee      FeeDTO      `gorm:"embedded;embeddedPrefix:fee_"`

	Status  string         `gorm:"size:16;index;not null"`
	History []StatusLogDTO `gorm:"serializer:json;type:jsonb"`

	AssignedPersonnel string
	IsFlagged         bool `gorm:"index"`
	IsHeld            bool
	IsBlocked         bool

	Version   int `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for parcel entities.
func (ParcelDTO) TableName() string {
	return "parcels"
}

// ContactDTO represents an embedded contact snapshot within the parcel table.
type ContactDTO struct {
	Name    string
	Email   string `gorm:"index"`
	Phone   string
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// DeliveryDTO represents the embedded delivery preferences.
type DeliveryDTO struct {
	PreferredDate *time.Time
	Instructions  string
	IsUrgent      bool
	DistanceKm    *float64
}

// FeeDTO represents the embedded fee breakdown.
type FeeDTO struct {
	Base          float64
	Weight        float64
	Urgent        float64
	Total         float64
	IsPaid        bool
	PaymentMethod string `gorm:"size:8"`
}

// StatusLogDTO is one history entry inside the JSONB history column.
type StatusLogDTO struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UpdatedBy     string    `json:"updatedBy"`
	UpdatedByType string    `json:"updatedByType"`
	Location      string    `json:"location,omitempty"`
	Note          string    `json:"note,omitempty"`
}

func fromDomain(aggregate *parcel.Parcel) ParcelDTO {
	var receiverID *uuid.UUID
	if id := aggregate.ReceiverID(); id != nil {
		raw := id.Bytes()
		receiverID = &raw
	}

	details := aggregate.Details()
	var dimLength, dimWidth, dimHeight *float64
	if dims := details.Dimensions; dims != nil {
		dimLength = &dims.Length
		dimWidth = &dims.Width
		dimHeight = &dims.Height
	}

	history := make([]StatusLogDTO, 0, len(aggregate.History()))
	for _, entry := range aggregate.History() {
		history = append(history, StatusLogDTO{
			Status:        entry.Status.String(),
			Timestamp:     entry.Timestamp,
			UpdatedBy:     entry.UpdatedBy.String(),
			UpdatedByType: entry.UpdatedByType.String(),
			Location:      entry.Location,
			Note:          entry.Note,
		})
	}

	delivery := aggregate.Delivery()
	fee := aggregate.Fee()

	return ParcelDTO{
		ID:         aggregate.ID().Bytes(),
		TrackingID: aggregate.TrackingID().String(),
		SenderID:   aggregate.SenderID().Bytes(),
		ReceiverID: receiverID,
		Sender:     contactFromDomain(aggregate.SenderInfo()),
		Receiver:   contactFromDomain(aggregate.ReceiverInfo()),

		ParcelType:    details.Type.String(),
		WeightKg:      details.WeightKg,
		DimLength:     dimLength,
		DimWidth:      dimWidth,
		DimHeight:     dimHeight,
		Description:   details.Description,
		DeclaredValue: details.DeclaredValue,

		Delivery: DeliveryDTO{
			PreferredDate: delivery.PreferredDate,
			Instructions:  delivery.Instructions,
			IsUrgent:      delivery.IsUrgent,
			DistanceKm:    delivery.DistanceKm,
		},
		Fee: FeeDTO{
			Base:          fee.Base,
			Weight:        fee.Weight,
			Urgent:        fee.Urgent,
			Total:         fee.Total,
			IsPaid:        fee.IsPaid,
			PaymentMethod: string(fee.PaymentMethod),
		},

		Status:  aggregate.Status().String(),
		History: history,

		AssignedPersonnel: aggregate.AssignedPersonnel(),
		IsFlagged:         aggregate.IsFlagged(),
		IsHeld:            aggregate.IsHeld(),
		IsBlocked:         aggregate.IsBlocked(),

		Version:   aggregate.Version(),
		CreatedAt: aggregate.CreatedAt(),
		UpdatedAt: aggregate.UpdatedAt(),
	}
}

func contactFromDomain(info parcel.ContactInfo) ContactDTO {
	return ContactDTO{
		Name:    info.Name,
		Email:   info.Email,
		Phone:   info.Phone,
		Street:  info.Address.Street,
		City:    info.Address.City,
		State:   info.Address.State,
		ZipCode: info.Address.ZipCode,
		Country: info.Address.Country,
	}
}

func contactToDomain(dto ContactDTO) parcel.ContactInfo {
	return parcel.ContactInfo{
		Name:  dto.Name,
		Email: dto.Email,
		Phone: dto.Phone,
		Address: kernel.Address{
			Street:  dto.Street,
			City:    dto.City,
			State:   dto.State,
			ZipCode: dto.ZipCode,
			Country: dto.Country,
		},
	}
}

func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	trackingID, err := parcel.TrackingIDFromString(dto.TrackingID)
	if err != nil {
		return nil, err
	}

	senderID, err := kernel.UUIDFromBytes(dto.SenderID[:])
	if err != nil {
		return nil, err
	}

	var receiverID *kernel.UUID
	if dto.ReceiverID != nil {
		rID, receiverErr := kernel.UUIDFromBytes((*dto.ReceiverID)[:])
		if receiverErr != nil {
			return nil, receiverErr
		}
		receiverID = &rID
	}

	parcelType, err := parcel.ParcelTypeFromString(dto.ParcelType)
	if err != nil {
		return nil, err
	}

	var dims *parcel.Dimensions
	if dto.DimLength != nil && dto.DimWidth != nil && dto.DimHeight != nil {
		dims = &parcel.Dimensions{
			Length: *dto.DimLength,
			Width:  *dto.DimWidth,
			Height: *dto.DimHeight,
		}
	}

	status, err := parcel.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	history := make([]parcel.StatusLog, 0, len(dto.History))
	for _, entry := range dto.History {
		logEntry, logErr := statusLogToDomain(entry)
		if logErr != nil {
			return nil, logErr
		}
		history = append(history, logEntry)
	}

	return parcel.RestoreParcel(
		id,
		trackingID,
		senderID,
		receiverID,
		contactToDomain(dto.Sender),
		contactToDomain(dto.Receiver),
		parcel.Details{
			Type:          parcelType,
			WeightKg:      dto.WeightKg,
			Dimensions:    dims,
			Description:   dto.Description,
			DeclaredValue: dto.DeclaredValue,
		},
		parcel.DeliveryInfo{
			PreferredDate: dto.Delivery.PreferredDate,
			Instructions:  dto.Delivery.Instructions,
			IsUrgent:      dto.Delivery.IsUrgent,
			DistanceKm:    dto.Delivery.DistanceKm,
		},
		parcel.Fee{
			Base:          dto.Fee.Base,
			Weight:        dto.Fee.Weight,
			Urgent:        dto.Fee.Urgent,
			Total:         dto.Fee.Total,
			IsPaid:        dto.Fee.IsPaid,
			PaymentMethod: parcel.PaymentMethod(dto.Fee.PaymentMethod),
		},
		status,
		history,
		dto.AssignedPersonnel,
		dto.IsFlagged,
		dto.IsHeld,
		dto.IsBlocked,
		dto.Version,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

func statusLogToDomain(dto StatusLogDTO) (parcel.StatusLog, error) {
	status, err := parcel.StatusFromString(dto.Status)
	if err != nil {
		return parcel.StatusLog{}, err
	}

	updatedBy, err := kernel.UUIDFromString(dto.UpdatedBy)
	if err != nil {
		return parcel.StatusLog{}, err
	}

	updatedByType, err := account.RoleFromString(dto.UpdatedByType)
	if err != nil {
		return parcel.StatusLog{}, err
	}

	return parcel.StatusLog{
		Status:        status,
		Timestamp:     dto.Timestamp,
		UpdatedBy:     updatedBy,
		UpdatedByType: updatedByType,
		Location:      dto.Location,
		Note:          dto.Note,
	}, nil
}
