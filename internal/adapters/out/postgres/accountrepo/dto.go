// Package accountrepo provides read access to user accounts. Accounts are
// managed by the identity system; this service only reads them to resolve
// actors and link receivers, so the repository exposes lookups but no writes.
package accountrepo

import (
	"time"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AccountDTO represents the database structure for user accounts.
type AccountDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email     string     `gorm:"uniqueIndex;not null"`
	Name      string     `gorm:"not null"`
	Phone     string
	Address   AddressDTO `gorm:"embedded;embeddedPrefix:address_"`
	Role      string     `gorm:"size:16;not null"`
	IsBlocked bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for account entities.
func (AccountDTO) TableName() string {
	return "accounts"
}

// AddressDTO represents the embedded postal address.
type AddressDTO struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

func toDomain(dto AccountDTO) (*account.Account, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	role, err := account.RoleFromString(dto.Role)
	if err != nil {
		return nil, err
	}

	return &account.Account{
		ID:    id,
		Email: dto.Email,
		Name:  dto.Name,
		Phone: dto.Phone,
		Address: kernel.Address{
			Street:  dto.Address.Street,
			City:    dto.Address.City,
			State:   dto.Address.State,
			ZipCode: dto.Address.ZipCode,
			Country: dto.Address.Country,
		},
		Role:      role,
		IsBlocked: dto.IsBlocked,
	}, nil
}
