package models

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/address"
	"github.com/storefront/backend/internal/domain/shared"
)

// AddressModel is the persistence model for an address book entry.
// The partial unique index allows at most one default per principal.
type AddressModel struct {
	BaseModel
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_addresses_one_default,where:is_default = true"`
	FullName      string       `gorm:"type:varchar(255);not null"`
	Phone         string       `gorm:"type:varchar(20);not null"`
	PostalCode    string       `gorm:"type:varchar(10);not null"`
	StreetAddress string       `gorm:"type:text;not null"`
	City          string       `gorm:"type:varchar(100);not null"`
	State         string       `gorm:"type:varchar(100);not null"`
	AddressType   address.Type `gorm:"type:varchar(10);not null;default:'home'"`
	IsDefault     bool         `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "user_addresses"
}

// ToDomain converts the persistence model to a domain Address
func (m *AddressModel) ToDomain() *address.Address {
	return &address.Address{
		OwnedEntity: shared.OwnedEntity{
			BaseEntity: m.BaseModel.ToDomain(),
			OwnerID:    m.UserID,
		},
		Details: address.Details{
			FullName:      m.FullName,
			Phone:         m.Phone,
			PostalCode:    m.PostalCode,
			StreetAddress: m.StreetAddress,
			City:          m.City,
			State:         m.State,
			Type:          m.AddressType,
		},
		IsDefault: m.IsDefault,
	}
}

// AddressModelFromDomain creates a persistence model from a domain Address
func AddressModelFromDomain(a *address.Address) *AddressModel {
	m := &AddressModel{
		UserID:        a.OwnerID,
		FullName:      a.FullName,
		Phone:         a.Phone,
		PostalCode:    a.PostalCode,
		StreetAddress: a.StreetAddress,
		City:          a.City,
		State:         a.State,
		AddressType:   a.Type,
		IsDefault:     a.IsDefault,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
