package address

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/address"
)

// CreateAddressRequest represents a request to add an address
type CreateAddressRequest struct {
	FullName      string `json:"fullName" binding:"required,max=255"`
	Phone         string `json:"phone" binding:"required,max=20"`
	PostalCode    string `json:"postalCode" binding:"required,max=10"`
	StreetAddress string `json:"streetAddress" binding:"required"`
	City          string `json:"city" binding:"required,max=100"`
	State         string `json:"state" binding:"required,max=100"`
	AddressType   string `json:"addressType" binding:"omitempty,address_type"`
	IsDefault     bool   `json:"isDefault"`
}

// Details converts the request to domain address details
func (r CreateAddressRequest) Details() address.Details {
	return address.Details{
		FullName:      r.FullName,
		Phone:         r.Phone,
		PostalCode:    r.PostalCode,
		StreetAddress: r.StreetAddress,
		City:          r.City,
		State:         r.State,
		Type:          address.Type(r.AddressType),
	}
}

// UpdateAddressRequest represents a partial address update
type UpdateAddressRequest struct {
	FullName      *string `json:"fullName" binding:"omitempty,max=255"`
	Phone         *string `json:"phone" binding:"omitempty,max=20"`
	PostalCode    *string `json:"postalCode" binding:"omitempty,max=10"`
	StreetAddress *string `json:"streetAddress"`
	City          *string `json:"city" binding:"omitempty,max=100"`
	State         *string `json:"state" binding:"omitempty,max=100"`
	AddressType   *string `json:"addressType" binding:"omitempty,address_type"`
	IsDefault     *bool   `json:"isDefault"`
}

// Patch converts the request to a domain patch
func (r UpdateAddressRequest) Patch() address.Patch {
	p := address.Patch{
		FullName:      r.FullName,
		Phone:         r.Phone,
		PostalCode:    r.PostalCode,
		StreetAddress: r.StreetAddress,
		City:          r.City,
		State:         r.State,
		IsDefault:     r.IsDefault,
	}
	if r.AddressType != nil {
		t := address.Type(*r.AddressType)
		p.Type = &t
	}
	return p
}

// AddressResponse represents an address in API responses
type AddressResponse struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"fullName"`
	Phone         string    `json:"phone"`
	PostalCode    string    `json:"postalCode"`
	StreetAddress string    `json:"streetAddress"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	AddressType   string    `json:"addressType"`
	IsDefault     bool      `json:"isDefault"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToAddressResponse converts a domain address to a response
func ToAddressResponse(a *address.Address) AddressResponse {
	return AddressResponse{
		ID:            a.ID,
		FullName:      a.FullName,
		Phone:         a.Phone,
		PostalCode:    a.PostalCode,
		StreetAddress: a.StreetAddress,
		City:          a.City,
		State:         a.State,
		AddressType:   a.Type.String(),
		IsDefault:     a.IsDefault,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ToAddressResponses converts a list of addresses
func ToAddressResponses(list []address.Address) []AddressResponse {
	out := make([]AddressResponse, 0, len(list))
	for i := range list {
		out = append(out, ToAddressResponse(&list[i]))
	}
	return out
}
