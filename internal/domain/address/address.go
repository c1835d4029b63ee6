package address

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Type classifies an address
type Type string

const (
	TypeHome  Type = "home"
	TypeWork  Type = "work"
	TypeOther Type = "other"
)

// IsValid checks if the type is a valid address Type
func (t Type) IsValid() bool {
	switch t {
	case TypeHome, TypeWork, TypeOther:
		return true
	}
	return false
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Details holds the user-editable fields of an address
type Details struct {
	FullName      string
	Phone         string
	PostalCode    string
	StreetAddress string
	City          string
	State         string
	Type          Type
}

// Normalize trims every field, title-cases city and state and lowercases the type, defaulting it to home
func (d Details) Normalize() Details {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Phone = strings.TrimSpace(d.Phone)
	d.PostalCode = strings.TrimSpace(d.PostalCode)
	d.StreetAddress = strings.TrimSpace(d.StreetAddress)
	d.City = titleCase(d.City)
	d.State = titleCase(d.State)
	d.Type = Type(strings.ToLower(strings.TrimSpace(string(d.Type))))
	if d.Type == "" {
		d.Type = TypeHome
	}
	return d
}

// Validate checks that every required field is present
func (d Details) Validate() error {
	switch {
	case d.FullName == "":
		return shared.NewDomainError("INVALID_INPUT", "Full name is required")
	case len(d.FullName) > 255:
		return shared.NewDomainError("INVALID_INPUT", "Full name cannot exceed 255 characters")
	case d.Phone == "":
		return shared.NewDomainError("INVALID_INPUT", "Phone is required")
	case len(d.Phone) > 20:
		return shared.NewDomainError("INVALID_INPUT", "Phone cannot exceed 20 characters")
	case d.PostalCode == "":
		return shared.NewDomainError("INVALID_INPUT", "Postal code is required")
	case len(d.PostalCode) > 10:
		return shared.NewDomainError("INVALID_INPUT", "Postal code cannot exceed 10 characters")
	case d.StreetAddress == "":
		return shared.NewDomainError("INVALID_INPUT", "Street address is required")
	case d.City == "":
		return shared.NewDomainError("INVALID_INPUT", "City is required")
	case d.State == "":
		return shared.NewDomainError("INVALID_INPUT", "State is required")
	case !d.Type.IsValid():
		return shared.NewDomainError("INVALID_ADDRESS_TYPE", "Address type must be one of home, work, other")
	}
	return nil
}

// titleCase uses a fresh caser per call: cases.Caser is stateful
func titleCase(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

// Patch carries a partial update; nil fields are left unchanged
type Patch struct {
	FullName      *string
	Phone         *string
	PostalCode    *string
	StreetAddress *string
	City          *string
	State         *string
	Type          *Type
	IsDefault     *bool
}

// Address is a shipping address owned by one principal
type Address struct {
	shared.OwnedEntity
	Details
	IsDefault bool
}

// NewAddress creates a non-default address. Default handling belongs to Book.
func NewAddress(userID uuid.UUID, details Details) (*Address, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User ID cannot be empty")
	}
	details = details.Normalize()
	if err := details.Validate(); err != nil {
		return nil, err
	}
	return &Address{
		OwnedEntity: shared.NewOwnedEntity(userID),
		Details:     details,
	}, nil
}

// applyFields applies the non-default fields of a patch
func (a *Address) applyFields(p Patch) error {
	d := a.Details
	if p.FullName != nil {
		d.FullName = *p.FullName
	}
	if p.Phone != nil {
		d.Phone = *p.Phone
	}
	if p.PostalCode != nil {
		d.PostalCode = *p.PostalCode
	}
	if p.StreetAddress != nil {
		d.StreetAddress = *p.StreetAddress
	}
	if p.City != nil {
		d.City = *p.City
	}
	if p.State != nil {
		d.State = *p.State
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return err
	}
	a.Details = d
	a.Touch()
	return nil
}
