package address

import "github.com/storefront/backend/internal/domain/shared"

var (
	ErrAddressNotFound = shared.NewDomainError("NOT_FOUND", "Address not found")
	// ErrCannotDeleteDefault is returned when the default address is deleted while siblings exist
	ErrCannotDeleteDefault = shared.NewDomainError("DEFAULT_ADDRESS_DELETE", "cannot delete default address")
	// ErrDefaultRequired is returned when an update would leave the principal without a default
	ErrDefaultRequired = shared.NewDomainError("DEFAULT_REQUIRED", "Set another address as default instead of unsetting the current default")
	// ErrInvariantViolated signals storage drift: more than one default, or none while addresses exist
	ErrInvariantViolated = shared.NewDomainError("INVALID_STATE", "Address book has an inconsistent default address")
)
