package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/address"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAddressRepository implements address.Repository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByUser returns the principal's addresses, default first then newest
func (r *GormAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]address.Address, error) {
	var rows []models.AddressModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAddresses(rows), nil
}

// LockByUser loads every address of the principal with SELECT ... FOR UPDATE.
// Row locks cannot cover an empty book, so on Postgres a transaction-scoped
// advisory lock keyed by the principal is taken first.
func (r *GormAddressRepository) LockByUser(ctx context.Context, userID uuid.UUID) ([]address.Address, error) {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", addressBookLockKey(userID)).Error; err != nil {
			return nil, err
		}
	}

	var rows []models.AddressModel
	if err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAddresses(rows), nil
}

func addressBookLockKey(userID uuid.UUID) string {
	return "user_addresses:" + userID.String()
}

// FindByIDForUser finds an address by ID within the principal's book
func (r *GormAddressRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*address.Address, error) {
	var row models.AddressModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, address.ErrAddressNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// Save creates or updates an address. A second default for the principal
// violates idx_user_addresses_one_default and is reported as a conflict.
func (r *GormAddressRepository) Save(ctx context.Context, addr *address.Address) error {
	if err := r.db.WithContext(ctx).Save(models.AddressModelFromDomain(addr)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrConcurrencyConflict
		}
		return err
	}
	return nil
}

// DeleteForUser deletes an address of the principal
func (r *GormAddressRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AddressModel{}, "user_id = ? AND id = ?", userID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return address.ErrAddressNotFound
	}
	return nil
}

func toAddresses(rows []models.AddressModel) []address.Address {
	out := make([]address.Address, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormAddressRepository implements address.Repository
var _ address.Repository = (*GormAddressRepository)(nil)
