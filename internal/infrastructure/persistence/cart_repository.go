package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser returns the principal's lines, oldest first
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	var rows []models.CartLineModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCartLines(rows), nil
}

// FindByIDForUser finds a line by ID within the principal's cart
func (r *GormCartRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*cart.Line, error) {
	var row models.CartLineModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrLineNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// FindVariant finds the principal's line for a product variant.
// It returns nil, nil when there is none.
func (r *GormCartRepository) FindVariant(ctx context.Context, userID uuid.UUID, productID, size, color string) (*cart.Line, error) {
	var row models.CartLineModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
			userID, strings.TrimSpace(productID), strings.TrimSpace(size), strings.TrimSpace(color)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// LockByUser loads the principal's lines with SELECT ... FOR UPDATE
func (r *GormCartRepository) LockByUser(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	var rows []models.CartLineModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCartLines(rows), nil
}

// Save creates or updates a cart line
func (r *GormCartRepository) Save(ctx context.Context, line *cart.Line) error {
	return r.db.WithContext(ctx).Save(models.CartLineModelFromDomain(line)).Error
}

// DeleteForUser deletes one line of the principal's cart
func (r *GormCartRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CartLineModel{}, "user_id = ? AND id = ?", userID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

// DeleteAllForUser empties the principal's cart
func (r *GormCartRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.CartLineModel{}, "user_id = ?", userID)
	return result.RowsAffected, result.Error
}

func toCartLines(rows []models.CartLineModel) []cart.Line {
	lines := make([]cart.Line, len(rows))
	for i := range rows {
		lines[i] = *rows[i].ToDomain()
	}
	return lines
}

// Ensure GormCartRepository implements cart.Repository
var _ cart.Repository = (*GormCartRepository)(nil)
