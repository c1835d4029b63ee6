package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order row and then its items. Callers run it inside a
// transaction so a failed item insert leaves no order behind.
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return order.ErrOrderNumberTaken
		}
		return fmt.Errorf("insert order: %w", err)
	}
	if len(model.Items) == 0 {
		return nil
	}
	if err := db.Create(&model.Items).Error; err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// FindByIDForUser finds an order by ID within the principal's orders
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*order.Order, error) {
	return r.findOne(r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id))
}

// FindByIDForUserForUpdate is FindByIDForUser with SELECT ... FOR UPDATE on the order row
func (r *GormOrderRepository) FindByIDForUserForUpdate(ctx context.Context, userID, id uuid.UUID) (*order.Order, error) {
	return r.findOne(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND id = ?", userID, id))
}

// FindByIDForUpdate locks an order regardless of owner
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

// FindByOrderNumber finds an order by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	return r.findOne(r.db.WithContext(ctx).Where("order_number = ?", orderNumber))
}

func (r *GormOrderRepository) findOne(query *gorm.DB) (*order.Order, error) {
	var model models.OrderModel
	if err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	}).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists the principal's orders with paging and optional
// status / payment_status filters. Items are preloaded.
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	scoped := func() *gorm.DB {
		return r.applyFilterWithoutPagination(
			r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("user_id = ?", userID),
			filter,
		)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	if err := r.applyPaging(scoped(), filter).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toOrders(rows), total, nil
}

// FindStaleIntents returns pending orders whose payment intent is older than cutoff, oldest first
func (r *GormOrderRepository) FindStaleIntents(ctx context.Context, cutoff time.Time, limit int) ([]order.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("payment_status = ? AND gateway_order_ref <> '' AND intent_created_at < ?",
			order.PaymentStatusPending, cutoff).
		Order("intent_created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// CountByPaymentStatus returns the number of orders in each payment status.
// It feeds the periodic payment status gauge.
func (r *GormOrderRepository) CountByPaymentStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		PaymentStatus string
		Count         int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("payment_status, COUNT(*) AS count").
		Group("payment_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.PaymentStatus] = row.Count
	}
	return counts, nil
}

// SaveState writes the mutable order columns guarded by the version the
// order was loaded with, then bumps the in-memory version.
func (r *GormOrderRepository) SaveState(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	model.Version = o.Version + 1

	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Select(models.OrderStateColumns).
		Omit(clause.Associations).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	o.Version = model.Version
	return nil
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		}
	}
	return query
}

func (r *GormOrderRepository) applyPaging(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order(orderSortColumns.orderBy(filter.OrderBy, filter.OrderDir)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true})
}

func toOrders(rows []models.OrderModel) []order.Order {
	out := make([]order.Order, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
