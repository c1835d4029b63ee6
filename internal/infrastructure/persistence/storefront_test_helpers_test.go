package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newSQLiteDB opens an in-memory SQLite database with the storefront schema.
// A single connection keeps every statement on the same in-memory database.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.CartLineModel{},
		&models.AddressModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
	))
	return db
}

// newPostgresMock opens a GORM postgres dialector over sqlmock
func newPostgresMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func testShipping() order.ShippingInfo {
	return order.ShippingInfo{
		FullName:      "Asha Rao",
		Phone:         "9876543210",
		PostalCode:    "560001",
		StreetAddress: "12 MG Road",
		City:          "Bengaluru",
		State:         "Karnataka",
		AddressType:   "home",
	}
}

func newTestOrder(t *testing.T, userID uuid.UUID, number string, method order.PaymentMethod) *order.Order {
	t.Helper()

	o, err := order.Place(order.PlaceParams{
		UserID:        userID,
		OrderNumber:   number,
		PaymentMethod: method,
		Items: []order.ItemInput{
			{ProductID: "p1", Quantity: 2, UnitPrice: decimal.RequireFromString("499.50"), Size: "M", Color: "red"},
			{ProductID: "p2", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		},
		Shipping: testShipping(),
		Amounts: order.Amounts{
			Subtotal:     decimal.NewFromInt(1099),
			ShippingCost: decimal.NewFromInt(50),
			Tax:          decimal.NewFromInt(10),
			Total:        decimal.NewFromInt(1159),
		},
		PlacedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}
