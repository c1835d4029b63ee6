package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newSQLiteDB(t))
	userID := uuid.New()

	o := newTestOrder(t, userID, "ORD20260301100000000001", order.PaymentMethodCOD)
	require.NoError(t, repo.Create(ctx, o))

	found, err := repo.FindByIDForUser(ctx, userID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, found.OrderNumber)
	assert.Equal(t, order.StatusPending, found.Status)
	assert.Equal(t, order.PaymentStatusPending, found.PaymentStatus)
	assert.Equal(t, order.PaymentMethodCOD, found.PaymentMethod)
	assert.Nil(t, found.PaymentDetails)
	assert.Equal(t, testShipping(), found.ShippingInfo)
	assert.True(t, decimal.NewFromInt(1159).Equal(found.Amounts.Total))
	assert.True(t, decimal.NewFromInt(1099).Equal(found.Amounts.Subtotal))
	assert.Equal(t, 1, found.Version)

	require.Len(t, found.Items, 2)
	for _, it := range found.Items {
		assert.Equal(t, o.ID, it.OrderID)
	}
	assert.Equal(t, 3, found.ItemCount())

	byNumber, err := repo.FindByOrderNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.ID, byNumber.ID)

	_, err = repo.FindByIDForUser(ctx, uuid.New(), o.ID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestGormOrderRepository_DuplicateOrderNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newSQLiteDB(t))

	require.NoError(t, repo.Create(ctx, newTestOrder(t, uuid.New(), "ORD-DUP", order.PaymentMethodCard)))
	err := repo.Create(ctx, newTestOrder(t, uuid.New(), "ORD-DUP", order.PaymentMethodCard))
	assert.ErrorIs(t, err, order.ErrOrderNumberTaken)
}

func TestGormOrderRepository_SaveState(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newSQLiteDB(t))
	userID := uuid.New()

	o := newTestOrder(t, userID, "ORD-STATE", order.PaymentMethodUPI)
	require.NoError(t, repo.Create(ctx, o))

	stale, err := repo.FindByIDForUser(ctx, userID, o.ID)
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)
	require.NoError(t, o.BindPaymentIntent("order_gw_1", o.Amounts.Total, at))
	require.NoError(t, o.CapturePayment(order.GatewayCapture{PaymentID: "pay_1", GatewayOrderID: "order_gw_1", Signature: "sig", PaidAt: at}))
	require.NoError(t, repo.SaveState(ctx, o))
	assert.Equal(t, 2, o.Version)

	found, err := repo.FindByIDForUser(ctx, userID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentStatusPaid, found.PaymentStatus)
	assert.Equal(t, "order_gw_1", found.GatewayOrderRef)
	require.NotNil(t, found.PaymentDetails)
	assert.Equal(t, "pay_1", found.PaymentDetails.PaymentID)
	require.NotNil(t, found.PaymentDetails.UPI)
	assert.Equal(t, 2, found.Version)
	assert.Len(t, found.Items, 2)

	require.NoError(t, stale.Cancel("changed my mind", at))
	err = repo.SaveState(ctx, stale)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormOrderRepository_FindByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newSQLiteDB(t))
	userID := uuid.New()

	for i, number := range []string{"ORD-A", "ORD-B", "ORD-C"} {
		o := newTestOrder(t, userID, number, order.PaymentMethodCOD)
		o.CreatedAt = o.CreatedAt.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, o))
	}
	require.NoError(t, repo.Create(ctx, newTestOrder(t, uuid.New(), "ORD-OTHER", order.PaymentMethodCOD)))

	orders, total, err := repo.FindByUser(ctx, userID, shared.Filter{Page: 1, PageSize: 2, OrderBy: "created_at", OrderDir: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-C", orders[0].OrderNumber)
	assert.Equal(t, "ORD-B", orders[1].OrderNumber)
	assert.Len(t, orders[0].Items, 2)

	filtered, total, err := repo.FindByUser(ctx, userID, shared.Filter{
		Page: 1, PageSize: 20,
		Filters: map[string]interface{}{"status": "cancelled"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, filtered)
}

func TestGormOrderRepository_FindStaleIntents(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newSQLiteDB(t))
	cutoff := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	old := newTestOrder(t, uuid.New(), "ORD-OLD", order.PaymentMethodCard)
	require.NoError(t, old.BindPaymentIntent("order_old", old.Amounts.Total, cutoff.Add(-2*time.Hour)))
	fresh := newTestOrder(t, uuid.New(), "ORD-FRESH", order.PaymentMethodCard)
	require.NoError(t, fresh.BindPaymentIntent("order_fresh", fresh.Amounts.Total, cutoff.Add(time.Minute)))
	unbound := newTestOrder(t, uuid.New(), "ORD-UNBOUND", order.PaymentMethodCard)

	for _, o := range []*order.Order{old, fresh, unbound} {
		require.NoError(t, repo.Create(ctx, o))
	}

	stale, err := repo.FindStaleIntents(ctx, cutoff, 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, old.ID, stale[0].ID)
}

func TestGormOrderRepository_CountByPaymentStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrderRepository(newSQLiteDB(t))
	at := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)

	paid := newTestOrder(t, uuid.New(), "ORD-PAID", order.PaymentMethodCard)
	require.NoError(t, repo.Create(ctx, paid))
	require.NoError(t, paid.BindPaymentIntent("order_paid", paid.Amounts.Total, at))
	require.NoError(t, paid.CapturePayment(order.GatewayCapture{PaymentID: "pay_9", GatewayOrderID: "order_paid", Signature: "sig", PaidAt: at}))
	require.NoError(t, repo.SaveState(ctx, paid))

	require.NoError(t, repo.Create(ctx, newTestOrder(t, uuid.New(), "ORD-P1", order.PaymentMethodCOD)))
	require.NoError(t, repo.Create(ctx, newTestOrder(t, uuid.New(), "ORD-P2", order.PaymentMethodCOD)))

	counts, err := repo.CountByPaymentStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[order.PaymentStatusPending.String()])
	assert.Equal(t, int64(1), counts[order.PaymentStatusPaid.String()])
}

func TestGormOrderRepository_SaveState_VersionGuard(t *testing.T) {
	db, mock, mockDB := newPostgresMock(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(db)

	o := newTestOrder(t, uuid.New(), "ORD-MOCK", order.PaymentMethodCard)
	o.Version = 4

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveState(context.Background(), o)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, 4, o.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_FindByIDForUpdate_Locks(t *testing.T) {
	db, mock, mockDB := newPostgresMock(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByIDForUpdate(context.Background(), id)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
