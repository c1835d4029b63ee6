package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	addressapp "github.com/storefront/backend/internal/application/address"
	cartapp "github.com/storefront/backend/internal/application/cart"
	orderapp "github.com/storefront/backend/internal/application/order"
	paymentapp "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/domain/shared"
	infrapayment "github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/persistence"
)

const gatewaySecret = "integration_secret"

type storefront struct {
	db       *TestDB
	gateway  *infrapayment.MockGateway
	carts    *cartapp.CartService
	address  *addressapp.AddressService
	orders   *orderapp.OrderService
	payments *paymentapp.PaymentService
}

// newStorefront wires the services over PostgreSQL. A nil idempotency store
// leaves the order row lock as the only guard against double capture.
func newStorefront(t *testing.T, idempotency shared.IdempotencyStore) *storefront {
	t.Helper()
	tdb := NewTestDB(t)
	log := zaptest.NewLogger(t)

	scope := persistence.NewGormTransactionScope(tdb.DB)
	orderRepo := persistence.NewGormOrderRepository(tdb.DB)
	gateway := infrapayment.NewMockGateway(gatewaySecret)

	return &storefront{
		db:       tdb,
		gateway:  gateway,
		carts:    cartapp.NewCartService(persistence.NewGormCartRepository(tdb.DB), scope.Cart(), log),
		address:  addressapp.NewAddressService(persistence.NewGormAddressRepository(tdb.DB), scope.Address(), log),
		orders:   orderapp.NewOrderService(orderRepo, scope.Checkout(), nil, orderapp.DefaultConfig(), log),
		payments: paymentapp.NewPaymentService(orderRepo, scope.Payment(), gateway, idempotency, paymentapp.DefaultConfig(), log),
	}
}

func shippingInfo() *orderapp.ShippingInfoBody {
	return &orderapp.ShippingInfoBody{
		FullName:      "Asha Rao",
		Phone:         "9876543210",
		PostalCode:    "560001",
		StreetAddress: "12 MG Road",
		City:          "Bengaluru",
		State:         "Karnataka",
	}
}

// checkout is 2 x 500 with 99 shipping and 50 tax
func checkout(method string) orderapp.PlaceOrderRequest {
	return orderapp.PlaceOrderRequest{
		Items: []orderapp.OrderItemInput{
			{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(500)},
		},
		ShippingInfo:  shippingInfo(),
		PaymentMethod: method,
		Subtotal:      decimal.NewFromInt(1000),
		ShippingCost:  decimal.NewFromInt(99),
		Tax:           decimal.NewFromInt(50),
		Total:         decimal.NewFromInt(1149),
	}
}

func TestCheckoutFlow_CardPaymentCapturedOnce(t *testing.T) {
	sf := newStorefront(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	price := decimal.NewFromInt(500)
	_, err := sf.carts.AddItem(ctx, userID, cartapp.AddItemRequest{ProductID: "p1", Quantity: 2, UnitPrice: &price})
	require.NoError(t, err)

	placed, err := sf.orders.PlaceOrder(ctx, userID, checkout("card"))
	require.NoError(t, err)
	assert.Equal(t, "pending", placed.PaymentStatus)

	cart, err := sf.carts.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "placing an order empties the cart")

	intent, err := sf.payments.CreateIntent(ctx, userID, paymentapp.CreateIntentRequest{
		Amount:  placed.Total,
		OrderID: &placed.ID,
	})
	require.NoError(t, err)

	req := paymentapp.VerifyPaymentRequest{
		OrderID:   placed.ID,
		PaymentID: "pay_concurrent",
		Signature: sf.gateway.Sign(intent.GatewayOrderID, "pay_concurrent"),
	}

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		captured int
		repeated int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := sf.payments.VerifyPayment(ctx, userID, req)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if resp.AlreadyProcessed {
				repeated++
			} else {
				captured++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, captured)
	assert.Equal(t, workers-1, repeated)

	status, err := sf.orders.GetPaymentStatus(ctx, userID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", status.PaymentStatus)
	require.NotNil(t, status.PaymentDetails)
	assert.Equal(t, "pay_concurrent", status.PaymentDetails.PaymentID)

	_, err = sf.payments.VerifyPayment(ctx, userID, paymentapp.VerifyPaymentRequest{
		OrderID:   placed.ID,
		PaymentID: "pay_other",
		Signature: sf.gateway.Sign(intent.GatewayOrderID, "pay_other"),
	})
	require.Error(t, err)
	assert.Equal(t, "PAYMENT_ALREADY_CAPTURED", shared.CodeOf(err))
}

func TestCheckoutFlow_CashOnDeliveryLifecycle(t *testing.T) {
	sf := newStorefront(t, nil)
	ctx := context.Background()
	userID, adminID := uuid.New(), uuid.New()

	placed, err := sf.orders.PlaceOrder(ctx, userID, checkout("cod"))
	require.NoError(t, err)

	var last *orderapp.OrderResponse
	for _, status := range []string{"processing", "shipped", "delivered"} {
		last, err = sf.orders.UpdateStatus(ctx, adminID, placed.ID, orderapp.UpdateStatusRequest{Status: status})
		require.NoError(t, err, status)
	}
	assert.Equal(t, "delivered", last.Status)
	assert.Equal(t, "paid", last.PaymentStatus)

	refund, err := sf.payments.RefundPayment(ctx, adminID, placed.ID, paymentapp.RefundRequest{Reason: "returned"})
	require.NoError(t, err)
	assert.Equal(t, "refunded", refund.PaymentStatus)

	orders, total, err := sf.orders.ListOrders(ctx, userID, orderapp.ListOrdersFilter{PaymentStatus: "refunded"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.OrderNumber, orders[0].OrderNumber)
}

func TestCheckoutFlow_StaleIntentsExpire(t *testing.T) {
	sf := newStorefront(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	placed, err := sf.orders.PlaceOrder(ctx, userID, checkout("upi"))
	require.NoError(t, err)
	_, err = sf.payments.CreateIntent(ctx, userID, paymentapp.CreateIntentRequest{Amount: placed.Total, OrderID: &placed.ID})
	require.NoError(t, err)

	n, err := sf.payments.ExpireStaleIntents(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n, "a fresh intent is not stale")

	n, err = sf.payments.ExpireStaleIntents(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	status, err := sf.orders.GetPaymentStatus(ctx, userID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", status.PaymentStatus)
}

func TestAddressBook_ConcurrentDefaultsKeepOneDefault(t *testing.T) {
	sf := newStorefront(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	const workers = 6
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sf.address.Add(ctx, userID, addressapp.CreateAddressRequest{
				FullName:      "Asha Rao",
				Phone:         "9876543210",
				PostalCode:    "560001",
				StreetAddress: "12 MG Road",
				City:          "Bengaluru",
				State:         "Karnataka",
				IsDefault:     i%2 == 0,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := sf.address.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, workers)

	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	assert.True(t, list[0].IsDefault, "the default address is listed first")

	var stored int64
	require.NoError(t, sf.db.DB.Table("user_addresses").
		Where("user_id = ? AND is_default", userID).Count(&stored).Error)
	assert.Equal(t, int64(1), stored)
}
