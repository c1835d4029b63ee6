package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	addressapp "github.com/storefront/backend/internal/application/address"
	cartapp "github.com/storefront/backend/internal/application/cart"
	orderapp "github.com/storefront/backend/internal/application/order"
	paymentapp "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/infrastructure/cache"
	infrapayment "github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

const testUserHeader = "X-Test-User"

// storefrontEnv wires the real services over an in-memory SQLite database
type storefrontEnv struct {
	db      *gorm.DB
	gateway *infrapayment.MockGateway
	router  *gin.Engine
}

func newStorefrontEnv(t *testing.T) *storefrontEnv {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

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

	scope := persistence.NewGormTransactionScope(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	gateway := infrapayment.NewMockGateway("handler_test_secret")
	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })

	cartService := cartapp.NewCartService(persistence.NewGormCartRepository(db), scope.Cart(), nil)
	addressService := addressapp.NewAddressService(persistence.NewGormAddressRepository(db), scope.Address(), nil)
	orderService := orderapp.NewOrderService(orderRepo, scope.Checkout(), nil, orderapp.DefaultConfig(), nil)
	paymentService := paymentapp.NewPaymentService(orderRepo, scope.Payment(), gateway, idempotency, paymentapp.DefaultConfig(), nil)

	cartHandler := NewCartHandler(cartService)
	addressHandler := NewAddressHandler(addressService)
	orderHandler := NewOrderHandler(orderService)
	adminHandler := NewAdminOrderHandler(orderService, paymentService)
	paymentHandler := NewPaymentHandler(paymentService)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader(testUserHeader); id != "" {
			c.Set(middleware.JWTUserIDKey, id)
		}
		c.Next()
	})
	api := r.Group("/api")

	api.GET("/cart", cartHandler.List)
	api.DELETE("/cart", cartHandler.Clear)
	api.POST("/cart/items", cartHandler.AddItem)
	api.PUT("/cart/items/:id", cartHandler.UpdateQuantity)
	api.DELETE("/cart/items/:id", cartHandler.RemoveItem)

	api.GET("/user/addresses", addressHandler.List)
	api.POST("/user/addresses", addressHandler.Create)
	api.GET("/user/addresses/:id", addressHandler.Get)
	api.PUT("/user/addresses/:id", addressHandler.Update)
	api.DELETE("/user/addresses/:id", addressHandler.Delete)
	api.PUT("/user/addresses/:id/default", addressHandler.SetDefault)

	api.POST("/orders", orderHandler.PlaceOrder)
	api.GET("/orders", orderHandler.ListOrders)
	api.GET("/orders/:id", orderHandler.GetOrder)
	api.GET("/orders/:id/payment", orderHandler.GetPaymentStatus)
	api.POST("/orders/:id/cancel", orderHandler.CancelOrder)

	api.PUT("/admin/orders/:id/status", adminHandler.UpdateStatus)
	api.POST("/admin/orders/:id/refund", adminHandler.Refund)

	api.POST("/payment/create", paymentHandler.CreateIntent)
	api.POST("/payment/verify", paymentHandler.Verify)
	api.GET("/payment/methods", paymentHandler.Methods)

	return &storefrontEnv{db: db, gateway: gateway, router: r}
}

// do sends a request as userID (uuid.Nil for anonymous) with an optional JSON body
func (e *storefrontEnv) do(t *testing.T, userID uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req.Header.Set(testUserHeader, userID.String())
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// apiResult is a typed view of the response envelope
type apiResult[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta"`
}

func decodeAs[T any](t *testing.T, w *httptest.ResponseRecorder) apiResult[T] {
	t.Helper()
	var out apiResult[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	res := decodeAs[json.RawMessage](t, w)
	require.NotNil(t, res.Error, w.Body.String())
	return res.Error.Code
}

func testShippingBody() map[string]any {
	return map[string]any{
		"fullName":      "Asha Rao",
		"phone":         "9876543210",
		"postalCode":    "560001",
		"streetAddress": "12 MG Road",
		"city":          "Bengaluru",
		"state":         "Karnataka",
	}
}

// checkoutBody is a valid checkout of 2 x 500 with 99 shipping and 50 tax
func checkoutBody(method string) map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"productId": "p1", "quantity": 2, "price": "500"},
		},
		"shippingInfo":  testShippingBody(),
		"paymentMethod": method,
		"subtotal":      "1000",
		"shippingCost":  "99",
		"tax":           "50",
		"total":         "1149",
	}
}
