package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

func addCartItem(t *testing.T, env *storefrontEnv, userID uuid.UUID, body map[string]any) cartapp.CartResponse {
	t.Helper()
	w := env.do(t, userID, http.MethodPost, "/api/cart/items", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeAs[cartapp.CartResponse](t, w).Data
}

func TestCartHandler_RequiresAuthentication(t *testing.T) {
	env := newStorefrontEnv(t)

	w := env.do(t, uuid.Nil, http.MethodGet, "/api/cart", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))
}

func TestCartHandler_EmptyCart(t *testing.T) {
	env := newStorefrontEnv(t)

	w := env.do(t, uuid.New(), http.MethodGet, "/api/cart", nil)

	require.Equal(t, http.StatusOK, w.Code)
	cart := decodeAs[cartapp.CartResponse](t, w).Data
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.ItemCount)
	assert.True(t, cart.Subtotal.IsZero())
}

func TestCartHandler_AddItemMergesVariant(t *testing.T) {
	env := newStorefrontEnv(t)
	userID := uuid.New()

	addCartItem(t, env, userID, map[string]any{"productId": "p1", "quantity": 1, "price": "250", "size": "M"})
	cart := addCartItem(t, env, userID, map[string]any{"productId": "p1", "quantity": 2, "size": "M"})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(750).Equal(cart.Subtotal))

	cart = addCartItem(t, env, userID, map[string]any{"productId": "p1", "quantity": 1, "price": "250", "size": "L"})
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 4, cart.ItemCount)
}

func TestCartHandler_AddItemValidation(t *testing.T) {
	env := newStorefrontEnv(t)
	userID := uuid.New()

	tests := []struct {
		name     string
		body     any
		wantCode int
		wantErr  string
	}{
		{"zero quantity", map[string]any{"productId": "p1", "quantity": 0, "price": "10"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"negative price", map[string]any{"productId": "p1", "quantity": 1, "price": "-1"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"missing product", map[string]any{"quantity": 1, "price": "10"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"new line without price", map[string]any{"productId": "p9", "quantity": 1}, http.StatusBadRequest, "PRICE_REQUIRED"},
		{"malformed json", `{"productId":`, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, userID, http.MethodPost, "/api/cart/items", tt.body)

			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Equal(t, tt.wantErr, errorCode(t, w))
		})
	}
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	env := newStorefrontEnv(t)
	userID := uuid.New()
	cart := addCartItem(t, env, userID, map[string]any{"productId": "p1", "quantity": 1, "price": "100"})
	lineID := cart.Items[0].ID

	w := env.do(t, userID, http.MethodPut, "/api/cart/items/"+lineID.String(), map[string]any{"quantity": 5})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	line := decodeAs[cartapp.LineResponse](t, w).Data
	assert.Equal(t, 5, line.Quantity)
	assert.True(t, decimal.NewFromInt(500).Equal(line.LineTotal))

	t.Run("other user's line is not found", func(t *testing.T) {
		w := env.do(t, uuid.New(), http.MethodPut, "/api/cart/items/"+lineID.String(), map[string]any{"quantity": 2})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		w := env.do(t, userID, http.MethodPut, "/api/cart/items/"+lineID.String(), map[string]any{"quantity": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := env.do(t, userID, http.MethodPut, "/api/cart/items/abc", map[string]any{"quantity": 2})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, errorCode(t, w))
	})
}

func TestCartHandler_RemoveAndClear(t *testing.T) {
	env := newStorefrontEnv(t)
	userID := uuid.New()
	addCartItem(t, env, userID, map[string]any{"productId": "p1", "quantity": 1, "price": "100"})
	cart := addCartItem(t, env, userID, map[string]any{"productId": "p2", "quantity": 1, "price": "50"})
	require.Len(t, cart.Items, 2)

	w := env.do(t, userID, http.MethodDelete, "/api/cart/items/"+cart.Items[0].ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, userID, http.MethodGet, "/api/cart", nil)
	assert.Len(t, decodeAs[cartapp.CartResponse](t, w).Data.Items, 1)

	w = env.do(t, userID, http.MethodDelete, "/api/cart", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, userID, http.MethodGet, "/api/cart", nil)
	assert.Empty(t, decodeAs[cartapp.CartResponse](t, w).Data.Items)
}

func TestCartHandler_CartsAreIsolatedPerUser(t *testing.T) {
	env := newStorefrontEnv(t)
	alice, bob := uuid.New(), uuid.New()
	addCartItem(t, env, alice, map[string]any{"productId": "p1", "quantity": 1, "price": "100"})

	w := env.do(t, bob, http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, alice, http.MethodGet, "/api/cart", nil)
	assert.Len(t, decodeAs[cartapp.CartResponse](t, w).Data.Items, 1)
}
