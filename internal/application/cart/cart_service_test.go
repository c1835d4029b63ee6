package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Line), args.Error(1)
}

func (m *MockCartRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*cart.Line, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Line), args.Error(1)
}

func (m *MockCartRepository) FindVariant(ctx context.Context, userID uuid.UUID, productID, size, color string) (*cart.Line, error) {
	args := m.Called(ctx, userID, productID, size, color)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Line), args.Error(1)
}

func (m *MockCartRepository) LockByUser(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Line), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, line *cart.Line) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(repo *MockCartRepository) *CartService {
	return NewCartService(repo, NewNoOpTransactionScope(repo), nil)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCartService_AddItem_NewLine(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockCartRepository)
	svc := newTestService(repo)

	repo.On("LockByUser", ctx, userID).Return([]cart.Line{}, nil)
	repo.On("FindVariant", ctx, userID, "p-7", "M", "").Return(nil, nil)
	repo.On("Save", ctx, mock.MatchedBy(func(l *cart.Line) bool {
		return l.ProductID == "p-7" && l.Quantity == 2 && l.UnitPrice.Equal(decimal.NewFromInt(500))
	})).Return(nil)

	saved, err := cart.NewLine(userID, "p-7", 2, decimal.NewFromInt(500), "M", "")
	require.NoError(t, err)
	repo.On("FindByUser", ctx, userID).Return([]cart.Line{*saved}, nil)

	resp, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: "p-7", Quantity: 2, UnitPrice: price("500"), Size: "M"})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.ItemCount)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(1000)))
	repo.AssertExpectations(t)
}

func TestCartService_AddItem_MergesVariant(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockCartRepository)
	svc := newTestService(repo)

	existing, err := cart.NewLine(userID, "p-7", 1, decimal.NewFromInt(450), "M", "red")
	require.NoError(t, err)

	repo.On("LockByUser", ctx, userID).Return([]cart.Line{*existing}, nil)
	repo.On("FindVariant", ctx, userID, "p-7", "M", "red").Return(existing, nil)
	repo.On("Save", ctx, existing).Return(nil)
	repo.On("FindByUser", ctx, userID).Return([]cart.Line{*existing}, nil)

	_, err = svc.AddItem(ctx, userID, AddItemRequest{ProductID: "p-7", Quantity: 2, UnitPrice: price("500"), Size: "M", Color: "red"})
	require.NoError(t, err)
	assert.Equal(t, 3, existing.Quantity)
	assert.True(t, existing.UnitPrice.Equal(decimal.NewFromInt(500)))
	repo.AssertExpectations(t)
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockCartRepository)
	svc := newTestService(repo)

	repo.On("LockByUser", ctx, userID).Return([]cart.Line{}, nil)
	repo.On("FindVariant", ctx, userID, "p-7", "", "").Return(nil, nil)

	_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: "p-7", Quantity: 0, UnitPrice: price("10")})
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockCartRepository)
	svc := newTestService(repo)

	line, err := cart.NewLine(userID, "p-1", 1, decimal.NewFromInt(100), "", "")
	require.NoError(t, err)

	t.Run("updates owned line", func(t *testing.T) {
		repo.On("FindByIDForUser", ctx, userID, line.ID).Return(line, nil).Once()
		repo.On("Save", ctx, line).Return(nil).Once()

		resp, err := svc.UpdateQuantity(ctx, userID, line.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, resp.Quantity)
		assert.True(t, resp.LineTotal.Equal(decimal.NewFromInt(400)))
	})

	t.Run("foreign line is not found", func(t *testing.T) {
		other := uuid.New()
		repo.On("FindByIDForUser", ctx, other, line.ID).Return(nil, cart.ErrLineNotFound).Once()

		_, err := svc.UpdateQuantity(ctx, other, line.ID, 2)
		assert.ErrorIs(t, err, cart.ErrLineNotFound)
	})
}

func TestCartService_Clear(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockCartRepository)
	svc := newTestService(repo)

	repo.On("DeleteAllForUser", ctx, userID).Return(int64(3), nil)
	require.NoError(t, svc.Clear(ctx, userID))
	repo.AssertExpectations(t)
}

func TestCartService_AddItem_NewLineNeedsPrice(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := new(MockCartRepository)
	svc := newTestService(repo)

	repo.On("LockByUser", ctx, userID).Return([]cart.Line{}, nil)
	repo.On("FindVariant", ctx, userID, "p-9", "", "").Return(nil, nil)

	_, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: "p-9", Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrPriceRequired)
}
