package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLine(t *testing.T) {
	userID := uuid.New()

	t.Run("creates line with trimmed variant", func(t *testing.T) {
		line, err := NewLine(userID, " 7 ", 2, decimal.NewFromInt(500), " M ", "red")
		require.NoError(t, err)
		assert.Equal(t, "7", line.ProductID)
		assert.Equal(t, "M", line.Size)
		assert.Equal(t, userID, line.OwnerID)
		assert.True(t, line.LineTotal().Equal(decimal.NewFromInt(1000)))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewLine(userID, "7", 0, decimal.NewFromInt(500), "", "")
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewLine(userID, "7", 1, decimal.NewFromInt(-1), "", "")
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("rejects sub-cent price", func(t *testing.T) {
		_, err := NewLine(userID, "7", 1, decimal.RequireFromString("9.995"), "", "")
		assert.ErrorIs(t, err, shared.ErrAmountPrecision)
	})

	t.Run("rejects empty product", func(t *testing.T) {
		_, err := NewLine(userID, "  ", 1, decimal.Zero, "", "")
		assert.Error(t, err)
	})
}

func TestLine_Merge(t *testing.T) {
	line, err := NewLine(uuid.New(), "7", 2, decimal.NewFromInt(500), "M", "")
	require.NoError(t, err)

	newPrice := decimal.NewFromInt(450)
	require.NoError(t, line.Merge(3, &newPrice))
	assert.Equal(t, 5, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(newPrice))

	require.NoError(t, line.Merge(1, nil))
	assert.Equal(t, 6, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(newPrice))

	assert.ErrorIs(t, line.Merge(0, nil), ErrInvalidQuantity)
	subCent := decimal.RequireFromString("449.501")
	assert.ErrorIs(t, line.Merge(1, &subCent), shared.ErrAmountPrecision)
	assert.Equal(t, 6, line.Quantity)
	assert.True(t, line.SameVariant("7", "M", ""))
	assert.False(t, line.SameVariant("7", "L", ""))
}

func TestSubtotal(t *testing.T) {
	userID := uuid.New()
	a, _ := NewLine(userID, "7", 2, decimal.NewFromInt(500), "", "")
	b, _ := NewLine(userID, "8", 1, decimal.RequireFromString("99.50"), "", "")

	total := Subtotal([]Line{*a, *b})
	assert.Equal(t, "1099.5", total.String())
}
