package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates an active product with uppercased code", func(t *testing.T) {
		product, err := NewProduct("amx-500", "Amoxicillin 500mg", "box")
		require.NoError(t, err)

		assert.Equal(t, "AMX-500", product.Code)
		assert.True(t, product.IsActive())
		assert.Len(t, product.GetDomainEvents(), 1)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewProduct("", "Amoxicillin 500mg", "box")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("AMX-500", "", "box")
		assert.Error(t, err)
	})

	t.Run("rejects empty unit", func(t *testing.T) {
		_, err := NewProduct("AMX-500", "Amoxicillin 500mg", "")
		assert.Error(t, err)
	})
}

func TestProduct_SetUnitPrice(t *testing.T) {
	product, err := NewProduct("AMX-500", "Amoxicillin 500mg", "box")
	require.NoError(t, err)

	t.Run("updates the price and raises an event", func(t *testing.T) {
		err := product.SetUnitPrice(valueobject.NewDefaultMoney(decimal.NewFromInt(150)))
		require.NoError(t, err)
		assert.True(t, product.UnitPrice.Equal(decimal.NewFromInt(150)))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		err := product.SetUnitPrice(valueobject.NewDefaultMoney(decimal.NewFromInt(-1)))
		assert.Error(t, err)
	})
}

func TestProduct_ToggleActive(t *testing.T) {
	product, err := NewProduct("AMX-500", "Amoxicillin 500mg", "box")
	require.NoError(t, err)

	product.ToggleActive()
	assert.False(t, product.IsActive())
	assert.NotNil(t, product.DeactivatedAt)

	product.ToggleActive()
	assert.True(t, product.IsActive())
	assert.Nil(t, product.DeactivatedAt)
}

func TestProduct_Update(t *testing.T) {
	product, err := NewProduct("AMX-500", "Amoxicillin 500mg", "box")
	require.NoError(t, err)

	require.NoError(t, product.Update("Amoxicillin 500mg Capsules", "Blister of 10"))
	assert.Equal(t, "Amoxicillin 500mg Capsules", product.Name)
	assert.Equal(t, "Blister of 10", product.Description)

	assert.Error(t, product.Update("", ""))
}
