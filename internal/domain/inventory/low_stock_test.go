package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/inventory"
)

func TestLowStockSummary(t *testing.T) {
	products := []*entity.Product{
		{ID: "ok", StockQuantity: 20, MinStock: 5, IsActive: true},
		{ID: "limite", StockQuantity: 5, MinStock: 5, IsActive: true},
		{ID: "agotado", StockQuantity: 0, MinStock: 5, IsActive: true},
		{ID: "inactivo", StockQuantity: 0, MinStock: 5, IsActive: false},
	}

	a := inventory.LowStockSummary(products)
	assert.Equal(t, 3, a.TotalProducts)
	assert.Equal(t, 2, a.LowStock, "stock igual al mínimo cuenta como bajo")
	assert.Equal(t, 1, a.OutOfStock)
	assert.True(t, a.HasAlerts())

	low := inventory.FilterLowStock(products)
	if assert.Len(t, low, 2) {
		assert.Equal(t, "limite", low[0].ID)
		assert.Equal(t, "agotado", low[1].ID)
	}
}

func TestLowStockSummary_SinAlertas(t *testing.T) {
	a := inventory.LowStockSummary([]*entity.Product{{StockQuantity: 9, MinStock: 5, IsActive: true}})
	assert.False(t, a.HasAlerts())
	assert.Empty(t, inventory.FilterLowStock(nil))
}
