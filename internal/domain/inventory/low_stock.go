package inventory

import "github.com/jhoicas/taller-api/internal/domain/entity"

// StockAlert resumen de alertas de stock sobre los productos activos.
type StockAlert struct {
	TotalProducts int
	LowStock      int // stock <= mínimo (incluye los agotados)
	OutOfStock    int // stock == 0
}

// HasAlerts indica si hay al menos un producto bajo mínimo.
func (a StockAlert) HasAlerts() bool {
	return a.LowStock > 0
}

// LowStockSummary cuenta productos activos bajo mínimo y agotados. Definición única de la alerta.
func LowStockSummary(products []*entity.Product) StockAlert {
	var a StockAlert
	for _, p := range products {
		if p == nil || !p.IsActive {
			continue
		}
		a.TotalProducts++
		if p.IsLowStock() {
			a.LowStock++
		}
		if p.IsOutOfStock() {
			a.OutOfStock++
		}
	}
	return a
}

// FilterLowStock devuelve los productos activos bajo mínimo, en el mismo orden.
func FilterLowStock(products []*entity.Product) []*entity.Product {
	out := make([]*entity.Product, 0)
	for _, p := range products {
		if p != nil && p.IsActive && p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}
