package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Unidades de medida del catálogo.
const (
	UnitMeasureUnit  = "UNIT"
	UnitMeasureLiter = "LITER"
	UnitMeasurePack  = "PACK"
)

// DefaultMinStock stock mínimo por defecto al crear productos.
const DefaultMinStock int64 = 5

var hundred = decimal.NewFromInt(100)

// Product representa un repuesto o insumo del taller (aceites, filtros, etc.).
// StockQuantity solo lo modifica el libro de stock mediante movimientos.
type Product struct {
	ID            string
	Code          string // código único
	Name          string
	Category      string
	Brand         string
	Description   string
	Unit          string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	StockQuantity int64
	MinStock      int64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo. Se calcula en cada lectura.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStock
}

// IsOutOfStock indica stock en cero.
func (p *Product) IsOutOfStock() bool {
	return p.StockQuantity <= 0
}

// ProfitMargin = (venta - compra) / compra * 100. Cero si el precio de compra es cero.
func (p *Product) ProfitMargin() decimal.Decimal {
	if !p.PurchasePrice.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return p.SalePrice.Sub(p.PurchasePrice).Div(p.PurchasePrice).Mul(hundred).Round(2)
}

// ValidUnitMeasure indica si la unidad pertenece al catálogo.
func ValidUnitMeasure(unit string) bool {
	switch unit {
	case UnitMeasureUnit, UnitMeasureLiter, UnitMeasurePack:
		return true
	}
	return false
}

// Validate verifica las reglas de catálogo del producto.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return domain.NewValidationError("code", "requerido")
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("name", "requerido")
	}
	if !ValidUnitMeasure(p.Unit) {
		return domain.NewValidationError("unit", "debe ser UNIT, LITER o PACK")
	}
	if p.PurchasePrice.IsNegative() {
		return domain.NewValidationError("purchase_price", "no puede ser negativo")
	}
	if p.SalePrice.IsNegative() {
		return domain.NewValidationError("sale_price", "no puede ser negativo")
	}
	if err := checkAmount("purchase_price", p.PurchasePrice); err != nil {
		return err
	}
	if err := checkAmount("sale_price", p.SalePrice); err != nil {
		return err
	}
	if p.SalePrice.LessThan(p.PurchasePrice) {
		return domain.NewValidationError("sale_price", "debe ser mayor o igual al precio de compra")
	}
	if p.StockQuantity < 0 {
		return domain.NewValidationError("stock_quantity", "no puede ser negativo")
	}
	if p.MinStock < 0 {
		return domain.NewValidationError("min_stock", "no puede ser negativo")
	}
	return nil
}
