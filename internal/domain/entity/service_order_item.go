package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Tipos de ítem de una orden de servicio.
const (
	ItemTypeProduct = "PRODUCT" // consumo de un producto del inventario
	ItemTypeService = "SERVICE" // mano de obra o cargo libre
)

// Límites de cantidades y precios.
const itemAmountScale = 2

var maxItemAmount = decimal.RequireFromString("9999999999.99")

// ServiceOrderItem línea de una orden. UnitPrice queda congelado al agregarse.
type ServiceOrderItem struct {
	ID          string
	OrderID     string
	Position    int
	Type        string
	ProductID   *string // obligatorio si Type = PRODUCT, prohibido si SERVICE
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
}

// ItemPatch cambios permitidos sobre una línea existente. Tipo y producto no se modifican.
type ItemPatch struct {
	Description *string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
}

// Subtotal = Quantity * UnitPrice. No se almacena.
func (i *ServiceOrderItem) Subtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// IsProduct indica si la línea consume inventario.
func (i *ServiceOrderItem) IsProduct() bool {
	return i.Type == ItemTypeProduct
}

// Validate verifica campos obligatorios por tipo, cantidad y precio.
func (i *ServiceOrderItem) Validate() error {
	switch i.Type {
	case ItemTypeProduct:
		if i.ProductID == nil || *i.ProductID == "" {
			return domain.NewValidationError("product_id", "requerido para ítems PRODUCT")
		}
		// El stock es entero: un producto no se consume en fracciones.
		if !i.Quantity.Equal(i.Quantity.Truncate(0)) {
			return domain.NewValidationError("quantity", "debe ser entera para ítems PRODUCT")
		}
	case ItemTypeService:
		if i.ProductID != nil {
			return domain.NewValidationError("product_id", "no permitido en ítems SERVICE")
		}
		if strings.TrimSpace(i.Description) == "" {
			return domain.NewValidationError("description", "requerida para ítems SERVICE")
		}
	default:
		return domain.NewValidationError("item_type", "debe ser PRODUCT o SERVICE")
	}
	if !i.Quantity.GreaterThan(decimal.Zero) {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if err := checkAmount("quantity", i.Quantity); err != nil {
		return err
	}
	if i.UnitPrice.IsNegative() {
		return domain.NewValidationError("unit_price", "no puede ser negativo")
	}
	return checkAmount("unit_price", i.UnitPrice)
}

// checkAmount el valor debe guardarse sin redondeo (NUMERIC(12,2)): a lo sumo 2 decimales y dentro del máximo.
func checkAmount(field string, v decimal.Decimal) error {
	if !v.Equal(v.Round(itemAmountScale)) {
		return domain.NewValidationError(field, "admite a lo sumo 2 decimales")
	}
	if v.GreaterThan(maxItemAmount) {
		return domain.NewValidationError(field, "supera el máximo "+maxItemAmount.String())
	}
	return nil
}

// StockQuantity cantidad entera a descontar del inventario. Validate acota Quantity, así que cabe en int64.
func (i *ServiceOrderItem) StockQuantity() int64 {
	return i.Quantity.IntPart()
}
