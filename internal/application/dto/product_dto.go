package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicial se registra como CORRECTION.
type CreateProductRequest struct {
	Code          string          `json:"code" validate:"required,min=1,max=50"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Category      string          `json:"category" validate:"max=100"`
	Brand         string          `json:"brand" validate:"max=100"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit" validate:"omitempty,oneof=UNIT LITER PACK"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"gte=0"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"gte=0"`
	InitialStock  int64           `json:"initial_stock" validate:"gte=0"`
	MinStock      *int64          `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: se maneja vía movimientos).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Brand         *string          `json:"brand" validate:"omitempty,max=100"`
	Description   *string          `json:"description"`
	Unit          *string          `json:"unit" validate:"omitempty,oneof=UNIT LITER PACK"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" validate:"omitempty,gte=0"`
	SalePrice     *decimal.Decimal `json:"sale_price" validate:"omitempty,gte=0"`
	MinStock      *int64           `json:"min_stock" validate:"omitempty,gte=0"`
	IsActive      *bool            `json:"is_active"`
}

// ProductResponse salida de un producto con los campos derivados.
type ProductResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	StockQuantity int64           `json:"stock_quantity"`
	MinStock      int64           `json:"min_stock"`
	IsActive      bool            `json:"is_active"`
	IsLowStock    bool            `json:"is_low_stock"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
