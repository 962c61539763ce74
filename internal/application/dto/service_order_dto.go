package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateServiceOrderRequest body para POST /api/service-orders.
type CreateServiceOrderRequest struct {
	VehicleID    string           `json:"vehicle_id" validate:"required,max=64"`
	CustomerID   string           `json:"customer_id" validate:"omitempty,max=64"`
	Observations string           `json:"observations"`
	Items        []AddItemRequest `json:"items" validate:"omitempty,dive"`
}

// AddItemRequest línea nueva. Para PRODUCT el precio se toma del catálogo si UnitPrice es nil.
// Para SERVICE la cantidad por defecto es 1.
type AddItemRequest struct {
	ItemType    string           `json:"item_type" validate:"required,oneof=PRODUCT SERVICE"`
	ProductID   *string          `json:"product_id,omitempty"`
	Description string           `json:"description" validate:"max=255"`
	Quantity    decimal.Decimal  `json:"quantity" validate:"gte=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}

// UpdateItemRequest cambios sobre una línea. Tipo y producto no se modifican.
type UpdateItemRequest struct {
	Description *string          `json:"description,omitempty" validate:"omitempty,max=255"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}

// UpdateObservationsRequest body para PUT /api/service-orders/:id/observations.
type UpdateObservationsRequest struct {
	Observations string `json:"observations"`
}

// ServiceOrderItemResponse salida de una línea; subtotal calculado.
type ServiceOrderItemResponse struct {
	ID          string          `json:"id"`
	Position    int             `json:"position"`
	ItemType    string          `json:"item_type"`
	ProductID   *string         `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ServiceOrderResponse salida de una orden; total calculado en cada lectura.
type ServiceOrderResponse struct {
	ID           string                     `json:"id"`
	OrderNumber  string                     `json:"order_number"`
	VehicleID    string                     `json:"vehicle_id"`
	CustomerID   string                     `json:"customer_id,omitempty"`
	Status       string                     `json:"status"`
	Observations string                     `json:"observations"`
	Items        []ServiceOrderItemResponse `json:"items"`
	Total        decimal.Decimal            `json:"total"`
	CreatedBy    string                     `json:"created_by"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
	CompletedAt  *time.Time                 `json:"completed_at,omitempty"`
	CompletedBy  string                     `json:"completed_by,omitempty"`
	CancelledAt  *time.Time                 `json:"cancelled_at,omitempty"`
	CancelledBy  string                     `json:"cancelled_by,omitempty"`
}

// ServiceOrderListResponse lista paginada de órdenes.
type ServiceOrderListResponse struct {
	Items []ServiceOrderResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// ServiceOrderStatsResponse conteos por estado e ingresos de órdenes completadas.
type ServiceOrderStatsResponse struct {
	Total     int             `json:"total"`
	Pending   int             `json:"pending"`
	Completed int             `json:"completed"`
	Cancelled int             `json:"cancelled"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// LineItemErrorResponse detalle de la línea que impidió finalizar la orden.
type LineItemErrorResponse struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Position    int    `json:"position"`
	ItemID      string `json:"item_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
}
