package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// En CORRECTION, quantity es la cantidad absoluta resultante.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=ENTRY EXIT CORRECTION"`
	Quantity  int64  `json:"quantity" validate:"gte=0"`
	Reason    string `json:"reason" validate:"max=255"`
	Reference string `json:"reference" validate:"max=100"`
}

// StockMovementResponse salida de un movimiento del libro.
type StockMovementResponse struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	Type              string    `json:"type"`
	Quantity          int64     `json:"quantity"`
	PreviousQuantity  int64     `json:"previous_quantity"`
	ResultingQuantity int64     `json:"resulting_quantity"`
	Reason            string    `json:"reason"`
	Reference         string    `json:"reference,omitempty"`
	PerformedBy       string    `json:"performed_by"`
	CreatedAt         time.Time `json:"created_at"`
}

// StockMovementListResponse lista paginada de movimientos.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// StockAlertResponse resumen de alertas de inventario.
type StockAlertResponse struct {
	TotalProducts int  `json:"total_products"`
	LowStock      int  `json:"low_stock"`
	OutOfStock    int  `json:"out_of_stock"`
	HasAlerts     bool `json:"has_alerts"`
}

// LedgerCheckResponse resultado de la verificación del libro de un producto.
type LedgerCheckResponse struct {
	ProductID             string `json:"product_id"`
	StockQuantity         int64  `json:"stock_quantity"`
	LastResultingQuantity *int64 `json:"last_resulting_quantity"`
	LastMovementID        string `json:"last_movement_id,omitempty"`
	Consistent            bool   `json:"consistent"`
}
