package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryResponse resumen del tablero del taller.
type DashboardSummaryResponse struct {
	Orders           ServiceOrderStatsResponse `json:"orders"`
	StockAlerts      StockAlertResponse        `json:"stock_alerts"`
	CriticalProducts []CriticalProductResponse `json:"critical_products"`
	InventoryValue   decimal.Decimal           `json:"inventory_value"` // Σ precio de venta × stock
	DateLabel        string                    `json:"date_label"`      // ej: "Febrero 2026"
	GeneratedAt      time.Time                 `json:"generated_at"`
}

// CriticalProductResponse producto bajo mínimo en el widget del tablero.
type CriticalProductResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	StockQuantity int64  `json:"stock_quantity"`
	MinStock      int64  `json:"min_stock"`
	Shortfall     int64  `json:"shortfall"` // min_stock - stock_quantity
}
