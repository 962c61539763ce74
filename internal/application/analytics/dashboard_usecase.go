// Package analytics contiene el resumen del tablero del taller: órdenes y alertas de inventario.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/inventory"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/clock"
)

const dashboardCriticalProducts = 5 // productos en el widget de stock crítico

// DashboardUseCase genera el resumen del tablero.
//
// Fuente de datos: repositorios de órdenes y de productos (solo lectura).
// Las alertas usan la misma definición que el libro de stock (LowStockSummary).
type DashboardUseCase struct {
	orderRepo   repository.ServiceOrderRepository
	productRepo repository.ProductRepository
	clock       clock.Clock
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	orderRepo repository.ServiceOrderRepository,
	productRepo repository.ProductRepository,
	clk clock.Clock,
) *DashboardUseCase {
	return &DashboardUseCase{orderRepo: orderRepo, productRepo: productRepo, clock: clk}
}

// GetSummary construye el DashboardSummaryResponse.
//
// Dos consultas en paralelo:
//  1. Statistics()           → conteos por estado + ingresos
//  2. List(activos)          → alertas de stock, valor del inventario y productos críticos
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	now := uc.clock.Now()

	type statsResult struct {
		stats *repository.ServiceOrderStats
		err   error
	}
	type productsResult struct {
		products []*entity.Product
		err      error
	}

	statsCh := make(chan statsResult, 1)
	productsCh := make(chan productsResult, 1)

	go func() {
		stats, err := uc.orderRepo.Statistics(ctx)
		statsCh <- statsResult{stats, err}
	}()
	go func() {
		active := true
		products, err := uc.productRepo.List(ctx, repository.ProductFilter{Active: &active})
		productsCh <- productsResult{products, err}
	}()

	stats := <-statsCh
	prods := <-productsCh

	if stats.err != nil {
		return nil, fmt.Errorf("dashboard: estadísticas de órdenes: %w", stats.err)
	}
	if prods.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", prods.err)
	}

	alert := inventory.LowStockSummary(prods.products)
	critical := criticalProducts(prods.products, dashboardCriticalProducts)

	out := &dto.DashboardSummaryResponse{
		Orders:           *dto.ToServiceOrderStatsResponse(stats.stats),
		StockAlerts:      *dto.ToStockAlertResponse(alert),
		CriticalProducts: make([]dto.CriticalProductResponse, 0, len(critical)),
		InventoryValue:   inventoryValue(prods.products),
		DateLabel:        monthLabel(now),
		GeneratedAt:      now,
	}
	for _, p := range critical {
		out.CriticalProducts = append(out.CriticalProducts, dto.CriticalProductResponse{
			ID:            p.ID,
			Code:          p.Code,
			Name:          p.Name,
			StockQuantity: p.StockQuantity,
			MinStock:      p.MinStock,
			Shortfall:     p.MinStock - p.StockQuantity,
		})
	}
	return out, nil
}

// criticalProducts productos bajo mínimo ordenados por faltante (mayor primero), luego por código.
func criticalProducts(products []*entity.Product, limit int) []*entity.Product {
	low := inventory.FilterLowStock(products)
	sort.SliceStable(low, func(i, j int) bool {
		si := low[i].MinStock - low[i].StockQuantity
		sj := low[j].MinStock - low[j].StockQuantity
		if si != sj {
			return si > sj
		}
		return low[i].Code < low[j].Code
	})
	if len(low) > limit {
		low = low[:limit]
	}
	return low
}

// inventoryValue valor del inventario activo a precio de venta.
func inventoryValue(products []*entity.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		if p == nil || !p.IsActive {
			continue
		}
		total = total.Add(p.SalePrice.Mul(decimal.NewFromInt(p.StockQuantity)))
	}
	return total.Round(2)
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
