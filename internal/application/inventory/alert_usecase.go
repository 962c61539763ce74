package inventory

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/inventory"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// StockAlertUseCase alertas de stock bajo. Solo lectura, derivadas del catálogo en cada consulta.
type StockAlertUseCase struct {
	productRepo repository.ProductRepository
}

// NewStockAlertUseCase construye el caso de uso.
func NewStockAlertUseCase(productRepo repository.ProductRepository) *StockAlertUseCase {
	return &StockAlertUseCase{productRepo: productRepo}
}

func (uc *StockAlertUseCase) activeProducts(ctx context.Context) ([]*entity.Product, error) {
	active := true
	return uc.productRepo.List(ctx, repository.ProductFilter{Active: &active})
}

// Summary cuenta productos activos bajo mínimo y agotados.
func (uc *StockAlertUseCase) Summary(ctx context.Context) (inventory.StockAlert, error) {
	products, err := uc.activeProducts(ctx)
	if err != nil {
		return inventory.StockAlert{}, err
	}
	return inventory.LowStockSummary(products), nil
}

// ListLowStock productos activos con stock en o bajo el mínimo.
func (uc *StockAlertUseCase) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	products, err := uc.activeProducts(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.FilterLowStock(products), nil
}
