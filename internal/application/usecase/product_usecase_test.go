package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/pkg/clock"
	"github.com/jhoicas/taller-api/pkg/logger"
)

const testActor = "00000000-0000-0000-0000-000000000001"

func newProductUC(t *testing.T) (*usecase.ProductUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewFakeClock(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	ledger := inventory.NewStockLedgerUseCase(store, store.Products(), store.Movements(), clk, logger.Nop())
	return usecase.NewProductUseCase(store, store.Products(), ledger, clk), store
}

func oilRequest() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Code: "ACE-20W50", Name: "Aceite 20W50", Category: "Lubricantes", Unit: entity.UnitMeasureLiter,
		PurchasePrice: decimal.NewFromInt(30), SalePrice: decimal.NewFromInt(45), InitialStock: 12,
	}
}

func TestProductCreate_StockInicialPasaPorElLibro(t *testing.T) {
	ctx := context.Background()
	uc, store := newProductUC(t)

	p, err := uc.Create(ctx, testActor, oilRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(12), p.StockQuantity)
	assert.Equal(t, entity.DefaultMinStock, p.MinStock)
	assert.True(t, p.IsActive)

	movs, err := store.Movements().List(ctx, repository.MovementFilter{ProductID: p.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeCorrection, movs[0].Type)
	assert.Equal(t, int64(0), movs[0].PreviousQuantity)
	assert.Equal(t, int64(12), movs[0].ResultingQuantity)
	assert.Equal(t, testActor, movs[0].PerformedBy)
}

func TestProductCreate_SinStockNoGeneraMovimiento(t *testing.T) {
	ctx := context.Background()
	uc, store := newProductUC(t)
	req := oilRequest()
	req.InitialStock = 0
	req.Unit = ""

	p, err := uc.Create(ctx, "", req)
	require.NoError(t, err)
	assert.Equal(t, entity.UnitMeasureUnit, p.Unit)
	movs, _ := store.Movements().List(ctx, repository.MovementFilter{})
	assert.Empty(t, movs)
}

func TestProductCreate_Rechazos(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProductUC(t)
	_, err := uc.Create(ctx, testActor, oilRequest())
	require.NoError(t, err)

	_, err = uc.Create(ctx, testActor, oilRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	bad := oilRequest()
	bad.Code = "OTRO"
	bad.SalePrice = decimal.NewFromInt(10)
	_, err = uc.Create(ctx, testActor, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio de venta menor al de compra")

	bad = oilRequest()
	bad.Code = ""
	_, err = uc.Create(ctx, testActor, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = oilRequest()
	bad.Code = "SIN-ACTOR"
	_, err = uc.Create(ctx, "", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUpdate_NoTocaStock(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProductUC(t)
	p, err := uc.Create(ctx, testActor, oilRequest())
	require.NoError(t, err)

	price := decimal.NewFromInt(50)
	inactive := false
	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{SalePrice: &price, IsActive: &inactive})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.SalePrice))
	assert.False(t, updated.IsActive)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.StockQuantity)

	_, err = uc.Update(ctx, "nope", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductList_FiltrosYCategorias(t *testing.T) {
	ctx := context.Background()
	uc, _ := newProductUC(t)
	_, err := uc.Create(ctx, testActor, oilRequest())
	require.NoError(t, err)

	filter := oilRequest()
	filter.Code = "FIL-01"
	filter.Name = "Filtro de aire"
	filter.Category = "Filtros"
	filter.InitialStock = 2
	_, err = uc.Create(ctx, testActor, filter)
	require.NoError(t, err)

	low, err := uc.List(ctx, repository.ProductFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "FIL-01", low[0].Code)

	byCat, err := uc.List(ctx, repository.ProductFilter{Category: "Lubricantes"})
	require.NoError(t, err)
	require.Len(t, byCat, 1)

	cats, err := uc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Filtros", "Lubricantes"}, cats)
}
