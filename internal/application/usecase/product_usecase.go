package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/clock"
	"github.com/jhoicas/taller-api/pkg/validator"
)

// StockLedger libro de stock usado para registrar el stock inicial en la misma tx del alta.
type StockLedger interface {
	ApplyMovementInTx(
		ctx context.Context,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		in inventory.MovementInput,
		now time.Time,
	) (*entity.StockMovement, error)
}

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	txRunner inventory.TxRunner
	repo     repository.ProductRepository
	ledger   StockLedger
	clock    clock.Clock
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, repo repository.ProductRepository, ledger StockLedger, clk clock.Clock) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, ledger: ledger, clock: clk}
}

// Create crea un producto con stock 0; si initial_stock > 0 se registra una CORRECTION en el libro.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*entity.Product, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	if in.InitialStock > 0 && strings.TrimSpace(actorID) == "" {
		return nil, domain.NewValidationError("actor", "requerido")
	}
	if in.Unit == "" {
		in.Unit = entity.UnitMeasureUnit
	}
	minStock := entity.DefaultMinStock
	if in.MinStock != nil {
		minStock = *in.MinStock
	}
	now := uc.clock.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          strings.TrimSpace(in.Code),
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.TrimSpace(in.Category),
		Brand:         in.Brand,
		Description:   in.Description,
		Unit:          in.Unit,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		StockQuantity: 0,
		MinStock:      minStock,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		existing, err := productRepo.GetByCode(ctx, product.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		mov, err := uc.ledger.ApplyMovementInTx(ctx, movRepo, productRepo, inventory.MovementInput{
			ProductID: product.ID,
			Type:      entity.MovementTypeCorrection,
			Quantity:  in.InitialStock,
			Reason:    "stock inicial",
			ActorID:   actorID,
		}, now)
		if err != nil {
			return err
		}
		product.StockQuantity = mov.ResultingQuantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// Update actualiza datos de catálogo. No permite modificar el stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	product, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.PurchasePrice != nil {
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	product.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// List lista productos por nombre con filtros de categoría, estado y stock bajo.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	return uc.repo.List(ctx, filter)
}

// Categories categorías distintas del catálogo.
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	return uc.repo.Categories(ctx)
}
