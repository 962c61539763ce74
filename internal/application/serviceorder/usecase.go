package serviceorder

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/clock"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/jhoicas/taller-api/pkg/validator"
)

// ServiceOrderUseCase casos de uso de la orden de servicio: edición mientras está PENDING,
// consultas y el ciclo de vida (ver lifecycle.go).
type ServiceOrderUseCase struct {
	txRunner  TxRunner
	orderRepo repository.ServiceOrderRepository
	ledger    StockLedger
	clock     clock.Clock
	log       *logger.Logger
}

// NewServiceOrderUseCase construye el caso de uso.
func NewServiceOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.ServiceOrderRepository,
	ledger StockLedger,
	clk clock.Clock,
	log *logger.Logger,
) *ServiceOrderUseCase {
	return &ServiceOrderUseCase{
		txRunner:  txRunner,
		orderRepo: orderRepo,
		ledger:    ledger,
		clock:     clk,
		log:       log.Component("service_orders"),
	}
}

// Create abre una orden PENDING con número consecutivo y, opcionalmente, sus primeras líneas.
func (uc *ServiceOrderUseCase) Create(ctx context.Context, actorID string, in dto.CreateServiceOrderRequest) (*entity.ServiceOrder, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, domain.NewValidationError("actor", "requerido")
	}
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var created *entity.ServiceOrder
	err := uc.txRunner.RunServiceOrder(ctx, func(
		orderRepo repository.ServiceOrderRepository,
		_ repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		number, err := orderRepo.NextOrderNumber(ctx)
		if err != nil {
			return err
		}
		order := &entity.ServiceOrder{
			ID:           uuid.New().String(),
			OrderNumber:  number,
			VehicleID:    in.VehicleID,
			CustomerID:   in.CustomerID,
			Status:       entity.OrderStatusPending,
			Observations: in.Observations,
			CreatedBy:    actorID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		for _, req := range in.Items {
			item, err := buildItem(ctx, productRepo, req)
			if err != nil {
				return err
			}
			if _, err := order.AddItem(item, now); err != nil {
				return err
			}
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", created.ID).
		Str("order_number", created.OrderNumber).
		Str("vehicle_id", created.VehicleID).
		Int("items", len(created.Items)).
		Str("actor", actorID).
		Msg("orden creada")
	return created, nil
}

// AddItem agrega una línea a una orden PENDING. El precio de un PRODUCT se congela con el precio de venta actual
// salvo que se indique uno explícito.
func (uc *ServiceOrderUseCase) AddItem(ctx context.Context, orderID string, in dto.AddItemRequest) (*entity.ServiceOrder, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	return uc.mutate(ctx, orderID, func(orderRepo repository.ServiceOrderRepository, productRepo repository.ProductRepository, order *entity.ServiceOrder) error {
		if !order.IsMutable() {
			return domain.ErrInvalidTransition
		}
		item, err := buildItem(ctx, productRepo, in)
		if err != nil {
			return err
		}
		added, err := order.AddItem(item, now)
		if err != nil {
			return err
		}
		return orderRepo.CreateItem(ctx, added)
	})
}

// UpdateItem modifica cantidad, descripción o precio de una línea. El precio no se relee del catálogo.
func (uc *ServiceOrderUseCase) UpdateItem(ctx context.Context, orderID, itemID string, in dto.UpdateItemRequest) (*entity.ServiceOrder, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	patch := entity.ItemPatch{Description: in.Description, Quantity: in.Quantity, UnitPrice: in.UnitPrice}
	return uc.mutate(ctx, orderID, func(orderRepo repository.ServiceOrderRepository, _ repository.ProductRepository, order *entity.ServiceOrder) error {
		updated, err := order.UpdateItem(itemID, patch, now)
		if err != nil {
			return err
		}
		return orderRepo.UpdateItem(ctx, updated)
	})
}

// RemoveItem elimina una línea de una orden PENDING.
func (uc *ServiceOrderUseCase) RemoveItem(ctx context.Context, orderID, itemID string) (*entity.ServiceOrder, error) {
	now := uc.clock.Now()
	return uc.mutate(ctx, orderID, func(orderRepo repository.ServiceOrderRepository, _ repository.ProductRepository, order *entity.ServiceOrder) error {
		if err := order.RemoveItem(itemID, now); err != nil {
			return err
		}
		return orderRepo.DeleteItem(ctx, order.ID, itemID)
	})
}

// UpdateObservations reemplaza las observaciones de una orden PENDING.
func (uc *ServiceOrderUseCase) UpdateObservations(ctx context.Context, orderID, text string) (*entity.ServiceOrder, error) {
	now := uc.clock.Now()
	return uc.mutate(ctx, orderID, func(_ repository.ServiceOrderRepository, _ repository.ProductRepository, order *entity.ServiceOrder) error {
		return order.SetObservations(text, now)
	})
}

// mutate bloquea la orden, aplica fn y persiste la cabecera (updated_at, observaciones) en la misma tx.
func (uc *ServiceOrderUseCase) mutate(
	ctx context.Context,
	orderID string,
	fn func(orderRepo repository.ServiceOrderRepository, productRepo repository.ProductRepository, order *entity.ServiceOrder) error,
) (*entity.ServiceOrder, error) {
	var out *entity.ServiceOrder
	err := uc.txRunner.RunServiceOrder(ctx, func(
		orderRepo repository.ServiceOrderRepository,
		_ repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if err := fn(orderRepo, productRepo, order); err != nil {
			return err
		}
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get obtiene la orden con sus líneas.
func (uc *ServiceOrderUseCase) Get(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// List lista órdenes (más recientes primero) con filtros opcionales.
func (uc *ServiceOrderUseCase) List(ctx context.Context, filter repository.ServiceOrderFilter) ([]*entity.ServiceOrder, error) {
	if filter.Status != "" && !entity.ValidOrderStatus(filter.Status) {
		return nil, domain.NewValidationError("status", "debe ser PENDING, COMPLETED o CANCELLED")
	}
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	return uc.orderRepo.List(ctx, filter)
}

// Statistics conteos por estado e ingresos de las órdenes completadas.
func (uc *ServiceOrderUseCase) Statistics(ctx context.Context) (*repository.ServiceOrderStats, error) {
	return uc.orderRepo.Statistics(ctx)
}

// buildItem arma la línea a partir de la petición. Para PRODUCT lee el producto (debe existir y estar activo).
func buildItem(ctx context.Context, productRepo repository.ProductRepository, in dto.AddItemRequest) (entity.ServiceOrderItem, error) {
	item := entity.ServiceOrderItem{
		ID:          uuid.New().String(),
		Type:        in.ItemType,
		ProductID:   in.ProductID,
		Description: strings.TrimSpace(in.Description),
		Quantity:    in.Quantity,
	}
	switch in.ItemType {
	case entity.ItemTypeProduct:
		if in.ProductID == nil || *in.ProductID == "" {
			return item, domain.NewValidationError("product_id", "requerido para ítems PRODUCT")
		}
		product, err := productRepo.GetByID(ctx, *in.ProductID)
		if err != nil {
			return item, err
		}
		if product == nil {
			return item, domain.ErrProductNotFound
		}
		if !product.IsActive {
			return item, domain.ErrProductInactive
		}
		if item.Description == "" {
			item.Description = product.Name
		}
		item.UnitPrice = product.SalePrice
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}
	case entity.ItemTypeService:
		if in.UnitPrice == nil {
			return item, domain.NewValidationError("unit_price", "requerido para ítems SERVICE")
		}
		item.UnitPrice = *in.UnitPrice
		if item.Quantity.IsZero() {
			item.Quantity = decimal.NewFromInt(1)
		}
	}
	return item, item.Validate()
}
