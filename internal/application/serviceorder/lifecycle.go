package serviceorder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/metrics"
)

// Complete finaliza la orden: por cada línea PRODUCT registra una salida en el libro de stock y pasa a COMPLETED.
// Todo ocurre en una sola transacción; si una línea falla se devuelve *domain.LineItemError y no se aplica nada.
func (uc *ServiceOrderUseCase) Complete(ctx context.Context, orderID, actorID string) (*entity.ServiceOrder, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, domain.NewValidationError("actor", "requerido")
	}

	now := uc.clock.Now()
	var (
		completed *entity.ServiceOrder
		exits     int
	)
	err := uc.txRunner.RunServiceOrder(ctx, func(
		orderRepo repository.ServiceOrderRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		exits = 0
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if err := order.CheckCompletable(); err != nil {
			return err
		}

		lines := order.ProductLines()
		products, err := lockProducts(ctx, productRepo, lines)
		if err != nil {
			return err
		}
		for _, line := range lines {
			p := products[*line.ProductID]
			if p == nil {
				return lineError(line, nil, domain.ErrProductNotFound)
			}
			if !p.IsActive {
				return lineError(line, p, domain.ErrProductInactive)
			}
		}

		reason := fmt.Sprintf("service order #%s", order.OrderNumber)
		for _, line := range lines {
			_, err := uc.ledger.ApplyMovementInTx(ctx, movRepo, productRepo, inventory.MovementInput{
				ProductID: *line.ProductID,
				Type:      entity.MovementTypeExit,
				Quantity:  line.StockQuantity(),
				Reason:    reason,
				Reference: order.OrderNumber,
				ActorID:   actorID,
			}, now)
			if err != nil {
				return lineError(line, products[*line.ProductID], err)
			}
			exits++
		}

		if err := order.MarkCompleted(actorID, now); err != nil {
			return err
		}
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		completed = order
		return nil
	})
	metrics.OrderTransitions.WithLabelValues(entity.OrderStatusCompleted, domain.Code(err)).Inc()
	if err != nil {
		ev := uc.log.Warn().Err(err).Str("order_id", orderID).Str("actor", actorID)
		var lineErr *domain.LineItemError
		if errors.As(err, &lineErr) {
			ev = ev.Int("position", lineErr.Position).Str("product_id", lineErr.ProductID)
		}
		ev.Msg("finalización rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("order_id", completed.ID).
		Str("order_number", completed.OrderNumber).
		Int("stock_exits", exits).
		Str("total", completed.Total().String()).
		Str("actor", actorID).
		Msg("orden completada")
	return completed, nil
}

// Cancel pasa la orden a CANCELLED. No toca el inventario.
func (uc *ServiceOrderUseCase) Cancel(ctx context.Context, orderID, actorID string) (*entity.ServiceOrder, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, domain.NewValidationError("actor", "requerido")
	}
	now := uc.clock.Now()
	order, err := uc.mutate(ctx, orderID, func(_ repository.ServiceOrderRepository, _ repository.ProductRepository, order *entity.ServiceOrder) error {
		return order.MarkCancelled(actorID, now)
	})
	metrics.OrderTransitions.WithLabelValues(entity.OrderStatusCancelled, domain.Code(err)).Inc()
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", orderID).Str("actor", actorID).Msg("cancelación rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("actor", actorID).
		Msg("orden cancelada")
	return order, nil
}

// lockProducts bloquea los productos de las líneas en orden ascendente de ID para evitar deadlocks
// entre finalizaciones concurrentes que comparten productos.
func lockProducts(ctx context.Context, productRepo repository.ProductRepository, lines []entity.ServiceOrderItem) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		id := *line.ProductID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	products := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		products[id] = p
	}
	return products, nil
}

func lineError(line entity.ServiceOrderItem, p *entity.Product, err error) error {
	le := &domain.LineItemError{
		Position:  line.Position,
		ItemID:    line.ID,
		ProductID: *line.ProductID,
		Err:       err,
	}
	if p != nil {
		le.ProductName = p.Name
	}
	return le
}
