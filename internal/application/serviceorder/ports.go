package serviceorder

import (
	"context"
	"time"

	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios de órdenes e inventario
// atados a la misma tx. La finalización descuenta stock y cambia el estado de forma atómica.
type TxRunner interface {
	RunServiceOrder(ctx context.Context, fn func(
		orderRepo repository.ServiceOrderRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockLedger puerto hacia el libro de stock, usado dentro de la transacción de la orden.
type StockLedger interface {
	ApplyMovementInTx(
		ctx context.Context,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		in inventory.MovementInput,
		now time.Time,
	) (*entity.StockMovement, error)
}
