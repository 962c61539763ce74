package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/inventory"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/clock"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/jhoicas/taller-api/pkg/metrics"
)

// StockLedgerUseCase es el único escritor de products.stock_quantity.
// Cada cambio se registra como un StockMovement en la misma transacción, con bloqueo de fila
// del producto (SELECT FOR UPDATE) para serializar movimientos concurrentes sobre el mismo producto.
type StockLedgerUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	clock        clock.Clock
	log          *logger.Logger
}

// NewStockLedgerUseCase construye el caso de uso.
func NewStockLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	clk clock.Clock,
	log *logger.Logger,
) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		clock:        clk,
		log:          log.Component("stock_ledger"),
	}
}

// MovementInput entrada para aplicar un movimiento.
// ENTRY/EXIT: Quantity > 0. CORRECTION: Quantity es la cantidad absoluta (>= 0).
type MovementInput struct {
	ProductID string
	Type      string
	Quantity  int64
	Reason    string
	Reference string
	ActorID   string
}

func (in MovementInput) validate() error {
	if strings.TrimSpace(in.ProductID) == "" {
		return domain.NewValidationError("product_id", "requerido")
	}
	if strings.TrimSpace(in.ActorID) == "" {
		return domain.NewValidationError("actor", "requerido")
	}
	if !entity.ValidMovementType(in.Type) {
		return domain.NewValidationError("type", "debe ser ENTRY, EXIT o CORRECTION")
	}
	if in.Type == entity.MovementTypeCorrection {
		if in.Quantity < 0 {
			return domain.ErrInvalidQuantity
		}
	} else if in.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// ApplyMovement abre una transacción, bloquea el producto, calcula la nueva cantidad,
// la persiste junto con el movimiento y hace Commit. Cualquier error hace Rollback.
func (uc *StockLedgerUseCase) ApplyMovement(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		metrics.StockMovements.WithLabelValues(in.Type, domain.Code(err)).Inc()
		return nil, err
	}

	now := uc.clock.Now()
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		m, err := uc.ApplyMovementInTx(ctx, movRepo, productRepo, in, now)
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	metrics.StockMovements.WithLabelValues(in.Type, domain.Code(err)).Inc()
	if err != nil {
		uc.log.Warn().Err(err).
			Str("product_id", in.ProductID).
			Str("type", in.Type).
			Int64("quantity", in.Quantity).
			Str("actor", in.ActorID).
			Msg("movimiento rechazado")
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("type", mov.Type).
		Int64("quantity", mov.Quantity).
		Int64("resulting_quantity", mov.ResultingQuantity).
		Str("reference", mov.Reference).
		Str("actor", mov.PerformedBy).
		Msg("movimiento aplicado")
	return mov, nil
}

// ApplyMovementInTx aplica el movimiento usando los repositorios proporcionados (misma transacción del caller).
// Lo usa la finalización de órdenes para descontar varias líneas de forma atómica.
func (uc *StockLedgerUseCase) ApplyMovementInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	in MovementInput,
	now time.Time,
) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	// Bloquea la fila del producto hasta Commit/Rollback
	product, err := productRepo.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if !product.IsActive {
		return nil, domain.ErrProductInactive
	}

	next, err := inventory.ApplyMovement(product.StockQuantity, in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStock(ctx, product.ID, next, now); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:                uuid.New().String(),
		ProductID:         product.ID,
		Type:              in.Type,
		Quantity:          in.Quantity,
		PreviousQuantity:  product.StockQuantity,
		ResultingQuantity: next,
		Reason:            in.Reason,
		Reference:         in.Reference,
		PerformedBy:       in.ActorID,
		CreatedAt:         now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// ListMovements consulta el libro (más recientes primero).
func (uc *StockLedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Type != "" && !entity.ValidMovementType(filter.Type) {
		return nil, domain.NewValidationError("movement_type", "debe ser ENTRY, EXIT o CORRECTION")
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.movementRepo.List(ctx, filter)
}

// LedgerCheck resultado de comparar el stock visible con el último movimiento.
type LedgerCheck struct {
	ProductID             string
	StockQuantity         int64
	LastResultingQuantity *int64
	LastMovementID        string
	Consistent            bool
}

// VerifyLedger comprueba que stock_quantity coincide con resulting_quantity del último movimiento
// (o que no hay movimientos todavía).
func (uc *StockLedgerUseCase) VerifyLedger(ctx context.Context, productID string) (*LedgerCheck, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	last, err := uc.movementRepo.GetLatestByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	check := &LedgerCheck{ProductID: productID, StockQuantity: product.StockQuantity, Consistent: true}
	if last != nil {
		q := last.ResultingQuantity
		check.LastResultingQuantity = &q
		check.LastMovementID = last.ID
		check.Consistent = q == product.StockQuantity
	}
	if !check.Consistent {
		uc.log.Error().
			Str("product_id", productID).
			Int64("stock_quantity", product.StockQuantity).
			Int64("last_resulting_quantity", last.ResultingQuantity).
			Msg("libro de stock inconsistente")
	}
	return check, nil
}
