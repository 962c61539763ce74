package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/application/serviceorder"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/jhoicas/taller-api/pkg/metrics"
)

// Ensure TxRunner implements inventory.TxRunner and serviceorder.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ serviceorder.TxRunner = (*TxRunner)(nil)

// maxRetries reintentos ante serialización fallida o deadlock antes de devolver ErrConcurrentUpdate.
const maxRetries = 1

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, log *logger.Logger) *TxRunner {
	return &TxRunner{pool: pool, log: log.Component("tx_runner")}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewStockMovementRepository(tx), NewProductRepository(tx))
	})
}

// RunServiceOrder inicia una transacción con repos de órdenes e inventario (finalización de órdenes).
func (r *TxRunner) RunServiceOrder(ctx context.Context, fn func(
	orderRepo repository.ServiceOrderRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewServiceOrderRepository(tx), NewStockMovementRepository(tx), NewProductRepository(tx))
	})
}

func (r *TxRunner) withRetry(ctx context.Context, fn func(tx pgx.Tx) error) error {
	for attempt := 0; ; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt >= maxRetries {
			return fmt.Errorf("%w: %v", domain.ErrConcurrentUpdate, err)
		}
		metrics.TxRetries.Inc()
		r.log.Debug().Err(err).Int("attempt", attempt+1).Msg("reintentando transacción")
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
