package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// MovementFilter filtros de consulta del libro de movimientos.
type MovementFilter struct {
	ProductID string
	Type      string
	Reference string
	Limit     int
	Offset    int
}

// StockMovementRepository puerto append-only: no existe Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// GetLatestByProduct último movimiento del producto o nil si no tiene.
	GetLatestByProduct(ctx context.Context, productID string) (*entity.StockMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
