package repository

import (
	"context"
	"time"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos. Nil = sin filtro.
type ProductFilter struct {
	Category string
	Active   *bool
	LowStock bool
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateStock es exclusivo del libro de stock; Update nunca toca stock_quantity.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, productID string, quantity int64, updatedAt time.Time) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
}
