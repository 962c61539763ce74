package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ServiceOrderFilter filtros del listado de órdenes.
type ServiceOrderFilter struct {
	Status     string
	VehicleID  string
	CustomerID string
	Limit      int
	Offset     int
}

// ServiceOrderStats resultado crudo de la consulta de estadísticas.
type ServiceOrderStats struct {
	Total     int
	Pending   int
	Completed int
	Cancelled int
	Revenue   decimal.Decimal // suma de subtotales de órdenes COMPLETED
}

// ServiceOrderRepository puerto de persistencia de órdenes y sus ítems.
// Las lecturas devuelven la orden con sus ítems ordenados por posición.
type ServiceOrderRepository interface {
	NextOrderNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, order *entity.ServiceOrder) error
	GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error)
	// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE) para serializar transiciones.
	GetForUpdate(ctx context.Context, id string) (*entity.ServiceOrder, error)
	// Update persiste la cabecera: estado, observaciones y fechas.
	Update(ctx context.Context, order *entity.ServiceOrder) error
	CreateItem(ctx context.Context, item *entity.ServiceOrderItem) error
	UpdateItem(ctx context.Context, item *entity.ServiceOrderItem) error
	DeleteItem(ctx context.Context, orderID, itemID string) error
	List(ctx context.Context, filter ServiceOrderFilter) ([]*entity.ServiceOrder, error)
	Statistics(ctx context.Context) (*ServiceOrderStats, error)
}
