package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.ServiceOrderRepository = (*ServiceOrderRepo)(nil)

const (
	orderColumns = `id, order_number, vehicle_id, customer_id, status, observations, created_by,
	created_at, updated_at, completed_at, completed_by, cancelled_at, cancelled_by`
	itemColumns = `id, order_id, position, item_type, product_id, description, quantity, unit_price, created_at`
)

// ServiceOrderRepo órdenes de servicio y sus ítems sobre PostgreSQL (usable con pool o tx).
type ServiceOrderRepo struct {
	q Querier
}

// NewServiceOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceOrderRepository(q Querier) *ServiceOrderRepo {
	return &ServiceOrderRepo{q: q}
}

// NextOrderNumber toma el siguiente valor de la secuencia y lo formatea (OS-00001).
func (r *ServiceOrderRepo) NextOrderNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('service_order_number_seq')`).Scan(&seq); err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}
	return entity.FormatOrderNumber(seq), nil
}

// Create inserta la cabecera y los ítems iniciales.
func (r *ServiceOrderRepo) Create(ctx context.Context, o *entity.ServiceOrder) error {
	query := `
		INSERT INTO service_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.OrderNumber, o.VehicleID, o.CustomerID, o.Status, o.Observations, o.CreatedBy,
		o.CreatedAt, o.UpdatedAt, o.CompletedAt, o.CompletedBy, o.CancelledAt, o.CancelledBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert service order: %w", err)
	}
	for i := range o.Items {
		if err := r.CreateItem(ctx, &o.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene la orden con sus ítems.
func (r *ServiceOrderRepo) GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM service_orders WHERE id = $1`, id)
}

// GetForUpdate como GetByID pero bloquea la fila de la orden hasta Commit/Rollback.
func (r *ServiceOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM service_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *ServiceOrderRepo) getOne(ctx context.Context, query, id string) (*entity.ServiceOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service order: %w", err)
	}
	items, err := r.itemsOf(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// Update persiste la cabecera.
func (r *ServiceOrderRepo) Update(ctx context.Context, o *entity.ServiceOrder) error {
	query := `
		UPDATE service_orders SET status = $2, observations = $3, updated_at = $4,
			completed_at = $5, completed_by = $6, cancelled_at = $7, cancelled_by = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.Status, o.Observations, o.UpdatedAt,
		o.CompletedAt, o.CompletedBy, o.CancelledAt, o.CancelledBy,
	)
	if err != nil {
		return fmt.Errorf("update service order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// CreateItem inserta una línea.
func (r *ServiceOrderRepo) CreateItem(ctx context.Context, it *entity.ServiceOrderItem) error {
	query := `
		INSERT INTO service_order_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.OrderID, it.Position, it.Type, it.ProductID, it.Description, it.Quantity, it.UnitPrice, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service order item: %w", err)
	}
	return nil
}

// UpdateItem persiste descripción, cantidad y precio de una línea.
func (r *ServiceOrderRepo) UpdateItem(ctx context.Context, it *entity.ServiceOrderItem) error {
	if !validID(it.ID) || !validID(it.OrderID) {
		return domain.ErrItemNotFound
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE service_order_items SET description = $3, quantity = $4, unit_price = $5 WHERE id = $1 AND order_id = $2`,
		it.ID, it.OrderID, it.Description, it.Quantity, it.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("update service order item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// DeleteItem elimina una línea de la orden.
func (r *ServiceOrderRepo) DeleteItem(ctx context.Context, orderID, itemID string) error {
	if !validID(itemID) || !validID(orderID) {
		return domain.ErrItemNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM service_order_items WHERE id = $1 AND order_id = $2`, itemID, orderID)
	if err != nil {
		return fmt.Errorf("delete service order item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// List órdenes más recientes primero, con sus ítems.
func (r *ServiceOrderRepo) List(ctx context.Context, filter repository.ServiceOrderFilter) ([]*entity.ServiceOrder, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.VehicleID != "" {
		args = append(args, filter.VehicleID)
		conds = append(conds, fmt.Sprintf("vehicle_id = $%d", len(args)))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM service_orders`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	limit, offset := pageArgs(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, order_number DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list service orders: %w", err)
	}
	var (
		list []*entity.ServiceOrder
		ids  []string
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan service order: %w", err)
		}
		list = append(list, o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list service orders: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}
	items, err := r.itemsOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		o.Items = items[o.ID]
	}
	return list, nil
}

// Statistics conteos por estado e ingresos (suma de quantity * unit_price de órdenes COMPLETED).
func (r *ServiceOrderRepo) Statistics(ctx context.Context) (*repository.ServiceOrderStats, error) {
	var s repository.ServiceOrderStats
	err := r.q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'COMPLETED'),
			COUNT(*) FILTER (WHERE status = 'CANCELLED')
		FROM service_orders`).Scan(&s.Total, &s.Pending, &s.Completed, &s.Cancelled)
	if err != nil {
		return nil, fmt.Errorf("service order counts: %w", err)
	}
	var revenue decimal.Decimal
	err = r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(i.quantity * i.unit_price), 0)
		FROM service_order_items i
		JOIN service_orders o ON o.id = i.order_id
		WHERE o.status = 'COMPLETED'`).Scan(&revenue)
	if err != nil {
		return nil, fmt.Errorf("service order revenue: %w", err)
	}
	s.Revenue = revenue
	return &s, nil
}

// itemsOf carga los ítems de varias órdenes agrupados por order_id, ordenados por posición.
func (r *ServiceOrderRepo) itemsOf(ctx context.Context, orderIDs []string) (map[string][]entity.ServiceOrderItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+itemColumns+` FROM service_order_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, position`,
		orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list service order items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.ServiceOrderItem, len(orderIDs))
	for rows.Next() {
		var it entity.ServiceOrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.Position, &it.Type, &it.ProductID, &it.Description, &it.Quantity, &it.UnitPrice, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan service order item: %w", err)
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.ServiceOrder, error) {
	var o entity.ServiceOrder
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.VehicleID, &o.CustomerID, &o.Status, &o.Observations, &o.CreatedBy,
		&o.CreatedAt, &o.UpdatedAt, &o.CompletedAt, &o.CompletedBy, &o.CancelledAt, &o.CancelledBy,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
