package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ServiceOrderRepository = (*ServiceOrderRepo)(nil)

// ServiceOrderRepo órdenes en memoria; los ítems viven dentro de la orden.
type ServiceOrderRepo struct {
	s  *Store
	tx bool
}

func (r *ServiceOrderRepo) NextOrderNumber(_ context.Context) (string, error) {
	var seq int64
	r.s.view(r.tx, func() {
		r.s.orderSeq++
		seq = r.s.orderSeq
	})
	return entity.FormatOrderNumber(seq), nil
}

func (r *ServiceOrderRepo) Create(_ context.Context, order *entity.ServiceOrder) error {
	var err error
	r.s.view(r.tx, func() {
		if _, ok := r.s.orders[order.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		for _, o := range r.s.orders {
			if o.OrderNumber == order.OrderNumber {
				err = domain.ErrDuplicate
				return
			}
		}
		r.s.orders[order.ID] = copyOrder(*order)
	})
	return err
}

func (r *ServiceOrderRepo) GetByID(_ context.Context, id string) (*entity.ServiceOrder, error) {
	var out *entity.ServiceOrder
	r.s.view(r.tx, func() {
		if o, ok := r.s.orders[id]; ok {
			c := copyOrder(o)
			sortItems(c.Items)
			out = &c
		}
	})
	return out, nil
}

func (r *ServiceOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	return r.GetByID(ctx, id)
}

// Update persiste solo la cabecera; los ítems se modifican con CreateItem/UpdateItem/DeleteItem.
func (r *ServiceOrderRepo) Update(_ context.Context, order *entity.ServiceOrder) error {
	var err error
	r.s.view(r.tx, func() {
		cur, ok := r.s.orders[order.ID]
		if !ok {
			err = domain.ErrOrderNotFound
			return
		}
		header := copyOrder(*order)
		header.Items = cur.Items
		header.OrderNumber = cur.OrderNumber
		header.CreatedAt = cur.CreatedAt
		header.CreatedBy = cur.CreatedBy
		r.s.orders[order.ID] = header
	})
	return err
}

func (r *ServiceOrderRepo) CreateItem(_ context.Context, item *entity.ServiceOrderItem) error {
	var err error
	r.s.view(r.tx, func() {
		o, ok := r.s.orders[item.OrderID]
		if !ok {
			err = domain.ErrOrderNotFound
			return
		}
		o.Items = append(o.Items, *item)
		r.s.orders[o.ID] = copyOrder(o)
	})
	return err
}

func (r *ServiceOrderRepo) UpdateItem(_ context.Context, item *entity.ServiceOrderItem) error {
	var err error
	r.s.view(r.tx, func() {
		o, ok := r.s.orders[item.OrderID]
		if !ok {
			err = domain.ErrOrderNotFound
			return
		}
		idx := o.FindItem(item.ID)
		if idx < 0 {
			err = domain.ErrItemNotFound
			return
		}
		o = copyOrder(o)
		o.Items[idx].Description = item.Description
		o.Items[idx].Quantity = item.Quantity
		o.Items[idx].UnitPrice = item.UnitPrice
		r.s.orders[o.ID] = o
	})
	return err
}

func (r *ServiceOrderRepo) DeleteItem(_ context.Context, orderID, itemID string) error {
	var err error
	r.s.view(r.tx, func() {
		o, ok := r.s.orders[orderID]
		if !ok {
			err = domain.ErrOrderNotFound
			return
		}
		idx := o.FindItem(itemID)
		if idx < 0 {
			err = domain.ErrItemNotFound
			return
		}
		o = copyOrder(o)
		o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
		r.s.orders[o.ID] = o
	})
	return err
}

func (r *ServiceOrderRepo) List(_ context.Context, filter repository.ServiceOrderFilter) ([]*entity.ServiceOrder, error) {
	var list []*entity.ServiceOrder
	r.s.view(r.tx, func() {
		for _, o := range r.s.orders {
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			if filter.VehicleID != "" && o.VehicleID != filter.VehicleID {
				continue
			}
			if filter.CustomerID != "" && o.CustomerID != filter.CustomerID {
				continue
			}
			c := copyOrder(o)
			sortItems(c.Items)
			list = append(list, &c)
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].OrderNumber > list[j].OrderNumber
	})
	return page(list, filter.Limit, filter.Offset), nil
}

func (r *ServiceOrderRepo) Statistics(_ context.Context) (*repository.ServiceOrderStats, error) {
	stats := &repository.ServiceOrderStats{Revenue: decimal.Zero}
	r.s.view(r.tx, func() {
		for _, o := range r.s.orders {
			stats.Total++
			switch o.Status {
			case entity.OrderStatusPending:
				stats.Pending++
			case entity.OrderStatusCompleted:
				stats.Completed++
				stats.Revenue = stats.Revenue.Add(o.Total())
			case entity.OrderStatusCancelled:
				stats.Cancelled++
			}
		}
	})
	return stats, nil
}

func sortItems(items []entity.ServiceOrderItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
}
