package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Estados de la orden de servicio. COMPLETED y CANCELLED son terminales.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// OrderNumberPrefix prefijo del número de orden (OS-00001).
const OrderNumberPrefix = "OS"

// FormatOrderNumber arma el número de orden a partir del consecutivo.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("%s-%05d", OrderNumberPrefix, seq)
}

// ServiceOrder orden de trabajo sobre un vehículo. Es dueña exclusiva de sus ítems.
type ServiceOrder struct {
	ID           string
	OrderNumber  string
	VehicleID    string
	CustomerID   string
	Status       string
	Items        []ServiceOrderItem
	Observations string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
	CompletedBy  string
	CancelledAt  *time.Time
	CancelledBy  string
}

// ValidOrderStatus indica si el estado existe.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Total suma los subtotales actuales. Siempre se recalcula.
func (o *ServiceOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}

// IsMutable solo las órdenes PENDING admiten cambios en ítems u observaciones.
func (o *ServiceOrder) IsMutable() bool {
	return o.Status == OrderStatusPending
}

// CanTransitionTo PENDING -> COMPLETED | CANCELLED. Desde un estado terminal no hay transición.
func (o *ServiceOrder) CanTransitionTo(status string) bool {
	if o.Status != OrderStatusPending {
		return false
	}
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}

// FindItem devuelve el índice del ítem o -1.
func (o *ServiceOrder) FindItem(itemID string) int {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// ProductLines líneas que consumen inventario, en orden de inserción.
func (o *ServiceOrder) ProductLines() []ServiceOrderItem {
	var lines []ServiceOrderItem
	for _, it := range o.Items {
		if it.IsProduct() {
			lines = append(lines, it)
		}
	}
	return lines
}

func (o *ServiceOrder) nextPosition() int {
	pos := 0
	for _, it := range o.Items {
		if it.Position > pos {
			pos = it.Position
		}
	}
	return pos + 1
}

// AddItem valida y agrega la línea al final de la orden.
func (o *ServiceOrder) AddItem(item ServiceOrderItem, now time.Time) (*ServiceOrderItem, error) {
	if !o.IsMutable() {
		return nil, domain.ErrInvalidTransition
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	item.OrderID = o.ID
	item.Position = o.nextPosition()
	item.CreatedAt = now
	o.Items = append(o.Items, item)
	o.UpdatedAt = now
	return &o.Items[len(o.Items)-1], nil
}

// UpdateItem aplica el patch sobre una línea. El precio no se relee del catálogo.
func (o *ServiceOrder) UpdateItem(itemID string, patch ItemPatch, now time.Time) (*ServiceOrderItem, error) {
	if !o.IsMutable() {
		return nil, domain.ErrInvalidTransition
	}
	idx := o.FindItem(itemID)
	if idx < 0 {
		return nil, domain.ErrItemNotFound
	}
	updated := o.Items[idx]
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Quantity != nil {
		updated.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		updated.UnitPrice = *patch.UnitPrice
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	o.Items[idx] = updated
	o.UpdatedAt = now
	return &o.Items[idx], nil
}

// RemoveItem quita la línea conservando el orden de las demás.
func (o *ServiceOrder) RemoveItem(itemID string, now time.Time) error {
	if !o.IsMutable() {
		return domain.ErrInvalidTransition
	}
	idx := o.FindItem(itemID)
	if idx < 0 {
		return domain.ErrItemNotFound
	}
	o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
	o.UpdatedAt = now
	return nil
}

// SetObservations actualiza el texto libre de la orden.
func (o *ServiceOrder) SetObservations(text string, now time.Time) error {
	if !o.IsMutable() {
		return domain.ErrInvalidTransition
	}
	o.Observations = text
	o.UpdatedAt = now
	return nil
}

// CheckCompletable precondiciones de la finalización: PENDING y al menos un ítem.
func (o *ServiceOrder) CheckCompletable() error {
	if !o.CanTransitionTo(OrderStatusCompleted) {
		return domain.ErrInvalidTransition
	}
	if len(o.Items) == 0 {
		return domain.ErrEmptyOrder
	}
	return nil
}

// MarkCompleted pasa a COMPLETED. El descuento de stock lo hace el caso de uso antes de llamar aquí.
func (o *ServiceOrder) MarkCompleted(actorID string, now time.Time) error {
	if err := o.CheckCompletable(); err != nil {
		return err
	}
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.CompletedBy = actorID
	o.UpdatedAt = now
	return nil
}

// MarkCancelled pasa a CANCELLED.
func (o *ServiceOrder) MarkCancelled(actorID string, now time.Time) error {
	if !o.CanTransitionTo(OrderStatusCancelled) {
		return domain.ErrInvalidTransition
	}
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelledBy = actorID
	o.UpdatedAt = now
	return nil
}
