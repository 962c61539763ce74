// Package memory almacenamiento en proceso con la misma semántica transaccional que el adaptador PostgreSQL.
// Un único mutex serializa las transacciones; si fn falla se restaura la foto previa (rollback).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/application/serviceorder"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)
var _ serviceorder.TxRunner = (*Store)(nil)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu        sync.Mutex
	products  map[string]entity.Product
	movements []entity.StockMovement
	orders    map[string]entity.ServiceOrder
	orderSeq  int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		orders:   make(map[string]entity.ServiceOrder),
	}
}

type snapshot struct {
	products  map[string]entity.Product
	movements int
	orders    map[string]entity.ServiceOrder
	orderSeq  int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		products:  make(map[string]entity.Product, len(s.products)),
		movements: len(s.movements),
		orders:    make(map[string]entity.ServiceOrder, len(s.orders)),
		orderSeq:  s.orderSeq,
	}
	for id, p := range s.products {
		snap.products[id] = p
	}
	for id, o := range s.orders {
		snap.orders[id] = copyOrder(o)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.movements = s.movements[:snap.movements]
	s.orders = snap.orders
	s.orderSeq = snap.orderSeq
}

// inTx ejecuta fn con el mutex tomado; un error revierte todos los cambios hechos por fn.
func (s *Store) inTx(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// view ejecuta fn con el mutex tomado salvo que el repositorio ya esté dentro de una tx.
func (s *Store) view(tx bool, fn func()) {
	if !tx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.inTx(ctx, func() error {
		return fn(&StockMovementRepo{s: s, tx: true}, &ProductRepo{s: s, tx: true})
	})
}

// RunServiceOrder implementa serviceorder.TxRunner.
func (s *Store) RunServiceOrder(ctx context.Context, fn func(
	orderRepo repository.ServiceOrderRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.inTx(ctx, func() error {
		return fn(&ServiceOrderRepo{s: s, tx: true}, &StockMovementRepo{s: s, tx: true}, &ProductRepo{s: s, tx: true})
	})
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Movements repositorio del libro fuera de transacción.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{s: s} }

// ServiceOrders repositorio de órdenes fuera de transacción.
func (s *Store) ServiceOrders() *ServiceOrderRepo { return &ServiceOrderRepo{s: s} }

func copyOrder(o entity.ServiceOrder) entity.ServiceOrder {
	items := make([]entity.ServiceOrderItem, len(o.Items))
	for i, it := range o.Items {
		if it.ProductID != nil {
			pid := *it.ProductID
			it.ProductID = &pid
		}
		items[i] = it
	}
	o.Items = items
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		o.CompletedAt = &t
	}
	if o.CancelledAt != nil {
		t := *o.CancelledAt
		o.CancelledAt = &t
	}
	return o
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
