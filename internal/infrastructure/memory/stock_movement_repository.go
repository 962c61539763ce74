package memory

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro append-only en memoria; el orden de inserción es el orden del libro.
type StockMovementRepo struct {
	s  *Store
	tx bool
}

func (r *StockMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	var err error
	r.s.view(r.tx, func() {
		for _, m := range r.s.movements {
			if m.ID == movement.ID {
				err = domain.ErrDuplicate
				return
			}
		}
		r.s.movements = append(r.s.movements, *movement)
	})
	return err
}

func (r *StockMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	r.s.view(r.tx, func() {
		for _, m := range r.s.movements {
			if m.ID == id {
				m := m
				out = &m
				return
			}
		}
	})
	return out, nil
}

func (r *StockMovementRepo) GetLatestByProduct(_ context.Context, productID string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	r.s.view(r.tx, func() {
		for i := len(r.s.movements) - 1; i >= 0; i-- {
			if r.s.movements[i].ProductID == productID {
				m := r.s.movements[i]
				out = &m
				return
			}
		}
	})
	return out, nil
}

func (r *StockMovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	r.s.view(r.tx, func() {
		for i := len(r.s.movements) - 1; i >= 0; i-- {
			m := r.s.movements[i]
			if filter.ProductID != "" && m.ProductID != filter.ProductID {
				continue
			}
			if filter.Type != "" && m.Type != filter.Type {
				continue
			}
			if filter.Reference != "" && m.Reference != filter.Reference {
				continue
			}
			list = append(list, &m)
		}
	})
	return page(list, filter.Limit, filter.Offset), nil
}
