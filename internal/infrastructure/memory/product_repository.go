package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s  *Store
	tx bool
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	var err error
	r.s.view(r.tx, func() {
		if _, ok := r.s.products[product.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		for _, p := range r.s.products {
			if p.Code == product.Code {
				err = domain.ErrDuplicate
				return
			}
		}
		r.s.products[product.ID] = *product
	})
	return err
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.s.view(r.tx, func() {
		if p, ok := r.s.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	r.s.view(r.tx, func() {
		for _, p := range r.s.products {
			if p.Code == code {
				p := p
				out = &p
				return
			}
		}
	})
	return out, nil
}

// GetForUpdate dentro de una tx el mutex del Store ya serializa el acceso.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	var err error
	r.s.view(r.tx, func() {
		cur, ok := r.s.products[product.ID]
		if !ok {
			err = domain.ErrProductNotFound
			return
		}
		updated := *product
		updated.StockQuantity = cur.StockQuantity
		updated.Code = cur.Code
		updated.CreatedAt = cur.CreatedAt
		r.s.products[product.ID] = updated
	})
	return err
}

func (r *ProductRepo) UpdateStock(_ context.Context, productID string, quantity int64, updatedAt time.Time) error {
	var err error
	r.s.view(r.tx, func() {
		p, ok := r.s.products[productID]
		if !ok {
			err = domain.ErrProductNotFound
			return
		}
		p.StockQuantity = quantity
		p.UpdatedAt = updatedAt
		r.s.products[productID] = p
	})
	return err
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var list []*entity.Product
	r.s.view(r.tx, func() {
		for _, p := range r.s.products {
			if filter.Category != "" && p.Category != filter.Category {
				continue
			}
			if filter.Active != nil && p.IsActive != *filter.Active {
				continue
			}
			if filter.LowStock && !p.IsLowStock() {
				continue
			}
			p := p
			list = append(list, &p)
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return page(list, filter.Limit, filter.Offset), nil
}

func (r *ProductRepo) Categories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	r.s.view(r.tx, func() {
		for _, p := range r.s.products {
			if p.Category != "" && !seen[p.Category] {
				seen[p.Category] = true
				out = append(out, p.Category)
			}
		}
	})
	sort.Strings(out)
	return out, nil
}
