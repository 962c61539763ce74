package serviceorder_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

func TestComplete_DescuentaStockYRegistraSalidas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "oil", 10, 40)
	f.addProduct(t, "filter", 4, 25)
	o := f.newOrder(t, productItem("oil", 4), serviceItem("Mano de obra", 50), productItem("filter", 1))

	f.clock.Advance(2 * time.Hour)
	done, err := f.uc.Complete(ctx, o.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, t0.Add(2*time.Hour), *done.CompletedAt)
	assert.Equal(t, testActor, done.CompletedBy)

	assert.Equal(t, int64(6), f.stock(t, "oil"))
	assert.Equal(t, int64(3), f.stock(t, "filter"))

	movs := f.allMovements(t)
	require.Len(t, movs, 2, "una salida por línea PRODUCT, ninguna por SERVICE")
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeExit, m.Type)
		assert.Equal(t, "OS-00001", m.Reference)
		assert.Equal(t, "service order #OS-00001", m.Reason)
		assert.Equal(t, testActor, m.PerformedBy)
	}

	stored, err := f.uc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, stored.Status)
}

func TestComplete_StockInsuficienteRevierteTodo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "oil", 10, 40)
	f.addProduct(t, "filter", 2, 25)
	o := f.newOrder(t, productItem("oil", 4), productItem("filter", 5))

	_, err := f.uc.Complete(ctx, o.ID, testActor)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var lineErr *domain.LineItemError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 2, lineErr.Position)
	assert.Equal(t, "filter", lineErr.ProductID)
	assert.Equal(t, "Producto filter", lineErr.ProductName)
	assert.Equal(t, o.Items[1].ID, lineErr.ItemID)

	// la salida del aceite ya aplicada dentro de la tx se revierte
	assert.Equal(t, int64(10), f.stock(t, "oil"))
	assert.Equal(t, int64(2), f.stock(t, "filter"))
	assert.Empty(t, f.allMovements(t))

	stored, _ := f.uc.Get(ctx, o.ID)
	assert.Equal(t, entity.OrderStatusPending, stored.Status)
	assert.Nil(t, stored.CompletedAt)
}

func TestComplete_ProductoInactivoRechazaLaLinea(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "oil", 10, 40)
	o := f.newOrder(t, productItem("oil", 1))

	p, _ := f.store.Products().GetByID(ctx, "oil")
	p.IsActive = false
	require.NoError(t, f.store.Products().Update(ctx, p))

	_, err := f.uc.Complete(ctx, o.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrProductInactive)
	var lineErr *domain.LineItemError
	assert.True(t, errors.As(err, &lineErr))
	assert.Equal(t, int64(10), f.stock(t, "oil"))
}

func TestComplete_OrdenVaciaOSoloServicios(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	empty := f.newOrder(t)
	_, err := f.uc.Complete(ctx, empty.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)

	services := f.newOrder(t, serviceItem("Alineación", 35))
	done, err := f.uc.Complete(ctx, services.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, done.Status)
	assert.Empty(t, f.allMovements(t))
}

func TestComplete_SegundaVezEsTransicionInvalida(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "oil", 10, 40)
	o := f.newOrder(t, productItem("oil", 3))

	_, err := f.uc.Complete(ctx, o.ID, testActor)
	require.NoError(t, err)
	_, err = f.uc.Complete(ctx, o.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, int64(7), f.stock(t, "oil"), "el stock se descuenta una sola vez")
	assert.Len(t, f.allMovements(t), 1)

	_, err = f.uc.Cancel(ctx, o.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.AddItem(ctx, o.ID, serviceItem("extra", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.RemoveItem(ctx, o.ID, o.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.UpdateObservations(ctx, o.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestComplete_Rechazos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.uc.Complete(ctx, "nope", testActor)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	o := f.newOrder(t, serviceItem("x", 1))
	_, err = f.uc.Complete(ctx, o.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancel_NoTocaInventario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "oil", 10, 40)
	o := f.newOrder(t, productItem("oil", 4))

	f.clock.Advance(time.Minute)
	cancelled, err := f.uc.Cancel(ctx, o.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, t0.Add(time.Minute), *cancelled.CancelledAt)
	assert.Equal(t, testActor, cancelled.CancelledBy)

	assert.Equal(t, int64(10), f.stock(t, "oil"))
	assert.Empty(t, f.allMovements(t))

	_, err = f.uc.Complete(ctx, o.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Cancel(ctx, o.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	empty := f.newOrder(t)
	_, err = f.uc.Cancel(ctx, empty.ID, testActor)
	assert.NoError(t, err, "una orden vacía se puede cancelar")
}

func TestComplete_ConcurrenteSobreLaMismaOrden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "oil", 10, 40)
	o := f.newOrder(t, productItem("oil", 2))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		errs []error
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Complete(ctx, o.ID, testActor)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	for _, err := range errs {
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	}
	assert.Equal(t, int64(8), f.stock(t, "oil"))
	assert.Len(t, f.allMovements(t), 1)
}

func TestComplete_ConcurrentesCompitenPorElMismoStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "a", 5, 10)
	f.addProduct(t, "b", 5, 10)

	// órdenes con productos en orden inverso: el bloqueo ordenado por ID evita deadlocks
	var orders []*entity.ServiceOrder
	for i := 0; i < 4; i++ {
		if i%2 == 0 {
			orders = append(orders, f.newOrder(t, productItem("a", 2), productItem("b", 2)))
		} else {
			orders = append(orders, f.newOrder(t, productItem("b", 2), productItem("a", 2)))
		}
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for _, o := range orders {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.uc.Complete(ctx, id, testActor)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}(o.ID)
	}
	wg.Wait()

	assert.Equal(t, 2, oks)
	assert.Equal(t, int64(1), f.stock(t, "a"))
	assert.Equal(t, int64(1), f.stock(t, "b"))
	assert.Len(t, f.allMovements(t), 4)
}

func TestComplete_TotalNoCambiaAlFinalizar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "oil", 10, 40)
	o := f.newOrder(t, productItem("oil", 2), dto.AddItemRequest{
		ItemType: entity.ItemTypeService, Description: "Revisión", Quantity: decimal.NewFromInt(2), UnitPrice: ptr(decimal.RequireFromString("12.50")),
	})
	before := o.Total()

	done, err := f.uc.Complete(ctx, o.ID, testActor)
	require.NoError(t, err)
	assert.True(t, before.Equal(done.Total()))
	assert.Equal(t, "105", done.Total().String())
}

func TestComplete_CantidadFueraDeRangoNuncaLlegaAlLibro(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 10, 40)
	o := f.newOrder(t)

	_, err := f.uc.AddItem(ctx, o.ID, dto.AddItemRequest{
		ItemType: entity.ItemTypeProduct, ProductID: ptr("p1"),
		Quantity: decimal.RequireFromString("18446744073709551617"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Complete(ctx, o.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrEmptyOrder, "la línea no se agregó")
	assert.Equal(t, int64(10), f.stock(t, "p1"))
	assert.Empty(t, f.allMovements(t))
}
