package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&pgconn.PgError{Code: "40001"}))
	assert.True(t, isRetryable(fmt.Errorf("commit transaction: %w", &pgconn.PgError{Code: "40P01"})))
	assert.False(t, isRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isRetryable(errors.New("40001")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestPageArgs(t *testing.T) {
	limit, offset := pageArgs(0, -3)
	assert.Nil(t, limit)
	assert.Equal(t, 0, offset)

	limit, offset = pageArgs(20, 40)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("0b9c3a8e-4f1d-4c7a-9e2b-6d5f1a2b3c4d"))
	assert.False(t, validID("abc"))
	assert.False(t, validID(""))
	assert.False(t, validID("urn:uuid:0b9c3a8e-4f1d-4c7a-9e2b-6d5f1a2b3c4d"))
}

func TestIsNoRow(t *testing.T) {
	assert.True(t, isNoRow(pgx.ErrNoRows))
	assert.True(t, isNoRow(fmt.Errorf("scan: %w", &pgconn.PgError{Code: "22P02"})))
	assert.False(t, isNoRow(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isNoRow(errors.New("conexión cerrada")))
}

// ──────────────────────────────────────────────────────────────────────────────
// IDs mal formados: no llegan a la BD y se tratan como inexistentes
// ──────────────────────────────────────────────────────────────────────────────

// noDB falla el test si algún repositorio llega a consultar.
type noDB struct{ t *testing.T }

func (d noDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	d.t.Fatal("Exec no esperado")
	return pgconn.CommandTag{}, nil
}

func (d noDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	d.t.Fatal("Query no esperado")
	return nil, nil
}

func (d noDB) QueryRow(context.Context, string, ...any) pgx.Row {
	d.t.Fatal("QueryRow no esperado")
	return nil
}

func TestRepositorios_IDMalFormadoEsInexistente(t *testing.T) {
	ctx := context.Background()
	db := noDB{t: t}

	products := NewProductRepository(db)
	p, err := products.GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)
	p, err = products.GetForUpdate(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)

	orders := NewServiceOrderRepository(db)
	o, err := orders.GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, o)
	o, err = orders.GetForUpdate(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, o)
	assert.ErrorIs(t, orders.DeleteItem(ctx, "abc", "xyz"), domain.ErrItemNotFound)
	assert.ErrorIs(t, orders.UpdateItem(ctx, &entity.ServiceOrderItem{ID: "xyz", OrderID: "abc"}), domain.ErrItemNotFound)

	movements := NewStockMovementRepository(db)
	m, err := movements.GetLatestByProduct(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, m)
	list, err := movements.List(ctx, repository.MovementFilter{ProductID: "abc"})
	require.NoError(t, err)
	assert.Empty(t, list)
}
