package inventory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/inventory"
)

func TestApplyMovement(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		typ      string
		quantity int64
		want     int64
		wantErr  error
	}{
		{"entrada suma", 10, entity.MovementTypeEntry, 5, 15, nil},
		{"salida resta", 10, entity.MovementTypeExit, 4, 6, nil},
		{"salida deja en cero", 3, entity.MovementTypeExit, 3, 0, nil},
		{"salida mayor al stock", 3, entity.MovementTypeExit, 5, 3, domain.ErrInsufficientStock},
		{"corrección fija valor absoluto", 10, entity.MovementTypeCorrection, 7, 7, nil},
		{"corrección a cero", 10, entity.MovementTypeCorrection, 0, 0, nil},
		{"corrección negativa", 10, entity.MovementTypeCorrection, -1, 10, domain.ErrInvalidQuantity},
		{"entrada en cero", 10, entity.MovementTypeEntry, 0, 10, domain.ErrInvalidQuantity},
		{"salida negativa", 10, entity.MovementTypeExit, -2, 10, domain.ErrInvalidQuantity},
		{"tipo desconocido", 10, "TRANSFER", 1, 10, domain.ErrInvalidQuantity},
		{"entrada que desborda", 10, entity.MovementTypeEntry, math.MaxInt64 - 5, 10, domain.ErrInvalidQuantity},
		{"entrada hasta el máximo", 10, entity.MovementTypeEntry, math.MaxInt64 - 10, math.MaxInt64, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inventory.ApplyMovement(tt.current, tt.typ, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
