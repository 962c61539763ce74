package inventory

import (
	"math"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// ApplyMovement calcula la nueva cantidad de stock (servicio de dominio, sin efectos).
//
//	ENTRY:      actual + cantidad   (cantidad > 0, sin desbordar int64)
//	EXIT:       actual - cantidad   (cantidad > 0, resultado >= 0)
//	CORRECTION: cantidad            (cantidad >= 0)
func ApplyMovement(current int64, movementType string, quantity int64) (int64, error) {
	switch movementType {
	case entity.MovementTypeEntry:
		if quantity <= 0 || quantity > math.MaxInt64-current {
			return current, domain.ErrInvalidQuantity
		}
		return current + quantity, nil
	case entity.MovementTypeExit:
		if quantity <= 0 {
			return current, domain.ErrInvalidQuantity
		}
		next := current - quantity
		if next < 0 {
			return current, domain.ErrInsufficientStock
		}
		return next, nil
	case entity.MovementTypeCorrection:
		if quantity < 0 {
			return current, domain.ErrInvalidQuantity
		}
		return quantity, nil
	}
	return current, domain.ErrInvalidQuantity
}
