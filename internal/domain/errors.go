package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Libro de stock
	ErrProductNotFound = errors.New("producto no encontrado")
	ErrProductInactive = errors.New("producto inactivo")
	ErrInvalidQuantity = errors.New("cantidad inválida")

	// Órdenes de servicio
	ErrOrderNotFound     = errors.New("orden de servicio no encontrada")
	ErrItemNotFound      = errors.New("ítem de la orden no encontrado")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrEmptyOrder        = errors.New("la orden no tiene ítems")

	// Conflicto de escritura detectado por el motor (serialización o deadlock).
	ErrConcurrentUpdate = errors.New("conflicto de escritura concurrente, reintente")
)

// ValidationError describe un campo inválido. Se compara como ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// LineItemError identifica la línea de la orden que hizo fallar la finalización.
type LineItemError struct {
	Position    int
	ItemID      string
	ProductID   string
	ProductName string
	Err         error
}

func (e *LineItemError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("línea %d (%s): %v", e.Position, name, e.Err)
}

func (e *LineItemError) Unwrap() error { return e.Err }
