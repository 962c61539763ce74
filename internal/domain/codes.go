package domain

import "errors"

// Code devuelve el código estable de un error de dominio (respuestas HTTP y etiquetas de métricas).
func Code(err error) string {
	switch {
	case err == nil:
		return "OK"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, ErrProductNotFound):
		return "PRODUCT_NOT_FOUND"
	case errors.Is(err, ErrProductInactive):
		return "PRODUCT_INACTIVE"
	case errors.Is(err, ErrOrderNotFound):
		return "ORDER_NOT_FOUND"
	case errors.Is(err, ErrItemNotFound):
		return "ITEM_NOT_FOUND"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrEmptyOrder):
		return "EMPTY_ORDER"
	case errors.Is(err, ErrConcurrentUpdate):
		return "CONCURRENT_UPDATE"
	case errors.Is(err, ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicate):
		return "DUPLICATE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	}
	return "INTERNAL"
}
