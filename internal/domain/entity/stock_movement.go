package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeEntry      = "ENTRY"      // entrada (compra, devolución)
	MovementTypeExit       = "EXIT"       // salida (consumo en orden, merma)
	MovementTypeCorrection = "CORRECTION" // fija la cantidad absoluta (conteo físico)
)

// StockMovement registro inmutable de un cambio de stock. Solo se insertan, nunca se editan ni borran.
type StockMovement struct {
	ID                string
	ProductID         string
	Type              string
	Quantity          int64 // siempre positivo; en CORRECTION es la cantidad absoluta resultante
	PreviousQuantity  int64
	ResultingQuantity int64
	Reason            string
	Reference         string // p.ej. número de orden de servicio
	PerformedBy       string // UserID del actor
	CreatedAt         time.Time
}

// ValidMovementType indica si el tipo es ENTRY, EXIT o CORRECTION.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeCorrection:
		return true
	}
	return false
}

// Delta devuelve la variación firmada que produjo el movimiento.
func (m *StockMovement) Delta() int64 {
	return m.ResultingQuantity - m.PreviousQuantity
}
