package entity

import "github.com/shopspring/decimal"

// Tipos de movimiento de inventario.
const (
	MovementKindIn  = "in"  // entrada
	MovementKindOut = "out" // salida
)

// OutboundMovement registra piezas consumidas (o recibidas) en el libro de inventario.
// Es la fuente autoritativa de costo solo si Kind = "out" y ReasonTag marca uso en orden de trabajo.
type OutboundMovement struct {
	ID          string
	WorkOrderID string // vacío si el movimiento no está ligado a una orden
	PartName    string
	Quantity    int64
	UnitAmount  decimal.Decimal
	TotalAmount decimal.Decimal // Quantity × UnitAmount
	Kind        string          // in, out
	ReasonTag   string
}
