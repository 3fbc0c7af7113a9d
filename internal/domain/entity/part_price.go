package entity

import "github.com/shopspring/decimal"

// PartPriceEntry precio unitario de una pieza; PartName es clave única.
// Fuente de precio de respaldo cuando la orden no tiene movimientos de salida.
type PartPriceEntry struct {
	PartName  string
	UnitPrice decimal.Decimal
}
