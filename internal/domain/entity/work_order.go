package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayLayout formato de fecha civil usado para comparar a granularidad de día.
const DayLayout = "2006-01-02"

// WorkOrder representa una orden de trabajo (instalación, traslado o retiro de TV).
// Date conserva el timestamp ISO tal como llega del almacén; la comparación de períodos
// usa solo la porción de fecha (ver Day).
type WorkOrder struct {
	ID               string
	Date             string // ISO-8601, ej. 2024-03-01T10:30:00
	Client           string
	GrossAmount      decimal.Decimal
	DeclaredFee      *decimal.Decimal // nil si el documento no trae comisión declarada
	WorkerNames      []string         // el primero es el "líder" (solo etiqueta de reporte)
	PartsDeclaration string           // texto "nombre:cantidad, ..." o lista JSON estructurada
	Done             bool
}

// Day devuelve la porción de fecha del timestamp ISO. ok=false si no es una fecha válida.
func (w WorkOrder) Day() (time.Time, bool) {
	if len(w.Date) < len(DayLayout) {
		return time.Time{}, false
	}
	d, err := time.Parse(DayLayout, w.Date[:len(DayLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
