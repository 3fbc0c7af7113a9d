package repository

import (
	"context"
	"time"
)

// Colecciones del almacén de documentos usadas por la liquidación.
const (
	CollectionWorkOrders = "tasks"
	CollectionMovements  = "inventory"
	CollectionEmployees  = "employees"
	CollectionPartPrices = "parts"
)

// Record documento tal como lo entrega el almacén: id estable (string) y fechas ISO-8601.
// Los campos pueden venir débilmente tipados (números como texto, JSON dentro de un string);
// el parseo estricto ocurre en la capa de aplicación.
type Record map[string]any

// ID devuelve el identificador del documento o "" si no existe.
func (r Record) ID() string {
	if v, ok := r["id"].(string); ok {
		return v
	}
	return ""
}

// Filter condición de igualdad campo = valor.
type Filter struct {
	Field string
	Value any
}

// Eq atajo para construir un Filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// DateRange rango de días [From, To] inclusive. Los adaptadores comparan la porción de
// fecha del campo ISO: From <= fecha < To+1 día.
type DateRange struct {
	From time.Time
	To   time.Time
}

// UpperBound devuelve el límite superior exclusivo (día siguiente a To).
func (r DateRange) UpperBound() time.Time {
	return time.Date(r.To.Year(), r.To.Month(), r.To.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// RecordStore define el puerto de lectura sobre el almacén de documentos.
// Timeouts y reintentos son responsabilidad de la implementación.
type RecordStore interface {
	// QueryByDateRange devuelve los documentos de collection cuyo dateField cae en rng
	// y que cumplen todos los filtros de igualdad.
	QueryByDateRange(ctx context.Context, collection, dateField string, rng DateRange, filters ...Filter) ([]Record, error)

	// QueryByEquality devuelve los documentos que cumplen todos los filtros (sin filtros = toda la colección).
	QueryByEquality(ctx context.Context, collection string, filters ...Filter) ([]Record, error)
}
