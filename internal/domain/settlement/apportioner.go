package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
)

// Share porción de una orden atribuida a un trabajador (precisión completa, sin redondeo).
type Share struct {
	Revenue  decimal.Decimal
	PartCost decimal.Decimal
	Fee      decimal.Decimal
}

// Apportionment reparto de una orden entre sus trabajadores.
type Apportionment struct {
	Lead    string   // primer trabajador; solo etiqueta de reporte
	Workers []string // nombres distintos en orden de primera aparición
	Shares  map[string]Share
	Total   Share // cifras de la orden antes del reparto
}

// Unassigned indica que la orden no tiene trabajadores y queda fuera del reparto.
func (a Apportionment) Unassigned() bool { return len(a.Workers) == 0 }

// Apportion divide ingreso, costo y comisión en partes iguales entre los trabajadores
// distintos de la orden. Sin ponderación por rol ni antigüedad. El redondeo se difiere
// al motor de distribución.
func Apportion(wo entity.WorkOrder, revenue, partCost, fee decimal.Decimal) Apportionment {
	workers := distinctWorkers(wo.WorkerNames)
	a := Apportionment{
		Workers: workers,
		Shares:  make(map[string]Share, len(workers)),
		Total:   Share{Revenue: revenue, PartCost: partCost, Fee: fee},
	}
	if len(workers) == 0 {
		return a
	}
	a.Lead = workers[0]

	share := Share{Revenue: revenue, PartCost: partCost, Fee: fee}
	if n := int64(len(workers)); n > 1 {
		count := decimal.NewFromInt(n)
		share = Share{
			Revenue:  revenue.Div(count),
			PartCost: partCost.Div(count),
			Fee:      fee.Div(count),
		}
	}
	for _, w := range workers {
		a.Shares[w] = share
	}
	return a
}

// Rounded reparte cada cifra de la orden, redondeada a unidades, por mayor resto: las
// partes redondeadas suman exactamente el total redondeado. Como las partes son iguales,
// las unidades sobrantes van a los primeros trabajadores (el líder primero).
func (a Apportionment) Rounded() map[string]Share {
	out := make(map[string]Share, len(a.Workers))
	if len(a.Workers) == 0 {
		return out
	}
	revenue := splitUnits(a.Total.Revenue, len(a.Workers))
	partCost := splitUnits(a.Total.PartCost, len(a.Workers))
	fee := splitUnits(a.Total.Fee, len(a.Workers))
	for i, w := range a.Workers {
		out[w] = Share{Revenue: revenue[i], PartCost: partCost[i], Fee: fee[i]}
	}
	return out
}

// splitUnits divide round(total) en n partes enteras que difieren a lo sumo en una unidad.
func splitUnits(total decimal.Decimal, n int) []decimal.Decimal {
	target := total.Round(0)
	count := decimal.NewFromInt(int64(n))
	base := target.Div(count).Floor()
	extra := target.Sub(base.Mul(count)).IntPart() // 0 <= extra < n
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = base
		if int64(i) < extra {
			out[i] = base.Add(decimal.NewFromInt(1))
		}
	}
	return out
}
