package settlement

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
)

// Reglas de comisión de cliente, en orden de prioridad.
const (
	FeeRulePercentage = "percentage" // cliente con marcador: tasa sobre el bruto, la absorbe la empresa
	FeeRuleDeclared   = "declared"   // comisión declarada en la orden
	FeeRuleNone       = "none"
)

// Fee comisión adeudada por una orden.
type Fee struct {
	Amount          decimal.Decimal
	CompanyAbsorbed bool
	Rule            string
}

// FeePolicy única definición de la regla de comisión de cliente.
// El emparejamiento por subcadena del marcador es frágil (un cliente cuyo nombre contenga
// el marcador por casualidad también cae en la regla); se conserva por compatibilidad.
type FeePolicy struct {
	Marker string
	Rate   decimal.Decimal // fracción, ej. 0.22
}

// Resolve aplica las reglas; la primera que coincide gana.
func (p FeePolicy) Resolve(wo entity.WorkOrder) Fee {
	if p.matches(wo.Client) {
		return Fee{
			Amount:          wo.GrossAmount.Mul(p.Rate).Round(0),
			CompanyAbsorbed: true,
			Rule:            FeeRulePercentage,
		}
	}
	if wo.DeclaredFee != nil && wo.DeclaredFee.IsPositive() {
		return Fee{Amount: *wo.DeclaredFee, Rule: FeeRuleDeclared}
	}
	return Fee{Amount: decimal.Zero, Rule: FeeRuleNone}
}

func (p FeePolicy) matches(client string) bool {
	marker := normalizeName(p.Marker)
	if marker == "" {
		return false
	}
	return strings.Contains(normalizeName(client), marker)
}
