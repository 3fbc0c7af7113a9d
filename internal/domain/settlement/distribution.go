package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// DistributionPolicy parámetros del motor de distribución.
type DistributionPolicy struct {
	CompanyCutPercent        decimal.Decimal            // % del beneficio neto ejecutivo que retiene la empresa
	ExecutiveRatios          map[string]decimal.Decimal // nombre normalizado → proporción (ej. 4:3:3)
	DefaultCommissionPercent decimal.Decimal            // contrato sin tasa propia
}

// Payable cifra final a pagar calculada para un empleado.
type Payable struct {
	Role      string
	Amount    decimal.Decimal
	NetProfit decimal.Decimal // solo ejecutivos: beneficio neto del pool antes del corte de la empresa
	Warnings  []domain.Warning
}

// ResolveRole normaliza el rol; un rol desconocido se trata como contrato al 0 % con advertencia.
func (p DistributionPolicy) ResolveRole(emp entity.Employee) (role string, commission decimal.Decimal, w *domain.Warning) {
	switch emp.Role {
	case entity.RoleExecutive:
		return entity.RoleExecutive, decimal.Zero, nil
	case entity.RoleContractWorker:
		if emp.CommissionRatePercent != nil {
			return entity.RoleContractWorker, *emp.CommissionRatePercent, nil
		}
		return entity.RoleContractWorker, p.DefaultCommissionPercent, nil
	}
	return entity.RoleContractWorker, decimal.Zero, &domain.Warning{
		Kind:     domain.WarnUnknownRole,
		Employee: emp.Name,
		Detail:   "rol desconocido " + quote(emp.Role) + "; se liquida como contrato al 0 %",
	}
}

// RatioFor devuelve la proporción de reparto de un ejecutivo: tabla configurada primero,
// luego DistributionShare del directorio. ok=false si no tiene ninguna.
func (p DistributionPolicy) RatioFor(emp entity.Employee) (decimal.Decimal, bool) {
	if r, ok := p.ExecutiveRatios[normalizeName(emp.Name)]; ok {
		return r, true
	}
	if emp.DistributionShare != nil && emp.DistributionShare.IsPositive() {
		return *emp.DistributionShare, true
	}
	return decimal.Zero, false
}

// ContractPayable asignación bruta = round(ingreso × tasa / 100), menos costo de piezas y,
// si la empresa no la absorbe, la comisión del cliente. La comisión porcentual nunca se
// descuenta al contratista.
func (p DistributionPolicy) ContractPayable(commissionPercent decimal.Decimal, share Share, feeAbsorbed bool) decimal.Decimal {
	allowance := share.Revenue.Mul(commissionPercent).Div(hundred).Round(0)
	payable := allowance.Sub(share.PartCost)
	if !feeAbsorbed {
		payable = payable.Sub(share.Fee)
	}
	return payable
}

// CompanyCut parte del beneficio neto ejecutivo que retiene la empresa.
func (p DistributionPolicy) CompanyCut(netProfit decimal.Decimal) decimal.Decimal {
	return netProfit.Mul(p.CompanyCutPercent).Div(hundred)
}

// ExecutivePayable beneficio neto del pool (todas las comisiones descontadas, también las
// absorbidas), menos el corte de la empresa, por ratio / Σ ratios.
func (p DistributionPolicy) ExecutivePayable(pool Share, ratio, ratioSum decimal.Decimal) decimal.Decimal {
	if !ratioSum.IsPositive() {
		return decimal.Zero
	}
	net := pool.Revenue.Sub(pool.PartCost).Sub(pool.Fee)
	remainder := net.Sub(p.CompanyCut(net))
	return remainder.Mul(ratio).Div(ratioSum)
}

// ComputePayable calcula la cifra a pagar según el rol del empleado.
// Para contratistas share es su parte de una orden; para ejecutivos share son los totales
// del pool ejecutivo y ratioSum la suma de proporciones de todos los ejecutivos.
func (p DistributionPolicy) ComputePayable(emp entity.Employee, share Share, feeAbsorbed bool, ratioSum decimal.Decimal) Payable {
	role, commission, warn := p.ResolveRole(emp)
	out := Payable{Role: role}
	if warn != nil {
		out.Warnings = append(out.Warnings, *warn)
	}

	if role == entity.RoleContractWorker {
		out.Amount = p.ContractPayable(commission, share, feeAbsorbed)
		return out
	}

	out.NetProfit = share.Revenue.Sub(share.PartCost).Sub(share.Fee)
	ratio, ok := p.RatioFor(emp)
	if !ok {
		out.Warnings = append(out.Warnings, domain.Warning{
			Kind:     domain.WarnMissingRatio,
			Employee: emp.Name,
			Detail:   "ejecutivo sin proporción de reparto; pago 0",
		})
	}
	out.Amount = p.ExecutivePayable(share, ratio, ratioSum)
	return out
}

func quote(s string) string { return "\"" + s + "\"" }
