// Package settlement contiene el motor de liquidación de comisiones: costo de piezas,
// comisión de cliente, reparto entre trabajadores, distribución por rol y reporte.
// Todo el paquete es puro: sin E/S, sin estado compartido entre cálculos.
package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquidacion-api/internal/domain"
)

// Policy agrupa los parámetros configurables del motor.
type Policy struct {
	Fee          FeePolicy
	Cost         CostPolicy
	Distribution DistributionPolicy
}

// Engine motor de liquidación inmutable; seguro para uso concurrente.
type Engine struct {
	policy Policy
}

// NewEngine valida la política y construye el motor. Una tasa, proporción o marcador
// ausente es un defecto de despliegue y se reporta como ConfigurationError.
func NewEngine(p Policy) (*Engine, error) {
	if normalizeName(p.Fee.Marker) == "" {
		return nil, &domain.ConfigurationError{Key: "fee.marker", Reason: "marcador de comisión porcentual vacío"}
	}
	if p.Fee.Rate.IsNegative() || p.Fee.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, &domain.ConfigurationError{Key: "fee.rate", Reason: "debe estar entre 0 y 1, recibido " + p.Fee.Rate.String()}
	}
	if normalizeName(p.Cost.WorkUsageReason) == "" {
		return nil, &domain.ConfigurationError{Key: "cost.work_usage_reason", Reason: "motivo de uso en orden vacío"}
	}
	if !inPercentRange(p.Distribution.CompanyCutPercent) {
		return nil, &domain.ConfigurationError{Key: "distribution.company_cut_percent", Reason: "debe estar entre 0 y 100, recibido " + p.Distribution.CompanyCutPercent.String()}
	}
	if !inPercentRange(p.Distribution.DefaultCommissionPercent) {
		return nil, &domain.ConfigurationError{Key: "distribution.default_commission_percent", Reason: "debe estar entre 0 y 100, recibido " + p.Distribution.DefaultCommissionPercent.String()}
	}
	if len(p.Distribution.ExecutiveRatios) == 0 {
		return nil, &domain.ConfigurationError{Key: "distribution.executive_ratios", Reason: "tabla de proporciones vacía"}
	}

	ratios := make(map[string]decimal.Decimal, len(p.Distribution.ExecutiveRatios))
	for name, r := range p.Distribution.ExecutiveRatios {
		n := normalizeName(name)
		if n == "" || !r.IsPositive() {
			return nil, &domain.ConfigurationError{Key: "distribution.executive_ratios", Reason: "entrada inválida " + quote(name) + ":" + r.String()}
		}
		ratios[n] = r
	}
	p.Distribution.ExecutiveRatios = ratios

	return &Engine{policy: p}, nil
}

// Policy devuelve una copia de la política validada.
func (e *Engine) Policy() Policy { return e.policy }

func inPercentRange(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}
