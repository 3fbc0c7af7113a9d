package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/settlement"
)

// SettlementReportDTO respuesta de GET /api/settlements. Montos como números planos.
type SettlementReportDTO struct {
	ComputationID string              `json:"computation_id"`
	GeneratedAt   string              `json:"generated_at"`
	PeriodStart   string              `json:"period_start"`
	PeriodEnd     string              `json:"period_end"`
	PerEmployee   []SettlementLineDTO `json:"per_employee"`
	PerClient     []ClientSummaryDTO  `json:"per_client"`
	Unassigned    UnassignedDTO       `json:"unassigned"`
	ExecutivePool ExecutivePoolDTO    `json:"executive_pool"`
	Totals        SettlementTotalsDTO `json:"totals"`
	Warnings      []domain.Warning    `json:"warnings"`
}

// SettlementLineDTO línea por empleado.
type SettlementLineDTO struct {
	EmployeeID          string           `json:"employee_id"`
	EmployeeName        string           `json:"employee_name"`
	Role                string           `json:"role"`
	PeriodStart         string           `json:"period_start"`
	PeriodEnd           string           `json:"period_end"`
	TaskCount           int              `json:"task_count"`
	LeadTaskCount       int              `json:"lead_task_count"`
	ApportionedRevenue  float64          `json:"apportioned_revenue"`
	ApportionedPartCost float64          `json:"apportioned_part_cost"`
	ApportionedFee      float64          `json:"apportioned_fee"`
	AbsorbedFee         float64          `json:"absorbed_fee"`
	PayableAmount       float64          `json:"payable_amount"`
	Warnings            []domain.Warning `json:"warnings"`
}

// ClientSummaryDTO resumen por cliente.
type ClientSummaryDTO struct {
	Client       string  `json:"client"`
	Count        int     `json:"count"`
	Revenue      float64 `json:"revenue"`
	RevenueShare float64 `json:"revenue_share"` // %
}

// UnassignedDTO órdenes sin trabajadores.
type UnassignedDTO struct {
	Count        int      `json:"count"`
	Revenue      float64  `json:"revenue"`
	WorkOrderIDs []string `json:"work_order_ids"`
}

// ExecutivePoolDTO pool ejecutivo.
type ExecutivePoolDTO struct {
	Revenue       float64 `json:"revenue"`
	PartCost      float64 `json:"part_cost"`
	Fee           float64 `json:"fee"`
	NetProfit     float64 `json:"net_profit"`
	CompanyCut    float64 `json:"company_cut"`
	Distributable float64 `json:"distributable"`
	RatioSum      float64 `json:"ratio_sum"`
}

// SettlementTotalsDTO totales del período.
type SettlementTotalsDTO struct {
	WorkOrders      int     `json:"work_orders"`
	Revenue         float64 `json:"revenue"`
	PartCost        float64 `json:"part_cost"`
	Fee             float64 `json:"fee"`
	Payable         float64 `json:"payable"`
	CompanyRetained float64 `json:"company_retained"`
	ContractMargin  float64 `json:"contract_margin"` // parte de company_retained fuera del pool ejecutivo
}

// NewSettlementReportDTO convierte el reporte de dominio a la forma de salida.
func NewSettlementReportDTO(computationID string, generatedAt time.Time, rep settlement.Report) SettlementReportDTO {
	out := SettlementReportDTO{
		ComputationID: computationID,
		GeneratedAt:   generatedAt.UTC().Format(time.RFC3339),
		PeriodStart:   rep.PeriodStart,
		PeriodEnd:     rep.PeriodEnd,
		PerEmployee:   make([]SettlementLineDTO, 0, len(rep.Lines)),
		PerClient:     make([]ClientSummaryDTO, 0, len(rep.Clients)),
		Unassigned: UnassignedDTO{
			Count:        rep.Unassigned.Count,
			Revenue:      num(rep.Unassigned.Revenue),
			WorkOrderIDs: nonNilStrings(rep.Unassigned.WorkOrderIDs),
		},
		ExecutivePool: ExecutivePoolDTO{
			Revenue:       num(rep.Pool.Revenue),
			PartCost:      num(rep.Pool.PartCost),
			Fee:           num(rep.Pool.Fee),
			NetProfit:     num(rep.Pool.NetProfit),
			CompanyCut:    num(rep.Pool.CompanyCut),
			Distributable: num(rep.Pool.Distributable),
			RatioSum:      num(rep.Pool.RatioSum),
		},
		Totals: SettlementTotalsDTO{
			WorkOrders:      rep.Totals.WorkOrders,
			Revenue:         num(rep.Totals.Revenue),
			PartCost:        num(rep.Totals.PartCost),
			Fee:             num(rep.Totals.Fee),
			Payable:         num(rep.Totals.Payable),
			CompanyRetained: num(rep.Totals.CompanyRetained),
			ContractMargin:  num(rep.Totals.ContractMargin),
		},
		Warnings: nonNilWarnings(rep.Warnings),
	}
	for _, l := range rep.Lines {
		out.PerEmployee = append(out.PerEmployee, SettlementLineDTO{
			EmployeeID:          l.EmployeeID,
			EmployeeName:        l.EmployeeName,
			Role:                l.Role,
			PeriodStart:         l.PeriodStart,
			PeriodEnd:           l.PeriodEnd,
			TaskCount:           l.TaskCount,
			LeadTaskCount:       l.LeadTaskCount,
			ApportionedRevenue:  num(l.Revenue),
			ApportionedPartCost: num(l.PartCost),
			ApportionedFee:      num(l.Fee),
			AbsorbedFee:         num(l.AbsorbedFee),
			PayableAmount:       num(l.Payable),
			Warnings:            nonNilWarnings(l.Warnings),
		})
	}
	for _, c := range rep.Clients {
		out.PerClient = append(out.PerClient, ClientSummaryDTO{
			Client:       c.Client,
			Count:        c.Count,
			Revenue:      num(c.Revenue),
			RevenueShare: num(c.RevenueShare),
		})
	}
	return out
}

func num(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func nonNilWarnings(w []domain.Warning) []domain.Warning {
	if w == nil {
		return []domain.Warning{}
	}
	return w
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
