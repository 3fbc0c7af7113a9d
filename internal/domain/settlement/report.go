package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
)

// Input estado actual del que se deriva la liquidación.
type Input struct {
	WorkOrders []entity.WorkOrder
	Movements  []entity.OutboundMovement
	PartPrices []entity.PartPriceEntry
	Employees  []entity.Employee
}

// Line (SettlementLine) resultado derivado por empleado y período; nunca se persiste.
type Line struct {
	EmployeeID    string
	EmployeeName  string
	Role          string
	PeriodStart   string
	PeriodEnd     string
	TaskCount     int
	LeadTaskCount int
	Revenue       decimal.Decimal // ingreso repartido
	PartCost      decimal.Decimal // costo de piezas repartido
	Fee           decimal.Decimal // comisión de cliente repartida (incluye absorbida)
	AbsorbedFee   decimal.Decimal // parte de Fee absorbida por la empresa
	Payable       decimal.Decimal
	Warnings      []domain.Warning
}

// ClientSummary resumen por cliente.
type ClientSummary struct {
	Client       string
	Count        int
	Revenue      decimal.Decimal
	RevenueShare decimal.Decimal // % sobre el ingreso total del período
}

// UnassignedSummary órdenes sin trabajadores, excluidas del reparto.
type UnassignedSummary struct {
	Count        int
	Revenue      decimal.Decimal
	WorkOrderIDs []string
}

// ExecutivePool totales del pool ejecutivo.
type ExecutivePool struct {
	Revenue       decimal.Decimal
	PartCost      decimal.Decimal
	Fee           decimal.Decimal
	NetProfit     decimal.Decimal
	CompanyCut    decimal.Decimal
	Distributable decimal.Decimal
	RatioSum      decimal.Decimal
}

// Totals totales del período.
// CompanyRetained = ingreso − costo de piezas − comisiones − pagos a empleados: lo que
// queda a la empresa sin contar dos veces el costo ya descontado a los contratistas.
// ContractMargin es la parte de CompanyRetained que sale de órdenes de contratistas
// (ingreso − costo − comisión − pago) y que el pool ejecutivo no reparte.
type Totals struct {
	WorkOrders      int
	Revenue         decimal.Decimal
	PartCost        decimal.Decimal
	Fee             decimal.Decimal
	Payable         decimal.Decimal
	CompanyRetained decimal.Decimal
	ContractMargin  decimal.Decimal
}

// Report liquidación completa de un período.
type Report struct {
	PeriodStart string
	PeriodEnd   string
	Lines       []Line
	Clients     []ClientSummary
	Unassigned  UnassignedSummary
	Pool        ExecutivePool
	Totals      Totals
	Warnings    []domain.Warning // advertencias no atribuibles a una línea
}
