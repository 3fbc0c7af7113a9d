package settlement

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
)

const noClientLabel = "-"

// lineAcc acumulador por trabajador durante la construcción del reporte.
type lineAcc struct {
	emp        entity.Employee
	role       string
	commission decimal.Decimal
	line       Line
	reported   Share // suma de partes redondeadas por orden
	absorbed   decimal.Decimal
	payable    decimal.Decimal
}

type clientAcc struct {
	label   string
	count   int
	revenue decimal.Decimal
}

// BuildReport arma la liquidación por empleado y por cliente para el período.
// Solo órdenes terminadas con fecha dentro de [inicio, fin] (granularidad de día),
// deduplicadas por id. La salida es estable: mismas entradas, mismo reporte.
func (e *Engine) BuildReport(in Input, period entity.Period) Report {
	rep := Report{
		PeriodStart: period.Start.Format(entity.DayLayout),
		PeriodEnd:   period.End.Format(entity.DayLayout),
		Unassigned:  UnassignedSummary{Revenue: decimal.Zero, WorkOrderIDs: []string{}},
	}

	orders, warnings := selectWorkOrders(in.WorkOrders, period)
	rep.Warnings = append(rep.Warnings, warnings...)

	prices := NewPriceList(in.PartPrices)
	movements := e.policy.Cost.IndexMovements(in.Movements)

	accs := make(map[string]*lineAcc)
	var order []string // nombres en orden de creación, para iterar sin depender del mapa
	getAcc := func(name string, emp *entity.Employee) *lineAcc {
		if a, ok := accs[name]; ok {
			return a
		}
		a := &lineAcc{}
		if emp != nil {
			a.emp = *emp
		} else {
			a.emp = entity.Employee{Name: name, Role: entity.RoleContractWorker}
			a.line.Warnings = append(a.line.Warnings, domain.Warning{
				Kind: domain.WarnUnknownEmployee, Employee: name,
				Detail: "trabajador sin registro en el directorio; se liquida con la tasa por defecto",
			})
		}
		role, commission, w := e.policy.Distribution.ResolveRole(a.emp)
		a.role, a.commission = role, commission
		if w != nil {
			a.line.Warnings = append(a.line.Warnings, *w)
		}
		accs[name] = a
		order = append(order, name)
		return a
	}

	directory := make(map[string]*entity.Employee, len(in.Employees))
	for i := range in.Employees {
		emp := &in.Employees[i]
		name := normalizeName(emp.Name)
		if name == "" {
			continue
		}
		if _, dup := directory[name]; dup {
			continue
		}
		directory[name] = emp
		getAcc(name, emp)
	}

	clients := make(map[string]*clientAcc)
	pool := Share{Revenue: decimal.Zero, PartCost: decimal.Zero, Fee: decimal.Zero}
	totals := Totals{Revenue: decimal.Zero, PartCost: decimal.Zero, Fee: decimal.Zero}
	contractMargin := decimal.Zero // margen de las porciones de contrato; no entra al pool

	for _, wo := range orders {
		cost := e.policy.Cost.resolve(wo, movements, prices)
		fee := e.policy.Fee.Resolve(wo)
		app := Apportion(wo, wo.GrossAmount, cost.Amount, fee.Amount)

		totals.WorkOrders++
		totals.Revenue = totals.Revenue.Add(wo.GrossAmount)
		totals.PartCost = totals.PartCost.Add(cost.Amount)
		totals.Fee = totals.Fee.Add(fee.Amount)

		key := normalizeName(wo.Client)
		ca, ok := clients[key]
		if !ok {
			label := key
			if label == "" {
				label = noClientLabel
			}
			ca = &clientAcc{label: label, revenue: decimal.Zero}
			clients[key] = ca
		}
		ca.count++
		ca.revenue = ca.revenue.Add(wo.GrossAmount)

		if app.Unassigned() {
			rep.Unassigned.Count++
			rep.Unassigned.Revenue = rep.Unassigned.Revenue.Add(wo.GrossAmount)
			rep.Unassigned.WorkOrderIDs = append(rep.Unassigned.WorkOrderIDs, wo.ID)
			rep.Warnings = append(rep.Warnings, cost.Warnings...)
			continue
		}

		rounded := app.Rounded()
		for i, name := range app.Workers {
			a := getAcc(name, directory[name])
			share := app.Shares[name]
			r := rounded[name]

			a.line.TaskCount++
			if i == 0 {
				a.line.LeadTaskCount++
			}
			a.reported.Revenue = a.reported.Revenue.Add(r.Revenue)
			a.reported.PartCost = a.reported.PartCost.Add(r.PartCost)
			a.reported.Fee = a.reported.Fee.Add(r.Fee)
			if fee.CompanyAbsorbed {
				a.absorbed = a.absorbed.Add(r.Fee)
			}
			for _, w := range cost.Warnings {
				w.Employee = name
				a.line.Warnings = append(a.line.Warnings, w)
			}

			if a.role == entity.RoleExecutive {
				pool.Revenue = pool.Revenue.Add(share.Revenue)
				pool.PartCost = pool.PartCost.Add(share.PartCost)
				pool.Fee = pool.Fee.Add(share.Fee)
				continue
			}
			p := e.policy.Distribution.ContractPayable(a.commission, share, fee.CompanyAbsorbed)
			a.payable = a.payable.Add(p)
			contractMargin = contractMargin.Add(share.Revenue.Sub(share.PartCost).Sub(share.Fee).Sub(p))
		}
	}

	// Pool ejecutivo: Σ proporciones de los ejecutivos del directorio.
	ratioSum := decimal.Zero
	for _, name := range order {
		a := accs[name]
		if a.role != entity.RoleExecutive {
			continue
		}
		if r, ok := e.policy.Distribution.RatioFor(a.emp); ok {
			ratioSum = ratioSum.Add(r)
		}
	}
	net := pool.Revenue.Sub(pool.PartCost).Sub(pool.Fee)
	cut := e.policy.Distribution.CompanyCut(net)
	rep.Pool = ExecutivePool{
		Revenue:       pool.Revenue.Round(0),
		PartCost:      pool.PartCost.Round(0),
		Fee:           pool.Fee.Round(0),
		NetProfit:     net.Round(0),
		CompanyCut:    cut.Round(0),
		Distributable: net.Sub(cut).Round(0),
		RatioSum:      ratioSum,
	}

	totals.Payable = decimal.Zero
	rep.Lines = make([]Line, 0, len(order))
	for _, name := range order {
		a := accs[name]
		if a.role == entity.RoleExecutive {
			p := e.policy.Distribution.ComputePayable(a.emp, pool, false, ratioSum)
			a.line.Warnings = append(a.line.Warnings, p.Warnings...)
			a.payable = p.Amount
		}

		l := a.line
		l.EmployeeID = a.emp.ID
		l.EmployeeName = name
		l.Role = a.role
		l.PeriodStart, l.PeriodEnd = rep.PeriodStart, rep.PeriodEnd
		l.Revenue = a.reported.Revenue
		l.PartCost = a.reported.PartCost
		l.Fee = a.reported.Fee
		l.AbsorbedFee = a.absorbed
		l.Payable = a.payable.Round(0)
		if l.Warnings == nil {
			l.Warnings = []domain.Warning{}
		}
		totals.Payable = totals.Payable.Add(l.Payable)
		rep.Lines = append(rep.Lines, l)
	}
	sort.SliceStable(rep.Lines, func(i, j int) bool {
		a, b := rep.Lines[i], rep.Lines[j]
		if a.Role != b.Role {
			return a.Role == entity.RoleExecutive
		}
		if a.EmployeeName != b.EmployeeName {
			return a.EmployeeName < b.EmployeeName
		}
		return a.EmployeeID < b.EmployeeID
	})

	rep.Clients = buildClientSummaries(clients, totals.Revenue)

	totals.Revenue = totals.Revenue.Round(0)
	totals.PartCost = totals.PartCost.Round(0)
	totals.Fee = totals.Fee.Round(0)
	totals.CompanyRetained = totals.Revenue.Sub(totals.PartCost).Sub(totals.Fee).Sub(totals.Payable)
	totals.ContractMargin = contractMargin.Round(0)
	rep.Totals = totals
	if rep.Warnings == nil {
		rep.Warnings = []domain.Warning{}
	}
	return rep
}

// selectWorkOrders filtra terminadas dentro del período, deduplica por id (gana la primera)
// y ordena por fecha e id.
func selectWorkOrders(all []entity.WorkOrder, period entity.Period) ([]entity.WorkOrder, []domain.Warning) {
	var warnings []domain.Warning
	seen := make(map[string]struct{}, len(all))
	out := make([]entity.WorkOrder, 0, len(all))
	for _, wo := range all {
		if !wo.Done {
			continue
		}
		if wo.ID == "" {
			warnings = append(warnings, domain.Warning{Kind: domain.WarnMalformedRecord, Detail: "orden terminada sin id; se omite"})
			continue
		}
		day, ok := wo.Day()
		if !ok {
			warnings = append(warnings, domain.Warning{Kind: domain.WarnInvalidDate, WorkOrderID: wo.ID, Detail: "fecha ilegible " + quote(wo.Date)})
			continue
		}
		if !period.Contains(day) {
			continue
		}
		if _, dup := seen[wo.ID]; dup {
			warnings = append(warnings, domain.Warning{Kind: domain.WarnDuplicateWorkOrder, WorkOrderID: wo.ID, Detail: "orden repetida; se cuenta una sola vez"})
			continue
		}
		seen[wo.ID] = struct{}{}
		out = append(out, wo)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, warnings
}

// buildClientSummaries convierte los acumuladores en resúmenes con % de participación,
// ordenados por ingreso descendente.
func buildClientSummaries(clients map[string]*clientAcc, totalRevenue decimal.Decimal) []ClientSummary {
	out := make([]ClientSummary, 0, len(clients))
	for _, c := range clients {
		share := decimal.Zero
		if totalRevenue.IsPositive() {
			share = c.revenue.Div(totalRevenue).Mul(hundred).Round(2)
		}
		out = append(out, ClientSummary{
			Client:       c.label,
			Count:        c.count,
			Revenue:      c.revenue.Round(0),
			RevenueShare: share,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Client < out[j].Client
	})
	return out
}
