package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
)

// Fuentes del costo de piezas.
const (
	CostSourceLedger      = "ledger"      // movimientos de salida por uso en la orden
	CostSourceDeclaration = "declaration" // declaración de piezas + lista de precios
	CostSourceNone        = "none"        // sin movimientos ni declaración
)

// PriceList índice nombre normalizado → precio unitario.
type PriceList map[string]decimal.Decimal

// NewPriceList construye el índice; ante nombres repetidos conserva el primero.
func NewPriceList(entries []entity.PartPriceEntry) PriceList {
	pl := make(PriceList, len(entries))
	for _, e := range entries {
		name := normalizeName(e.PartName)
		if name == "" {
			continue
		}
		if _, dup := pl[name]; dup {
			continue
		}
		pl[name] = e.UnitPrice
	}
	return pl
}

// CostResolution costo resuelto de una orden y de dónde salió.
type CostResolution struct {
	Amount   decimal.Decimal
	Source   string
	Format   string // formato de la declaración cuando Source = declaration
	Warnings []domain.Warning
}

// CostPolicy parámetros del Cost Resolver.
type CostPolicy struct {
	// WorkUsageReason etiqueta de motivo que marca una salida como "usado en orden de trabajo".
	WorkUsageReason string
}

// MovementIndex agrupa los movimientos autoritativos por orden de trabajo.
type MovementIndex map[string][]entity.OutboundMovement

// IndexMovements filtra por Kind = out y motivo de uso en orden, y agrupa por WorkOrderID.
func (p CostPolicy) IndexMovements(movements []entity.OutboundMovement) MovementIndex {
	idx := make(MovementIndex)
	reason := normalizeName(p.WorkUsageReason)
	for _, m := range movements {
		if m.WorkOrderID == "" || m.Kind != entity.MovementKindOut {
			continue
		}
		if normalizeName(m.ReasonTag) != reason {
			continue
		}
		idx[m.WorkOrderID] = append(idx[m.WorkOrderID], m)
	}
	return idx
}

// ResolvePartCost determina el costo de piezas de una orden: el libro de inventario
// manda; la declaración de piezas solo se usa si no hay salidas registradas. Función pura.
func (p CostPolicy) ResolvePartCost(wo entity.WorkOrder, movements []entity.OutboundMovement, prices PriceList) CostResolution {
	return p.resolve(wo, p.IndexMovements(movements), prices)
}

func (p CostPolicy) resolve(wo entity.WorkOrder, idx MovementIndex, prices PriceList) CostResolution {
	if ledger := idx[wo.ID]; len(ledger) > 0 {
		total := decimal.Zero
		for _, m := range ledger {
			total = total.Add(m.TotalAmount)
		}
		return CostResolution{Amount: total, Source: CostSourceLedger}
	}

	parsed := ParseDeclaration(wo.PartsDeclaration)
	if parsed.Format == FormatEmpty {
		return CostResolution{Amount: decimal.Zero, Source: CostSourceNone, Format: FormatEmpty}
	}

	res := CostResolution{Amount: decimal.Zero, Source: CostSourceDeclaration, Format: parsed.Format}
	for _, s := range parsed.Skipped {
		res.Warnings = append(res.Warnings, domain.Warning{
			Kind: domain.WarnMalformedPart, WorkOrderID: wo.ID,
			Detail: "entrada de piezas descartada: " + s,
		})
	}
	if parsed.Format == FormatUnparseable {
		res.Warnings = append(res.Warnings, domain.Warning{
			Kind: domain.WarnUnparseableParts, WorkOrderID: wo.ID,
			Detail: "declaración de piezas sin entradas válidas; costo 0",
		})
		return res
	}

	for _, part := range parsed.Parts {
		price := decimal.Zero
		switch {
		case part.Price != nil:
			price = *part.Price
		default:
			known, ok := prices[part.Name]
			if !ok {
				res.Warnings = append(res.Warnings, domain.Warning{
					Kind: domain.WarnUnknownPart, WorkOrderID: wo.ID,
					Detail: "pieza sin precio en la lista: " + part.Name,
				})
			}
			price = known
		}
		res.Amount = res.Amount.Add(part.Quantity.Mul(price))
	}
	return res
}
