package settlement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
	"github.com/jhoicas/liquidacion-api/internal/domain/settlement"
)

var testPrices = settlement.NewPriceList([]entity.PartPriceEntry{
	{PartName: "CT60", UnitPrice: dec("12500")},
	{PartName: "HDMI", UnitPrice: dec("8000")},
})

func costPolicy() settlement.CostPolicy {
	return settlement.CostPolicy{WorkUsageReason: testWorkUsage}
}

// Sin movimientos: la declaración "CT60:2" con CT60 → 12500 cuesta 25000.
func TestResolvePartCost_RespaldoDeclaracion(t *testing.T) {
	wo := entity.WorkOrder{ID: "wo-1", PartsDeclaration: "CT60:2"}

	got := costPolicy().ResolvePartCost(wo, nil, testPrices)

	assertDec(t, "25000", got.Amount)
	assert.Equal(t, settlement.CostSourceDeclaration, got.Source)
	assert.Empty(t, got.Warnings)
}

// Un movimiento de salida por 30000 gana sobre una declaración contradictoria.
func TestResolvePartCost_LibroPrevalece(t *testing.T) {
	wo := entity.WorkOrder{ID: "wo-1", PartsDeclaration: "CT60:5, HDMI:3"}
	movs := []entity.OutboundMovement{
		{ID: "m-1", WorkOrderID: "wo-1", PartName: "CT60", Quantity: 2, UnitAmount: dec("15000"), TotalAmount: dec("30000"), Kind: entity.MovementKindOut, ReasonTag: testWorkUsage},
	}

	got := costPolicy().ResolvePartCost(wo, movs, testPrices)

	assertDec(t, "30000", got.Amount)
	assert.Equal(t, settlement.CostSourceLedger, got.Source)
}

func TestResolvePartCost_LibroSumaVariosMovimientos(t *testing.T) {
	wo := entity.WorkOrder{ID: "wo-1"}
	movs := []entity.OutboundMovement{
		{WorkOrderID: "wo-1", TotalAmount: dec("10000"), Kind: entity.MovementKindOut, ReasonTag: testWorkUsage},
		{WorkOrderID: "wo-1", TotalAmount: dec("2500"), Kind: entity.MovementKindOut, ReasonTag: testWorkUsage},
	}
	got := costPolicy().ResolvePartCost(wo, movs, testPrices)
	assertDec(t, "12500", got.Amount)
}

// Entradas, otros motivos u otras órdenes no son autoritativos.
func TestResolvePartCost_IgnoraMovimientosNoAutoritativos(t *testing.T) {
	wo := entity.WorkOrder{ID: "wo-1", PartsDeclaration: "HDMI:1"}
	movs := []entity.OutboundMovement{
		{WorkOrderID: "wo-1", TotalAmount: dec("99999"), Kind: entity.MovementKindIn, ReasonTag: testWorkUsage},
		{WorkOrderID: "wo-1", TotalAmount: dec("99999"), Kind: entity.MovementKindOut, ReasonTag: "파손"},
		{WorkOrderID: "wo-2", TotalAmount: dec("99999"), Kind: entity.MovementKindOut, ReasonTag: testWorkUsage},
		{WorkOrderID: "", TotalAmount: dec("99999"), Kind: entity.MovementKindOut, ReasonTag: testWorkUsage},
	}

	got := costPolicy().ResolvePartCost(wo, movs, testPrices)

	assertDec(t, "8000", got.Amount)
	assert.Equal(t, settlement.CostSourceDeclaration, got.Source)
}

func TestResolvePartCost_DeclaracionVacia(t *testing.T) {
	got := costPolicy().ResolvePartCost(entity.WorkOrder{ID: "wo-1"}, nil, testPrices)
	assertDec(t, "0", got.Amount)
	assert.Equal(t, settlement.CostSourceNone, got.Source)
}

// Pieza desconocida: precio 0 y advertencia, sin error.
func TestResolvePartCost_PiezaDesconocida(t *testing.T) {
	wo := entity.WorkOrder{ID: "wo-1", PartsDeclaration: "CT60:1, 미확인부품:4"}

	got := costPolicy().ResolvePartCost(wo, nil, testPrices)

	assertDec(t, "12500", got.Amount)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, domain.WarnUnknownPart, got.Warnings[0].Kind)
	assert.Equal(t, "wo-1", got.Warnings[0].WorkOrderID)
}

// El precio declarado en la lista estructurada tiene prioridad sobre la lista de precios.
func TestResolvePartCost_PrecioDeclarado(t *testing.T) {
	wo := entity.WorkOrder{ID: "wo-1", PartsDeclaration: `[{"name":"CT60","quantity":2,"price":10000},{"name":"HDMI","quantity":1}]`}

	got := costPolicy().ResolvePartCost(wo, nil, testPrices)

	assertDec(t, "28000", got.Amount)
	assert.Equal(t, settlement.FormatStructured, got.Format)
}

func TestResolvePartCost_DeclaracionIlegible(t *testing.T) {
	wo := entity.WorkOrder{ID: "wo-1", PartsDeclaration: "CT60:muchas"}

	got := costPolicy().ResolvePartCost(wo, nil, testPrices)

	assertDec(t, "0", got.Amount)
	assert.Equal(t, settlement.FormatUnparseable, got.Format)
	kinds := make([]string, 0, len(got.Warnings))
	for _, w := range got.Warnings {
		kinds = append(kinds, w.Kind)
	}
	assert.Contains(t, kinds, domain.WarnUnparseableParts)
	assert.Contains(t, kinds, domain.WarnMalformedPart)
}

func TestNewPriceList_PrimerNombreGana(t *testing.T) {
	pl := settlement.NewPriceList([]entity.PartPriceEntry{
		{PartName: " CT60 ", UnitPrice: dec("100")},
		{PartName: "CT60", UnitPrice: dec("200")},
		{PartName: "", UnitPrice: dec("300")},
	})
	require.Len(t, pl, 1)
	assertDec(t, "100", pl["CT60"])
}
