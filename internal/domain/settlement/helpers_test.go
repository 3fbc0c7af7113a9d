package settlement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquidacion-api/internal/domain/settlement"
)

const (
	testMarker      = "공간"
	testWorkUsage   = "작업사용"
	testExecutiveA  = "김대표"
	testExecutiveB  = "이이사"
	testExecutiveC  = "박실장"
	testContractorA = "최기사"
	testContractorB = "정기사"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// assertDec compara por valor (12500 == 12500.00).
func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"esperado %s, obtenido %s", want, got.String()}, msgAndArgs...)...)
}

func testPolicy() settlement.Policy {
	return settlement.Policy{
		Fee:  settlement.FeePolicy{Marker: testMarker, Rate: dec("0.22")},
		Cost: settlement.CostPolicy{WorkUsageReason: testWorkUsage},
		Distribution: settlement.DistributionPolicy{
			CompanyCutPercent:        dec("20"),
			DefaultCommissionPercent: dec("70"),
			ExecutiveRatios: map[string]decimal.Decimal{
				testExecutiveA: dec("4"),
				testExecutiveB: dec("3"),
				testExecutiveC: dec("3"),
			},
		},
	}
}

func newTestEngine(t *testing.T) *settlement.Engine {
	t.Helper()
	eng, err := settlement.NewEngine(testPolicy())
	require.NoError(t, err, "la política de prueba debe ser válida")
	return eng
}
