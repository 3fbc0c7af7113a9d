package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquidacion-api/internal/application/dto"
	"github.com/jhoicas/liquidacion-api/internal/domain/settlement"
)

func TestNewSettlementReportDTO_NumerosPlanos(t *testing.T) {
	rep := settlement.Report{
		PeriodStart: "2024-03-01",
		PeriodEnd:   "2024-03-31",
		Lines: []settlement.Line{{
			EmployeeName: "최기사", Role: "contractWorker", TaskCount: 2,
			Revenue: decimal.NewFromInt(350000), Payable: decimal.NewFromInt(217500),
		}},
		Clients: []settlement.ClientSummary{{Client: "하이마트", Count: 2, Revenue: decimal.NewFromInt(500000), RevenueShare: decimal.RequireFromString("76.92")}},
		Totals:  settlement.Totals{WorkOrders: 4, Revenue: decimal.NewFromInt(650000), ContractMargin: decimal.NewFromInt(123000)},
	}
	gen := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	out := dto.NewSettlementReportDTO("abc", gen, rep)
	b, err := json.Marshal(out)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, "2024-04-01T09:00:00Z", body["generated_at"])
	assert.Equal(t, 650000.0, body["totals"].(map[string]any)["revenue"])
	assert.Equal(t, 123000.0, body["totals"].(map[string]any)["contract_margin"])
	line := body["per_employee"].([]any)[0].(map[string]any)
	assert.Equal(t, 217500.0, line["payable_amount"])
	assert.Equal(t, []any{}, line["warnings"], "sin advertencias se serializa lista vacía")
	assert.Equal(t, 76.92, body["per_client"].([]any)[0].(map[string]any)["revenue_share"])
	assert.Equal(t, []any{}, body["unassigned"].(map[string]any)["work_order_ids"])
	assert.Equal(t, []any{}, body["warnings"])
}
