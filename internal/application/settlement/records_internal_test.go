package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/repository"
)

func TestDecimalValue(t *testing.T) {
	cases := []struct {
		in     any
		want   string
		ok     bool
		wantEr bool
	}{
		{in: nil, want: "0", ok: false},
		{in: "", want: "0", ok: false},
		{in: "25,000", want: "25000", ok: true},
		{in: 12500.0, want: "12500", ok: true},
		{in: int32(3), want: "3", ok: true},
		{in: int64(7), want: "7", ok: true},
		{in: "doce", wantEr: true},
		{in: true, wantEr: true},
	}
	for _, c := range cases {
		got, ok, err := decimalValue(c.in)
		if c.wantEr {
			assert.Error(t, err, "%v", c.in)
			continue
		}
		require.NoError(t, err, "%v", c.in)
		assert.Equal(t, c.ok, ok, "%v", c.in)
		assert.True(t, decimal.RequireFromString(c.want).Equal(got), "%v → %s", c.in, got)
	}
}

func TestStringList(t *testing.T) {
	got, err := stringList("최기사, 정기사")
	require.NoError(t, err)
	assert.Equal(t, []string{"최기사", " 정기사"}, got, "los espacios se normalizan en el motor")

	got, err = stringList([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = stringList([]any{"a", 3.0})
	assert.Error(t, err)

	got, err = stringList(` ["최기사","정기사"] `)
	require.NoError(t, err)
	assert.Equal(t, []string{"최기사", "정기사"}, got, "lista JSON dentro del texto")

	got, err = stringList("[최기사, 정기사")
	require.NoError(t, err)
	assert.Equal(t, []string{"[최기사", " 정기사"}, got, "JSON ilegible se trata como texto separado por comas")
}

func TestParseWorkOrder_TrabajadoresComoJSONEnTexto(t *testing.T) {
	wo, err := parseWorkOrder(repository.Record{
		"id": "wo-1", "date": "2024-03-05T10:00:00", "amount": 100000.0,
		"workers": `["최기사","정기사"]`, "done": true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"최기사", "정기사"}, wo.WorkerNames)
}

func TestBoolValue(t *testing.T) {
	for in, want := range map[any]bool{true: true, "true": true, "false": false, 1.0: true, int64(0): false} {
		got, err := boolValue(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%v", in)
	}
	_, err := boolValue("quizás")
	assert.Error(t, err)
}

func TestParseMovement_CalculaTotal(t *testing.T) {
	m, err := parseMovement(repository.Record{"id": "m1", "quantity": 3.0, "unitPrice": "1,500", "type": "OUT"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.Quantity)
	assert.True(t, decimal.NewFromInt(4500).Equal(m.TotalAmount))
	assert.Equal(t, "out", m.Kind)

	_, err = parseMovement(repository.Record{"id": "m2", "quantity": 1.5, "totalAmount": 10.0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseWorkOrder(t *testing.T) {
	wo, err := parseWorkOrder(repository.Record{
		"id": "t1", "date": "2024-03-05T10:00:00", "amount": 100000.0, "fee": "5,000",
		"workers": []any{"최기사"}, "parts": "CT60:2", "done": true,
	})
	require.NoError(t, err)
	require.NotNil(t, wo.DeclaredFee)
	assert.True(t, decimal.NewFromInt(5000).Equal(*wo.DeclaredFee))
	assert.Equal(t, "CT60:2", wo.PartsDeclaration)
	assert.True(t, wo.Done)

	wo, err = parseWorkOrder(repository.Record{"id": "t2", "date": "2024-03-05", "amount": 1.0})
	require.NoError(t, err)
	assert.Nil(t, wo.DeclaredFee)
	assert.False(t, wo.Done)

	for _, r := range []repository.Record{
		{"date": "2024-03-05", "amount": 1.0},
		{"id": "x", "amount": 1.0},
		{"id": "x", "date": "2024-03-05"},
		{"id": "x", "date": "2024-03-05", "amount": -1.0},
		{"id": "x", "date": "2024-03-05", "amount": 1.0, "workers": 7.0},
	} {
		_, err := parseWorkOrder(r)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%v", r)
	}
}

func TestParseAll_DescartaConAdvertencia(t *testing.T) {
	ds := parseAll(repository.CollectionPartPrices, []repository.Record{
		{"id": "p1", "name": "CT60", "price": 12500.0},
		{"id": "p2", "name": "브라켓"},
	}, parsePartPrice)

	require.Len(t, ds.Items, 1)
	require.Len(t, ds.Warnings, 1)
	assert.Equal(t, domain.WarnMalformedRecord, ds.Warnings[0].Kind)
	assert.Empty(t, ds.Warnings[0].WorkOrderID)
	assert.Contains(t, ds.Warnings[0].Detail, "parts/p2")
}
