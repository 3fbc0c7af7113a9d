package postgres_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquidacion-api/internal/domain/repository"
	"github.com/jhoicas/liquidacion-api/internal/infrastructure/postgres"
)

func TestBuildQuery_RangoYFiltros(t *testing.T) {
	rng := repository.DateRange{
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	q, args, err := postgres.BuildQuery("tasks", "date", &rng, repository.Eq("done", true))
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, doc FROM records WHERE collection = $1 AND doc->>$2 >= $3 AND doc->>$2 < $4 AND doc @> $5::jsonb ORDER BY id", q)
	assert.Equal(t, []any{"tasks", "date", "2024-03-01", "2024-04-01", `{"done":true}`}, args)
}

func TestBuildQuery_SoloIgualdad(t *testing.T) {
	q, args, err := postgres.BuildQuery("inventory", "", nil, repository.Eq("type", "out"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, doc FROM records WHERE collection = $1 AND doc @> $2::jsonb ORDER BY id", q)
	assert.Equal(t, []any{"inventory", `{"type":"out"}`}, args)

	q, args, err = postgres.BuildQuery("employees", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, doc FROM records WHERE collection = $1 ORDER BY id", q)
	assert.Equal(t, []any{"employees"}, args)
}

func TestBuildQuery_Errores(t *testing.T) {
	_, _, err := postgres.BuildQuery("tasks", "", &repository.DateRange{})
	assert.Error(t, err)
	_, _, err = postgres.BuildQuery("tasks", "", nil, repository.Eq("", 1))
	assert.Error(t, err)
}

func TestDecodeRecord(t *testing.T) {
	rec, err := postgres.DecodeRecord("t1", []byte(`{"amount": 100000, "workers": ["최기사"]}`))
	require.NoError(t, err)
	assert.Equal(t, "t1", rec.ID())
	assert.Equal(t, 100000.0, rec["amount"])

	rec, err = postgres.DecodeRecord("row", []byte(`{"id": "task-9"}`))
	require.NoError(t, err)
	assert.Equal(t, "task-9", rec.ID())

	_, err = postgres.DecodeRecord("bad", []byte(`{`))
	assert.Error(t, err)
}
