package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquidacion-api/internal/application/cache"
	"github.com/jhoicas/liquidacion-api/internal/domain/repository"
)

// fakeClock reloj manual para controlar el TTL.
type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(ttl time.Duration) (*cache.Cache, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	c := cache.New(ttl)
	c.SetClock(clk.Now)
	return c, clk
}

func rangeOf(from, to string) *repository.DateRange {
	f, _ := time.Parse("2006-01-02", from)
	t, _ := time.Parse("2006-01-02", to)
	return &repository.DateRange{From: f, To: t}
}

// countingFetch devuelve un fetch que cuenta sus invocaciones.
func countingFetch(calls *int, value []string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) {
		*calls++
		return value, nil
	}
}

func TestGetOrFetch_SegundaLlamadaUsaCache(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	calls := 0
	fetch := countingFetch(&calls, []string{"a"})

	v, hit, err := cache.GetOrFetch(context.Background(), c, cache.KeyEmployees, nil, fetch)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"a"}, v)

	v, hit, err = cache.GetOrFetch(context.Background(), c, cache.KeyEmployees, nil, fetch)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a"}, v)
	assert.Equal(t, 1, calls)
}

// Rango A y luego rango B: dos fetch, nunca se reutiliza el dataset de otro rango.
func TestGetOrFetch_RangoDistintoSiempreFalla(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	calls := 0
	fetch := countingFetch(&calls, []string{"x"})

	_, _, err := cache.GetOrFetch(context.Background(), c, cache.KeyWorkOrders, rangeOf("2024-03-01", "2024-03-31"), fetch)
	require.NoError(t, err)
	_, hit, err := cache.GetOrFetch(context.Background(), c, cache.KeyWorkOrders, rangeOf("2024-02-01", "2024-02-29"), fetch)
	require.NoError(t, err)

	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestGetOrFetch_MismoRangoReutiliza(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	calls := 0
	fetch := countingFetch(&calls, []string{"x"})

	_, _, _ = cache.GetOrFetch(context.Background(), c, cache.KeyWorkOrders, rangeOf("2024-03-01", "2024-03-31"), fetch)
	_, hit, _ := cache.GetOrFetch(context.Background(), c, cache.KeyWorkOrders, rangeOf("2024-03-01", "2024-03-31"), fetch)

	assert.True(t, hit)
	assert.Equal(t, 1, calls)
}

func TestGetOrFetch_RangoContraSinRango(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	calls := 0
	fetch := countingFetch(&calls, nil)

	_, _, _ = cache.GetOrFetch(context.Background(), c, cache.KeyMovements, nil, fetch)
	_, hit, _ := cache.GetOrFetch(context.Background(), c, cache.KeyMovements, rangeOf("2024-03-01", "2024-03-31"), fetch)

	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestGetOrFetch_VenceConTTL(t *testing.T) {
	c, clk := newTestCache(time.Hour)
	calls := 0
	fetch := countingFetch(&calls, []string{"a"})

	_, _, _ = cache.GetOrFetch(context.Background(), c, cache.KeyPartPrices, nil, fetch)
	clk.Advance(59 * time.Minute)
	_, hit, _ := cache.GetOrFetch(context.Background(), c, cache.KeyPartPrices, nil, fetch)
	assert.True(t, hit, "dentro del TTL")

	clk.Advance(time.Minute)
	_, hit, _ = cache.GetOrFetch(context.Background(), c, cache.KeyPartPrices, nil, fetch)
	assert.False(t, hit, "al cumplirse el TTL la entrada vence")
	assert.Equal(t, 2, calls)
}

func TestGetOrFetch_ErrorNoSeCachea(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	boom := errors.New("almacén caído")
	calls := 0
	failing := func(context.Context) ([]string, error) {
		calls++
		return nil, boom
	}

	_, _, err := cache.GetOrFetch(context.Background(), c, cache.KeyEmployees, nil, failing)
	require.ErrorIs(t, err, boom)
	_, _, err = cache.GetOrFetch(context.Background(), c, cache.KeyEmployees, nil, failing)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, c.Len())
}

func TestInvalidate_ClavesYTodo(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	calls := 0
	fetch := countingFetch(&calls, []string{"a"})
	for _, k := range cache.Keys() {
		_, _, _ = cache.GetOrFetch(context.Background(), c, k, nil, fetch)
	}
	require.Equal(t, 4, c.Len())

	c.Invalidate(cache.KeyEmployees)
	assert.Equal(t, 3, c.Len())
	_, hit, _ := cache.GetOrFetch(context.Background(), c, cache.KeyEmployees, nil, fetch)
	assert.False(t, hit)

	c.Invalidate()
	assert.Equal(t, 0, c.Len())
}

func TestNew_TTLPorDefecto(t *testing.T) {
	assert.Equal(t, cache.DefaultTTL, cache.New(0).TTL())
	assert.Equal(t, 5*time.Minute, cache.New(5*time.Minute).TTL())
}

func TestIsKnownKey(t *testing.T) {
	assert.True(t, cache.IsKnownKey(cache.KeyMovements))
	assert.False(t, cache.IsKnownKey("holidays"))
}

func TestSessions_CachePorSesion(t *testing.T) {
	s := cache.NewSessions(time.Hour)
	a := s.For("user-a")
	assert.Same(t, a, s.For("user-a"))
	assert.NotSame(t, a, s.For("user-b"))

	calls := 0
	fetch := countingFetch(&calls, []string{"a"})
	_, _, _ = cache.GetOrFetch(context.Background(), a, cache.KeyEmployees, nil, fetch)
	_, hit, _ := cache.GetOrFetch(context.Background(), s.For("user-b"), cache.KeyEmployees, nil, fetch)
	assert.False(t, hit, "las sesiones no comparten datos")

	s.Drop("user-a")
	assert.NotSame(t, a, s.For("user-a"))
}

func TestSessions_InvalidateAll(t *testing.T) {
	s := cache.NewSessions(time.Hour)
	calls := 0
	fetch := countingFetch(&calls, []string{"a"})
	for _, id := range []string{"u1", "u2"} {
		_, _, _ = cache.GetOrFetch(context.Background(), s.For(id), cache.KeyWorkOrders, nil, fetch)
		_, _, _ = cache.GetOrFetch(context.Background(), s.For(id), cache.KeyEmployees, nil, fetch)
	}

	s.InvalidateAll(cache.KeyWorkOrders)

	assert.Equal(t, 1, s.For("u1").Len())
	assert.Equal(t, 1, s.For("u2").Len())
}

func TestSessions_DescartaSesionesInactivas(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	s := cache.NewSessions(time.Hour)
	s.SetClock(clk.Now)

	old := s.For("u-vieja")
	clk.Advance(30 * time.Minute)
	s.For("u-activa")
	require.Equal(t, 2, s.Len())

	clk.Advance(40 * time.Minute)
	s.For("u-activa")
	assert.Equal(t, 1, s.Len(), "u-vieja lleva 70 minutos sin uso")
	assert.NotSame(t, old, s.For("u-vieja"), "vuelve con un caché vacío")

	clk.Advance(59 * time.Minute)
	assert.Equal(t, 2, s.Len())
	s.For("u-vieja")
	assert.Equal(t, 2, s.Len(), "u-activa se usó hace 59 minutos")
}
