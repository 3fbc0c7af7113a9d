package settlement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	appsettlement "github.com/jhoicas/liquidacion-api/internal/application/settlement"
)

func TestTracker_NuevaSolicitudCancelaLaAnterior(t *testing.T) {
	tr := appsettlement.NewTracker()
	ctxA, a := tr.Begin(context.Background(), "u1", march(t))
	ctxB, b := tr.Begin(context.Background(), "u1", march(t))
	defer b.Done()

	assert.ErrorIs(t, ctxA.Err(), context.Canceled)
	assert.NoError(t, ctxB.Err())
	assert.False(t, a.Current())
	assert.True(t, b.Current())
	assert.Greater(t, b.Seq(), a.Seq())
	a.Done()
	assert.True(t, b.Current(), "Done de un ticket reemplazado no afecta al vigente")
}

func TestTracker_SesionesIndependientes(t *testing.T) {
	tr := appsettlement.NewTracker()
	ctxA, a := tr.Begin(context.Background(), "u1", march(t))
	_, b := tr.Begin(context.Background(), "u2", march(t))
	defer a.Done()
	defer b.Done()

	assert.NoError(t, ctxA.Err())
	assert.True(t, a.Current())
	assert.True(t, b.Current())
	assert.True(t, a.Period().Equal(march(t)))
}

// Un ticket viejo nunca vuelve a ser vigente aunque la sesión quede libre.
func TestTracker_TicketViejoNoRevive(t *testing.T) {
	tr := appsettlement.NewTracker()
	_, a := tr.Begin(context.Background(), "u1", march(t))
	_, b := tr.Begin(context.Background(), "u1", march(t))
	b.Done()
	_, c := tr.Begin(context.Background(), "u1", march(t))
	defer c.Done()

	assert.False(t, a.Current())
	assert.True(t, c.Current())
}
