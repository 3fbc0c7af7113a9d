package settlement

import (
	"context"
	"sync"

	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
)

// Tracker etiqueta cada cálculo de una sesión con su período y un número de secuencia.
// Una solicitud nueva cancela la anterior; el resultado de un cálculo reemplazado se descarta.
type Tracker struct {
	mu      sync.Mutex
	next    uint64
	current map[string]*Ticket
}

// Ticket identifica un cálculo en curso.
type Ticket struct {
	tracker *Tracker
	session string
	seq     uint64
	period  entity.Period
	cancel  context.CancelFunc
}

// NewTracker crea un tracker vacío.
func NewTracker() *Tracker {
	return &Tracker{current: make(map[string]*Ticket)}
}

// Begin registra un cálculo nuevo para la sesión y cancela el que estuviera en curso.
// El contexto devuelto se cancela si otro Begin de la misma sesión lo reemplaza.
func (t *Tracker) Begin(parent context.Context, session string, period entity.Period) (context.Context, *Ticket) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.current[session]; ok {
		prev.cancel()
	}
	t.next++
	tk := &Ticket{tracker: t, session: session, seq: t.next, period: period, cancel: cancel}
	t.current[session] = tk
	return ctx, tk
}

// Seq número de secuencia del cálculo (creciente en todo el tracker).
func (tk *Ticket) Seq() uint64 { return tk.seq }

// Period período solicitado.
func (tk *Ticket) Period() entity.Period { return tk.period }

// Current indica si sigue siendo el cálculo más reciente de su sesión.
func (tk *Ticket) Current() bool {
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()
	cur, ok := tk.tracker.current[tk.session]
	return ok && cur == tk
}

// Done libera el contexto y, si sigue vigente, retira el ticket de la sesión.
func (tk *Ticket) Done() {
	tk.cancel()
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()
	if cur, ok := tk.tracker.current[tk.session]; ok && cur == tk {
		delete(tk.tracker.current, tk.session)
	}
}
