package cache

import (
	"sync"
	"time"
)

// Sessions registro de cachés por sesión (sujeto del JWT).
// Una sesión sin uso durante más de un TTL se descarta: todas sus entradas ya vencieron.
type Sessions struct {
	mu       sync.Mutex
	ttl      time.Duration
	byID     map[string]*Cache
	lastUsed map[string]time.Time
	clock    func() time.Time
}

// NewSessions crea el registro; cada caché nuevo usa ttl.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sessions{ttl: ttl, byID: make(map[string]*Cache), lastUsed: make(map[string]time.Time)}
}

// SetClock reloj para los cachés creados a partir de ahora y para el descarte (tests).
func (s *Sessions) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.clock = now
	s.mu.Unlock()
}

// For devuelve el caché de la sesión, creándolo si no existe, y descarta las sesiones inactivas.
func (s *Sessions) For(sessionID string) *Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if s.clock != nil {
		now = s.clock()
	}
	s.evictIdle(now)
	s.lastUsed[sessionID] = now
	if c, ok := s.byID[sessionID]; ok {
		return c
	}
	c := New(s.ttl)
	if s.clock != nil {
		c.now = s.clock
	}
	s.byID[sessionID] = c
	return c
}

func (s *Sessions) evictIdle(now time.Time) {
	for id, at := range s.lastUsed {
		if now.Sub(at) >= s.ttl {
			delete(s.byID, id)
			delete(s.lastUsed, id)
		}
	}
}

// Len número de sesiones abiertas.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Drop elimina el caché de la sesión.
func (s *Sessions) Drop(sessionID string) {
	s.mu.Lock()
	delete(s.byID, sessionID)
	delete(s.lastUsed, sessionID)
	s.mu.Unlock()
}

// InvalidateAll aplica Invalidate(keys...) a todas las sesiones abiertas.
// Lo usa el colaborador CRUD tras una mutación.
func (s *Sessions) InvalidateAll(keys ...string) {
	s.mu.Lock()
	caches := make([]*Cache, 0, len(s.byID))
	for _, c := range s.byID {
		caches = append(caches, c)
	}
	s.mu.Unlock()
	for _, c := range caches {
		c.Invalidate(keys...)
	}
}
