// Package cache implementa el caché de agregación de datasets usado por la liquidación.
// Es un objeto inyectado, uno por sesión; nunca se persiste.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/liquidacion-api/internal/domain/repository"
)

// DefaultTTL vigencia por defecto de una entrada.
const DefaultTTL = time.Hour

// Claves de los datasets que cachea la liquidación.
const (
	KeyWorkOrders = "workOrders"
	KeyMovements  = "movements"
	KeyEmployees  = "employees"
	KeyPartPrices = "partPrices"
)

// Keys devuelve todas las claves conocidas, en orden fijo.
func Keys() []string {
	return []string{KeyWorkOrders, KeyMovements, KeyEmployees, KeyPartPrices}
}

// IsKnownKey indica si key es un dataset cacheado.
func IsKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

type entry struct {
	data      any
	fetchedAt time.Time
	rng       *repository.DateRange // nil: dataset sin rango
}

// Cache guarda el resultado de cada fetch junto con el momento y el rango con que se obtuvo.
// Una entrada es válida si no venció el TTL y el rango pedido es exactamente el mismo.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// New crea un caché vacío. ttl <= 0 usa DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl, now: time.Now, entries: make(map[string]entry)}
}

// SetClock reemplaza el reloj (tests).
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// TTL vigencia configurada.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Invalidate descarta las claves indicadas; sin claves descarta todo.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.entries = make(map[string]entry)
		return
	}
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// Len número de entradas guardadas (válidas o no).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string, rng *repository.DateRange) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	if !sameRange(e.rng, rng) {
		return nil, false
	}
	return e.data, true
}

func (c *Cache) store(key string, rng *repository.DateRange, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var r *repository.DateRange
	if rng != nil {
		cp := *rng
		r = &cp
	}
	c.entries[key] = entry{data: data, fetchedAt: c.now(), rng: r}
}

// GetOrFetch devuelve el valor cacheado bajo key si sigue vigente para rng; si no, llama a
// fetch y guarda el resultado. Los errores de fetch nunca se cachean.
// hit indica si el valor salió del caché.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, rng *repository.DateRange, fetch func(context.Context) (T, error)) (value T, hit bool, err error) {
	if v, ok := c.lookup(key, rng); ok {
		if typed, ok := v.(T); ok {
			return typed, true, nil
		}
	}
	value, err = fetch(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	c.store(key, rng, value)
	return value, false, nil
}

func sameRange(a, b *repository.DateRange) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.From.Equal(b.From) && a.To.Equal(b.To)
}
