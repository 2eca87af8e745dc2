package cache

import (
	"sync"
	"time"
)

// ============================================================================
// CACHE - IN-MEMORY CON TTL
// ============================================================================
// Caché thread-safe con expiración. El crawler lo usa para no pedir dos veces
// las coordenadas de un paradero compartido por varias rutas en la misma
// ejecución (GMB_COORD_CACHE_TTL > 0).
//
// Uso:
//   coords := cache.New[int64, models.Coordinates](10*time.Minute, time.Minute)
//   defer coords.Stop()
//   coords.Set(20001477, c)
//   if c, ok := coords.Get(20001477); ok { ... }

type item[V any] struct {
	value      V
	expiration int64 // unix nano, 0 = sin expiración
}

// Cache es un almacén key-value con TTL seguro para uso concurrente.
type Cache[K comparable, V any] struct {
	mu                sync.RWMutex
	items             map[K]item[V]
	defaultExpiration time.Duration
	hits, misses      uint64
	stopCleanup       chan struct{}
	stopOnce          sync.Once
}

// New crea un caché con TTL por defecto. Si cleanupInterval > 0 una goroutine
// elimina periódicamente los items expirados hasta que se llame a Stop.
func New[K comparable, V any](defaultExpiration, cleanupInterval time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		items:             make(map[K]item[V]),
		defaultExpiration: defaultExpiration,
		stopCleanup:       make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.startCleanupTimer(cleanupInterval)
	}
	return c
}

// Set almacena un valor con la expiración por defecto.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.defaultExpiration)
}

// SetWithTTL almacena un valor con una duración específica. ttl <= 0 no expira.
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	var expiration int64
	if ttl > 0 {
		expiration = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = item[V]{value: value, expiration: expiration}
	c.mu.Unlock()
}

// Get devuelve (valor, true) si existe y no ha expirado.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, found := c.items[key]
	if found && it.expiration > 0 && time.Now().UnixNano() > it.expiration {
		delete(c.items, key)
		found = false
	}
	if !found {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return it.value, true
}

// Clear limpia completamente el caché. El crawler lo vacía al terminar cada
// ejecución.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	c.items = make(map[K]item[V])
	c.mu.Unlock()
}

// Count retorna el número de items (incluye expirados aún no limpiados).
func (c *Cache[K, V]) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats resume el estado del caché.
type Stats struct {
	TotalItems   int    `json:"total_items"`
	ExpiredItems int    `json:"expired_items"`
	ValidItems   int    `json:"valid_items"`
	Hits         uint64 `json:"hits"`
	Misses       uint64 `json:"misses"`
}

// GetStats retorna estadísticas actuales del caché.
func (c *Cache[K, V]) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{TotalItems: len(c.items), Hits: c.hits, Misses: c.misses}
	now := time.Now().UnixNano()
	for _, it := range c.items {
		if it.expiration > 0 && now > it.expiration {
			stats.ExpiredItems++
		} else {
			stats.ValidItems++
		}
	}
	return stats
}

func (c *Cache[K, V]) startCleanupTimer(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Cache[K, V]) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, it := range c.items {
		if it.expiration > 0 && now > it.expiration {
			delete(c.items, key)
		}
	}
}

// Stop detiene la limpieza automática. Es seguro llamarlo más de una vez.
func (c *Cache[K, V]) Stop() {
	c.stopOnce.Do(func() { close(c.stopCleanup) })
}
