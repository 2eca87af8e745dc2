package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/yourorg/gmbcrawl/internal/models"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New[int64, models.Coordinates](5*time.Minute, 10*time.Minute)
	defer c.Stop()

	want := models.Coordinates{Latitude: 22.28552, Longitude: 114.15769}
	c.Set(20001477, want)

	got, found := c.Get(20001477)
	if !found {
		t.Fatal("Expected to find stop 20001477")
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	// key inexistente
	if _, found = c.Get(1); found {
		t.Error("Expected not to find stop 1")
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New[string, string](5*time.Minute, 0)
	defer c.Stop()

	c.SetWithTTL("expiring", "value", 100*time.Millisecond)

	if _, found := c.Get("expiring"); !found {
		t.Error("Expected to find item before expiration")
	}

	time.Sleep(150 * time.Millisecond)

	if _, found := c.Get("expiring"); found {
		t.Error("Expected item to be expired")
	}
	if c.Count() != 0 {
		t.Errorf("Expected expired item to be removed on read, count %d", c.Count())
	}
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	c := New[string, int](0, 0)
	defer c.Stop()

	c.Set("k", 1)
	time.Sleep(10 * time.Millisecond)
	if _, found := c.Get("k"); !found {
		t.Error("Expected item without TTL to stay")
	}
}

func TestCacheCleanupTimer(t *testing.T) {
	c := New[string, int](20*time.Millisecond, 10*time.Millisecond)
	defer c.Stop()

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(100 * time.Millisecond)

	if c.Count() != 0 {
		t.Errorf("Expected cleanup to remove expired items, count %d", c.Count())
	}
}

func TestCacheClear(t *testing.T) {
	c := New[string, string](5*time.Minute, 0)
	defer c.Stop()

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	if c.Count() != 2 {
		t.Errorf("Expected count 2, got %d", c.Count())
	}

	c.Clear()
	if _, found := c.Get("key1"); found {
		t.Error("Expected key1 to be gone after clear")
	}
	if c.Count() != 0 {
		t.Errorf("Expected count 0 after clear, got %d", c.Count())
	}
}

func TestCacheStats(t *testing.T) {
	c := New[string, string](5*time.Minute, 0)
	defer c.Stop()

	c.Set("key1", "value1")
	c.SetWithTTL("key2", "value2", 50*time.Millisecond)

	if stats := c.GetStats(); stats.TotalItems != 2 {
		t.Errorf("Expected 2 total items, got %d", stats.TotalItems)
	}

	time.Sleep(100 * time.Millisecond)

	stats := c.GetStats()
	if stats.ExpiredItems != 1 {
		t.Errorf("Expected 1 expired item, got %d", stats.ExpiredItems)
	}
	if stats.ValidItems != 1 {
		t.Errorf("Expected 1 valid item, got %d", stats.ValidItems)
	}
}

func TestCacheStopTwice(t *testing.T) {
	c := New[string, string](time.Minute, time.Minute)
	c.Stop()
	c.Stop()
}

func TestCacheConcurrency(t *testing.T) {
	c := New[int, int](5*time.Minute, 10*time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(n, j)
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Get(n)
			}
		}(i)
	}
	wg.Wait()
}

func BenchmarkCacheSet(b *testing.B) {
	c := New[string, string](5*time.Minute, 10*time.Minute)
	defer c.Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set("key", "value")
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, string](5*time.Minute, 10*time.Minute)
	defer c.Stop()

	c.Set("key", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key")
	}
}
