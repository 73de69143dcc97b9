package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestFIFOCacheBasic(t *testing.T) {
	c := NewFIFOCache[string, string](10)

	c.Set("a", "1")
	v, ok := c.Get("a")
	if !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v; want %q, true", v, ok, "1")
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestFIFOCacheEvictsOldestFirst(t *testing.T) {
	c := NewFIFOCache[string, int](3)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Reads must not rescue "a" from eviction: this is FIFO, not LRU.
	c.Get("a")
	c.Get("a")

	c.Set("d", 4)

	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry a to be evicted")
	}
	for _, key := range []string{"b", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %q to survive eviction", key)
		}
	}
	if c.Size() != 3 {
		t.Errorf("Size() = %d, want 3", c.Size())
	}
}

func TestFIFOCacheUpdateKeepsPosition(t *testing.T) {
	c := NewFIFOCache[string, int](2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10) // update, not re-insert
	c.Set("c", 3)  // evicts a (still the oldest)

	if _, ok := c.Get("a"); ok {
		t.Error("expected updated entry a to keep its insertion position and be evicted")
	}
	if v, _ := c.Get("b"); v != 2 {
		t.Errorf("Get(b) = %d, want 2", v)
	}
}

func TestFIFOCacheDefaultCapacity(t *testing.T) {
	c := NewFIFOCache[string, int](0)
	if c.Capacity() != 1000 {
		t.Errorf("Capacity() = %d, want 1000", c.Capacity())
	}
}

func TestFIFOCacheConcurrentAccess(t *testing.T) {
	c := NewFIFOCache[string, int](100)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("key-%d", j%50)
				c.Set(key, n)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Size() > 100 {
		t.Errorf("Size() = %d exceeds capacity 100", c.Size())
	}
}
