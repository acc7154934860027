package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bobmcallan/stockrec-portal/internal/common"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore(100)

	if err := c.Set(ctx, "regime:AAPL", []byte(`{"label":"calm"}`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok, err := c.Get(ctx, "regime:AAPL")
	if err != nil || !ok {
		t.Fatalf("expected cache hit, got ok=%v err=%v", ok, err)
	}
	if string(got) != `{"label":"calm"}` {
		t.Errorf("unexpected value: %s", got)
	}
}

func TestMemoryStore_Miss(t *testing.T) {
	c := NewMemoryStore(100)

	_, ok, err := c.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected cache miss for nonexistent key")
	}
}

func TestMemoryStore_TTLExpiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore(100)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("expected cache hit before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expected cache miss after expiry")
	}
	if n, _ := c.Len(ctx); n != 0 {
		t.Errorf("expected expired entry to be removed lazily, len=%d", n)
	}
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore(10)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), 0)
	now = now.Add(24 * time.Hour)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Error("expected entry without TTL to survive")
	}
}

func TestMemoryStore_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore(3)

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)
	c.Set(ctx, "c", []byte("3"), time.Minute)
	c.Set(ctx, "d", []byte("4"), time.Minute)

	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("expected oldest entry a to be evicted")
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, ok, _ := c.Get(ctx, k); !ok {
			t.Errorf("expected %s to be present", k)
		}
	}
}

func TestMemoryStore_UpdateDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore(2)

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)
	c.Set(ctx, "a", []byte("3"), time.Minute)

	if n, _ := c.Len(ctx); n != 2 {
		t.Errorf("expected 2 entries, got %d", n)
	}
	got, _, _ := c.Get(ctx, "a")
	if string(got) != "3" {
		t.Errorf("expected updated value 3, got %s", got)
	}
}

func TestMemoryStore_InvalidatePrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore(100)

	c.Set(ctx, "regime:AAPL", []byte("1"), time.Minute)
	c.Set(ctx, "regime:MSFT", []byte("2"), time.Minute)
	c.Set(ctx, "quote:AAPL", []byte("3"), time.Minute)

	c.InvalidatePrefix(ctx, "regime:")

	if n, _ := c.Len(ctx); n != 1 {
		t.Errorf("expected 1 entry after invalidation, got %d", n)
	}
	if _, ok, _ := c.Get(ctx, "quote:AAPL"); !ok {
		t.Error("expected non-matching key to survive")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore(10)
	c.Set(ctx, "k", []byte("v"), time.Minute)
	c.Delete(ctx, "k")
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expected key to be deleted")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore(50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (n*j)%80)
				c.Set(ctx, key, []byte("v"), time.Minute)
				c.Get(ctx, key)
				if j%25 == 0 {
					c.InvalidatePrefix(ctx, "k1")
				}
			}
		}(i)
	}
	wg.Wait()

	if n, _ := c.Len(ctx); n > 50 {
		t.Errorf("expected at most 50 entries, got %d", n)
	}
}

func TestNew_FallsBackToMemory(t *testing.T) {
	store := New(context.Background(), Options{
		Backend:    "redis",
		RedisURL:   "redis://127.0.0.1:1/0",
		MaxEntries: 10,
	}, common.NewSilentLogger())

	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("expected MemoryStore fallback, got %T", store)
	}
}

func TestNew_InvalidRedisURL(t *testing.T) {
	store := New(context.Background(), Options{Backend: "redis", RedisURL: "::bad"}, common.NewSilentLogger())
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("expected MemoryStore fallback, got %T", store)
	}
}
