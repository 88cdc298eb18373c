package cache

import (
	"testing"
	"time"
)

func TestStoreExpiry(t *testing.T) {
	t.Parallel()

	current := time.Unix(5000, 0)
	s := NewStore(time.Minute)
	s.now = func() time.Time { return current }

	s.Set("k", 42)
	if v, ok := s.Get("k"); !ok || v.(int) != 42 {
		t.Fatalf("Get(k) = %v, %v; want 42, true", v, ok)
	}

	current = current.Add(2 * time.Minute)
	if _, ok := s.Get("k"); ok {
		t.Fatal("Get(k) after expiry should miss")
	}
}

func TestStoreGetOrLoadCaches(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)

	calls := 0
	loader := func() (any, error) {
		calls++
		return "loaded", nil
	}

	for range 3 {
		v, err := s.GetOrLoad("k", loader)
		if err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
		if v.(string) != "loaded" {
			t.Fatalf("GetOrLoad = %v, want loaded", v)
		}
	}

	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}
}

func TestStorePurge(t *testing.T) {
	t.Parallel()

	current := time.Unix(5000, 0)
	s := NewStore(time.Minute)
	s.now = func() time.Time { return current }

	s.Set("old", 1)
	current = current.Add(2 * time.Minute)
	s.Set("fresh", 2)
	s.Purge()

	if _, ok := s.entries["old"]; ok {
		t.Fatal("Purge() should drop expired entry")
	}
	if _, ok := s.entries["fresh"]; !ok {
		t.Fatal("Purge() should keep live entry")
	}
}
