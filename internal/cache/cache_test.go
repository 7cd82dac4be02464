package cache

import (
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.Len() != 0 {
		t.Errorf("new cache has %d items, want 0", c.Len())
	}
}

func TestGetSet(t *testing.T) {
	c := New()
	c.Set("acme/widget", "1.5K")

	val, found := c.Get("acme/widget")
	if !found {
		t.Fatal("expected key to be found")
	}
	if val != "1.5K" {
		t.Errorf("got %q, want 1.5K", val)
	}
}

func TestGet_Missing(t *testing.T) {
	c := New()
	_, found := c.Get("missing")
	if found {
		t.Error("expected missing key to not be found")
	}
}

func TestSet_Overwrite(t *testing.T) {
	c := New()
	c.Set("acme/widget", "N/A")
	c.Set("acme/widget", "12K")

	val, _ := c.Get("acme/widget")
	if val != "12K" {
		t.Errorf("got %q, want 12K", val)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestFlush(t *testing.T) {
	c := New()
	c.Set("key", "value")
	c.Flush()

	_, found := c.Get("key")
	if found {
		t.Error("expected key to be gone after Flush")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set("acme/widget", "42")
			c.Get("acme/widget")
		}()
	}
	wg.Wait()

	if val, _ := c.Get("acme/widget"); val != "42" {
		t.Errorf("got %q, want 42", val)
	}
}
