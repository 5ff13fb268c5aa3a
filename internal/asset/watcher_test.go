package asset

import (
	"testing"
	"time"
)

func TestWatcher_InvalidatesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "watch.png")

	c := NewCache(mapCatalog{"1": path}, 0)
	defer c.Close()

	w, err := NewWatcher(c, dir)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	c.Get("1")
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}

	// Rewrite the source image and wait for the invalidation to land.
	writeTestPNG(t, dir, "watch.png")

	deadline := time.Now().Add(3 * time.Second)
	for c.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("cache entry was not invalidated after file change")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
