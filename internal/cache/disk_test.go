package cache

import (
	"bytes"
	"crypto/rand"
	"errors"
	"os"
	"strings"
	"testing"
)

func openCache(t *testing.T, dir string, capacity int64) *DiskCache {
	t.Helper()
	c, err := Open(dir, capacity)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return c
}

func TestPutGet(t *testing.T) {
	c := openCache(t, t.TempDir(), 1<<20)
	defer c.Close() //nolint:errcheck

	body := []byte(strings.Repeat("- speak: hello\n", 200))
	if err := c.Put(Entry{URL: "https://example.com/a.yaml", ETag: `"v1"`, Body: body}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := c.Get("https://example.com/a.yaml")
	if !ok {
		t.Fatal("Get() missed a stored entry")
	}
	if !bytes.Equal(got.Body, body) {
		t.Error("Get() returned a different body")
	}
	if got.ETag != `"v1"` || got.FetchedAt.IsZero() {
		t.Errorf("Get() = %+v", got)
	}

	if _, ok := c.Get("https://example.com/missing.yaml"); ok {
		t.Error("Get() hit for an unknown url")
	}

	stats := c.Stats()
	if stats.Entries != 1 || stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.Size >= int64(len(body)) {
		t.Errorf("Stats().Size = %d, want compressed below %d", stats.Size, len(body))
	}
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	c := openCache(t, dir, 1<<20)
	if err := c.Put(Entry{URL: "u", Body: []byte("# Title\n")}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened := openCache(t, dir, 1<<20)
	defer reopened.Close() //nolint:errcheck
	got, ok := reopened.Get("u")
	if !ok || string(got.Body) != "# Title\n" {
		t.Errorf("Get() after reopen = %q, %v", got.Body, ok)
	}
}

func TestEviction(t *testing.T) {
	c := openCache(t, t.TempDir(), 100)
	defer c.Close() //nolint:errcheck

	// random bodies do not compress, so each takes 60 bytes
	first := make([]byte, 60)
	second := make([]byte, 60)
	if _, err := rand.Read(first); err != nil {
		t.Fatal(err)
	}
	if _, err := rand.Read(second); err != nil {
		t.Fatal(err)
	}

	if err := c.Put(Entry{URL: "first", Body: first}); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(Entry{URL: "second", Body: second}); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("first"); ok {
		t.Error("oldest entry was not evicted")
	}
	if _, ok := c.Get("second"); !ok {
		t.Error("newest entry missing")
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestTooLarge(t *testing.T) {
	c := openCache(t, t.TempDir(), 8)
	defer c.Close() //nolint:errcheck

	err := c.Put(Entry{URL: "big", Body: []byte("abcdefghijklmnopqrstuvwxyz")})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Put() error = %v, want ErrTooLarge", err)
	}
}

func TestDeleteAndDamagedFile(t *testing.T) {
	c := openCache(t, t.TempDir(), 1<<20)
	defer c.Close() //nolint:errcheck

	if err := c.Put(Entry{URL: "gone", Body: []byte("x")}); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete("gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := c.Get("gone"); ok {
		t.Error("Get() hit after Delete()")
	}

	if err := c.Put(Entry{URL: "lost", Body: []byte("y")}); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(c.filePath("lost")); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("lost"); ok {
		t.Error("Get() hit for a removed file")
	}
	if c.Stats().Entries != 0 {
		t.Errorf("Entries = %d, want damaged entry dropped", c.Stats().Entries)
	}
}

func TestOpenRejectsZeroCapacity(t *testing.T) {
	if _, err := Open(t.TempDir(), 0); err == nil {
		t.Error("Open() expected error for zero capacity")
	}
}
