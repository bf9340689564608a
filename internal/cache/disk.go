// Package cache keeps copies of remote sources on disk, zstd compressed,
// so they can be revalidated with conditional requests and rendered again
// when the network is unavailable.
package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// ErrTooLarge is returned when an entry does not fit the cache at all.
var ErrTooLarge = errors.New("cache: entry exceeds capacity")

const indexFile = "index.gob"

// Entry is one cached source.
type Entry struct {
	URL       string
	ETag      string
	FetchedAt time.Time
	Body      []byte
}

// Stats describes cache usage.
type Stats struct {
	Entries   int
	Size      int64
	Capacity  int64
	Hits      int64
	Misses    int64
	Evictions int64
}

type record struct {
	URL        string
	ETag       string
	File       string
	Size       int64 // on disk
	RawSize    int64
	Compressed bool
	FetchedAt  time.Time
	LastAccess time.Time
}

// DiskCache is a size-bounded LRU cache of sources in a directory.
type DiskCache struct {
	dir      string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	index map[string]*record
	stats Stats
}

// Open opens or creates a cache in dir holding at most capacity bytes.
func Open(dir string, capacity int64) (*DiskCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	c := &DiskCache{
		dir:      dir,
		capacity: capacity,
		encoder:  enc,
		decoder:  dec,
		index:    make(map[string]*record),
	}
	if err := c.loadIndex(); err != nil {
		// a damaged index only costs the cached copies
		c.index = make(map[string]*record)
	}
	for _, r := range c.index {
		c.size += r.Size
	}
	return c, nil
}

// Get returns the cached copy of url.
func (c *DiskCache) Get(url string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.index[url]
	if !ok {
		c.stats.Misses++
		return Entry{}, false
	}

	data, err := os.ReadFile(r.File)
	if err == nil && r.Compressed {
		data, err = c.decoder.DecodeAll(data, nil)
	}
	if err != nil {
		c.drop(url)
		c.stats.Misses++
		return Entry{}, false
	}

	r.LastAccess = time.Now()
	c.stats.Hits++
	return Entry{URL: r.URL, ETag: r.ETag, FetchedAt: r.FetchedAt, Body: data}, true
}

// Put stores e, evicting the least recently used entries to make room.
func (c *DiskCache) Put(e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := e.Body
	compressed := false
	if packed := c.encoder.EncodeAll(e.Body, nil); len(packed) < len(e.Body) {
		data = packed
		compressed = true
	}

	size := int64(len(data))
	if size > c.capacity {
		return ErrTooLarge
	}

	if _, ok := c.index[e.URL]; ok {
		c.drop(e.URL)
	}
	for c.size+size > c.capacity && len(c.index) > 0 {
		c.evictOldest()
	}

	path := c.filePath(e.URL)
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	fetched := e.FetchedAt
	if fetched.IsZero() {
		fetched = time.Now()
	}
	c.index[e.URL] = &record{
		URL:        e.URL,
		ETag:       e.ETag,
		File:       path,
		Size:       size,
		RawSize:    int64(len(e.Body)),
		Compressed: compressed,
		FetchedAt:  fetched,
		LastAccess: time.Now(),
	}
	c.size += size
	return c.saveIndex()
}

// Delete removes url from the cache.
func (c *DiskCache) Delete(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[url]; !ok {
		return nil
	}
	c.drop(url)
	return c.saveIndex()
}

// Stats returns cache statistics.
func (c *DiskCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.index)
	s.Size = c.size
	s.Capacity = c.capacity
	return s
}

// Close saves the index and releases the codecs.
func (c *DiskCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.saveIndex()
	c.decoder.Close()
	return errors.Join(err, c.encoder.Close())
}

// drop removes an entry and its file. Callers hold mu.
func (c *DiskCache) drop(url string) {
	r := c.index[url]
	_ = os.Remove(r.File)
	c.size -= r.Size
	delete(c.index, url)
}

func (c *DiskCache) evictOldest() {
	var oldest *record
	for _, r := range c.index {
		if oldest == nil || r.LastAccess.Before(oldest.LastAccess) {
			oldest = r
		}
	}
	if oldest != nil {
		c.drop(oldest.URL)
		c.stats.Evictions++
	}
}

func (c *DiskCache) filePath(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:16])+".zst")
}

func (c *DiskCache) loadIndex() error {
	f, err := os.Open(filepath.Join(c.dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck
	return gob.NewDecoder(f).Decode(&c.index)
}

func (c *DiskCache) saveIndex() error {
	path := filepath.Join(c.dir, indexFile)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = gob.NewEncoder(f).Encode(c.index)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// writeFile writes through a temp file so readers never see partial data.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
