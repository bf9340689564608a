// Package fetch downloads http(s) sources. Requests are rate limited,
// revalidated against a disk cache with If-None-Match, and served from the
// cache when the host cannot be reached.
package fetch

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/alexa-ssml/internal/cache"
)

// MaxBodySize bounds a downloaded source.
const MaxBodySize = 8 << 20

// ErrStatus is returned for unexpected HTTP status codes.
var ErrStatus = errors.New("unexpected HTTP status")

// Options configures a Fetcher.
type Options struct {
	// Timeout bounds each request. Zero means 10s.
	Timeout time.Duration
	// Interval is the minimum time between requests. Zero means 5s.
	Interval time.Duration
	// Cache is optional.
	Cache *cache.DiskCache
	// Client replaces the default HTTP client, mostly for tests.
	Client *http.Client
}

// Fetcher downloads sources.
type Fetcher struct {
	client   *http.Client
	limiter  *rate.Limiter
	interval time.Duration
	cache    *cache.DiskCache
}

// New returns a Fetcher.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Fetcher{
		client:   client,
		limiter:  rate.NewLimiter(rate.Every(opts.Interval), 1),
		interval: opts.Interval,
		cache:    opts.Cache,
	}
}

// Fetch returns the body of url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}

	cached, hit := f.lookup(url)
	if hit && cached.ETag != "" {
		req.Header.Set("If-None-Match", cached.ETag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if hit && ctx.Err() == nil {
			log.Warn("Using cached copy", "url", url, "fetched", cached.FetchedAt, "error", err)
			return cached.Body, nil
		}
		return nil, fmt.Errorf("unable to get url: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotModified && hit:
		log.Debug("source not modified", "url", url)
		return cached.Body, nil

	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
		if err != nil {
			return nil, fmt.Errorf("unable to read response: %w", err)
		}
		if len(body) > MaxBodySize {
			return nil, fmt.Errorf("source %s is larger than %d bytes", url, MaxBodySize)
		}
		f.store(url, resp.Header.Get("ETag"), body)
		return body, nil

	default:
		return nil, fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
	}
}

// Poll fetches url until ctx is done and calls onChange whenever the body
// differs from the previous fetch. The first fetch only sets the baseline.
// Errors are logged and polling continues.
func (f *Fetcher) Poll(ctx context.Context, url string, onChange func([]byte) error) error {
	var last [sha256.Size]byte
	baseline := false

	log.Info("polling remote source", "url", url, "every", f.interval)
	for {
		body, err := f.Fetch(ctx, url)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			log.Debug("poll failed", "url", url, "error", err)
			continue
		}

		sum := sha256.Sum256(body)
		if baseline && sum == last {
			continue
		}
		changed := baseline
		last, baseline = sum, true
		if !changed {
			continue
		}

		log.Debug("remote source changed", "url", url)
		if err := onChange(body); err != nil {
			log.Debug("render after change failed", "url", url, "error", err)
		}
	}
}

func (f *Fetcher) lookup(url string) (cache.Entry, bool) {
	if f.cache == nil {
		return cache.Entry{}, false
	}
	return f.cache.Get(url)
}

func (f *Fetcher) store(url, etag string, body []byte) {
	if f.cache == nil {
		return
	}
	err := f.cache.Put(cache.Entry{URL: url, ETag: etag, FetchedAt: time.Now(), Body: body})
	if err != nil {
		log.Debug("could not cache source", "url", url, "error", err)
	}
}
