package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"

	"github.com/dgnsrekt/alexa-ssml/internal/cache"
	"github.com/dgnsrekt/alexa-ssml/internal/config"
	"github.com/dgnsrekt/alexa-ssml/internal/fetch"
	"github.com/dgnsrekt/alexa-ssml/internal/logging"
	"github.com/dgnsrekt/alexa-ssml/utils"
)

var protocols = []string{"http", "https"}

// source provides a readable source and its location.
type source struct {
	reader io.ReadCloser
	URL    string
	remote bool
}

// sourceFromArg opens stdin, a local file or a remote http(s) document.
func sourceFromArg(ctx context.Context, f *fetch.Fetcher, arg string) (*source, error) {
	if arg == "-" || arg == "" {
		return &source{reader: os.Stdin, URL: "-"}, nil
	}

	if u, err := url.ParseRequestURI(arg); err == nil && u.Scheme != "" && u.Host != "" {
		if !containsFold(protocols, u.Scheme) {
			return nil, fmt.Errorf("%s is not a supported protocol", u.Scheme)
		}
		if f == nil {
			f = fetch.New(fetch.Options{})
		}
		body, err := f.Fetch(ctx, u.String())
		if err != nil {
			return nil, err
		}
		return &source{reader: io.NopCloser(bytes.NewReader(body)), URL: u.String(), remote: true}, nil
	}

	r, err := os.Open(utils.ExpandPath(arg))
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	return &source{reader: r, URL: arg}, nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// newFetcher builds the remote source fetcher from c. The returned func
// closes its cache and is safe to call when no cache was opened.
func newFetcher(c config.RemoteConfig) (*fetch.Fetcher, func(), error) {
	opts := fetch.Options{Timeout: c.Timeout, Interval: c.PollInterval}
	noop := func() {}

	capacity, err := c.CacheBytes()
	if err != nil {
		return nil, noop, err
	}
	if capacity == 0 {
		return fetch.New(opts), noop, nil
	}

	dir := c.CacheDir
	if dir == "" {
		base, err := gap.NewScope(gap.User, logging.AppName).CacheDir()
		if err != nil {
			log.Debug("no cache directory, fetching without a cache", "error", err)
			return fetch.New(opts), noop, nil
		}
		dir = filepath.Join(base, "sources")
	}

	dc, err := cache.Open(utils.ExpandPath(dir), capacity)
	if err != nil {
		return nil, noop, fmt.Errorf("unable to open source cache: %w", err)
	}
	opts.Cache = dc
	return fetch.New(opts), func() {
		stats := dc.Stats()
		log.Debug("source cache", "entries", stats.Entries, "hits", stats.Hits, "misses", stats.Misses)
		if err := dc.Close(); err != nil {
			log.Warn("Could not close source cache", "error", err)
		}
	}, nil
}

var (
	scriptPatterns   = []string{"*.ssml.yaml", "*.ssml.yml", "*.ssml.json"}
	markdownPatterns = []string{"*.md", "*.mdown", "*.mkdn", "*.mkd", "*.markdown"}
)

func dirPatterns(kind string) []string {
	switch kind {
	case kindScript:
		return scriptPatterns
	case kindMarkdown:
		return markdownPatterns
	default:
		return append(append([]string{}, scriptPatterns...), markdownPatterns...)
	}
}

// outputPath names the .ssml file written next to a batch source.
func outputPath(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if strings.EqualFold(filepath.Ext(base), ".ssml") {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + ".ssml"
}

// errBatch reports that at least one file in a directory failed to render.
var errBatch = errors.New("some files could not be rendered")
