// Package httpcache caches vendor API responses between runs so that
// iterating on the analysis does not re-hit the vendor endpoints. Entries
// live in an in-memory otter cache and are persisted to a gob file on
// Close; only successful GET responses are cached.
package httpcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/maypok86/otter/v2"
)

// Entry is one cached response body. Exported for gob encoding.
type Entry struct {
	ExpiresAt time.Time
	Data      []byte
}

// Cache is a TTL-bounded response cache backed by a single gob file.
type Cache struct {
	entries *otter.Cache[string, Entry]
	logger  *slog.Logger
	path    string
	ttl     time.Duration
}

// Open loads the cache file under dir, creating the directory if needed.
// Expired entries are dropped at load time.
func Open(dir string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	entries := otter.Must(&otter.Options[string, Entry]{
		MaximumSize:      10_000,
		ExpiryCalculator: otter.ExpiryWriting[string, Entry](ttl),
	})

	c := &Cache{
		entries: entries,
		logger:  logger,
		path:    filepath.Join(dir, "responses.gob"),
		ttl:     ttl,
	}
	if err := c.load(); err != nil {
		logger.Warn("failed to load response cache", "path", c.path, "error", err)
	}
	return c, nil
}

func (c *Cache) get(url string) ([]byte, bool) {
	entry, ok := c.entries.GetIfPresent(cacheKey(url))
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		c.entries.Invalidate(cacheKey(url))
		return nil, false
	}
	return entry.Data, true
}

func (c *Cache) set(url string, data []byte) {
	c.entries.Set(cacheKey(url), Entry{
		ExpiresAt: time.Now().Add(c.ttl),
		Data:      data,
	})
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) load() error {
	file, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening cache file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			c.logger.Debug("failed to close cache file", "error", closeErr)
		}
	}()

	var entries map[string]Entry
	if err := gob.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("decoding cache file: %w", err)
	}

	now := time.Now()
	loaded := 0
	for key, entry := range entries {
		if now.Before(entry.ExpiresAt) {
			c.entries.Set(key, entry)
			loaded++
		}
	}
	c.logger.Debug("response cache loaded", "path", c.path, "entries", loaded, "expired", len(entries)-loaded)
	return nil
}

// Close writes the surviving entries back to disk.
func (c *Cache) Close() error {
	entries := make(map[string]Entry)
	now := time.Now()
	for key, entry := range c.entries.All() {
		if now.Before(entry.ExpiresAt) {
			entries[key] = entry
		}
	}

	tempPath := c.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	if err := gob.NewEncoder(file).Encode(entries); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tempPath, c.path); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	c.logger.Debug("response cache saved", "path", c.path, "entries", len(entries))
	return nil
}

// Client wraps an http.Client with response caching. A nil *Cache turns the
// wrapper into a pass-through, which is how -no-cache is implemented.
type Client struct {
	cache      *Cache
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a caching client around httpClient.
func NewClient(cache *Cache, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{cache: cache, httpClient: httpClient, logger: logger}
}

// Do performs the request, serving GETs from cache when possible. Non-GET
// requests and non-200 responses bypass the cache entirely.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if c.cache == nil || req.Method != http.MethodGet {
		return c.httpClient.Do(req)
	}

	url := req.URL.String()
	if data, ok := c.cache.get(url); ok {
		c.logger.Debug("cache hit", "url", url)
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(data)),
			Header:     make(http.Header),
			Request:    req,
		}
		resp.Header.Set("X-From-Cache", "true")
		return resp, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", "error", closeErr)
		}
		if err != nil {
			return nil, err
		}
		c.cache.set(url, body)
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}
