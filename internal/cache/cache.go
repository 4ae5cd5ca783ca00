// Package cache memoizes fetch results under a per-type TTL and keeps
// expired entries around as a fallback when the live fetch fails.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	keyPrefix    = "cache_"
	expirySuffix = "_expiry"
)

type Type string

const (
	Logos      Type = "logos"
	Images     Type = "images"
	Categories Type = "categories"
	Events     Type = "events"
	Blogs      Type = "blogs"
	Stats      Type = "stats"
	Settings   Type = "settings"
)

var ttls = map[Type]time.Duration{
	Logos:      24 * time.Hour,
	Images:     24 * time.Hour,
	Categories: time.Hour,
	Events:     5 * time.Minute,
	Blogs:      10 * time.Minute,
	Stats:      5 * time.Minute,
	Settings:   10 * time.Minute,
}

// TTLFor returns the time-to-live for a content type, five minutes for
// unknown types.
func TTLFor(t Type) time.Duration {
	if ttl, ok := ttls[t]; ok {
		return ttl
	}
	return 5 * time.Minute
}

// Key builds a cache key scoped to a content type.
func Key(t Type, parts ...string) string {
	cleaned := make([]string, 0, len(parts)+1)
	cleaned = append(cleaned, string(t))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			cleaned = append(cleaned, part)
		}
	}
	return strings.Join(cleaned, "_")
}

// Store is the persistence behind the cache. Values and expiry timestamps
// are stored as sibling string entries.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type Cache struct {
	store      Store
	now        func() time.Time
	httpClient *http.Client

	mu         sync.RWMutex
	preloaders map[string]Preloader
}

type Option func(*Cache)

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) {
		c.httpClient = client
	}
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:      store,
		now:        time.Now,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		preloaders: map[string]Preloader{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func valueKey(key string) string {
	return keyPrefix + key
}

func expiryKey(key string) string {
	return keyPrefix + key + expirySuffix
}

// lookup returns the stored value and whether it is still fresh.
func (c *Cache) lookup(ctx context.Context, key string) (string, bool, bool) {
	value, ok, err := c.store.Get(ctx, valueKey(key))
	if err != nil {
		log.Printf("[CACHE] read %s: %v", key, err)
		return "", false, false
	}
	if !ok {
		return "", false, false
	}
	rawExpiry, ok, err := c.store.Get(ctx, expiryKey(key))
	if err != nil || !ok {
		return value, true, false
	}
	expiry, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		return value, true, false
	}
	return value, true, c.now().UnixMilli() < expiry
}

func (c *Cache) put(ctx context.Context, key, value string, ttl time.Duration) {
	expiry := c.now().Add(ttl).UnixMilli()
	if err := c.store.Set(ctx, valueKey(key), value); err != nil {
		log.Printf("[CACHE] write %s: %v", key, err)
		return
	}
	if err := c.store.Set(ctx, expiryKey(key), strconv.FormatInt(expiry, 10)); err != nil {
		log.Printf("[CACHE] write %s expiry: %v", key, err)
	}
}

// GetString serves a fresh entry without calling fetch. On a miss it calls
// fetch and stores the result. If fetch fails, any cached value is returned
// regardless of age; the error only surfaces when nothing is cached.
// Concurrent misses for one key each call fetch.
func (c *Cache) GetString(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) (string, error)) (string, error) {
	cached, present, fresh := c.lookup(ctx, key)
	if present && fresh {
		return cached, nil
	}
	value, err := fetch(ctx)
	if err != nil {
		if present {
			log.Printf("[CACHE] serving stale %s: %v", key, err)
			return cached, nil
		}
		return "", err
	}
	c.put(ctx, key, value, ttl)
	return value, nil
}

// Fetch is GetString for JSON-encodable values.
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	raw, err := c.GetString(ctx, key, ttl, func(ctx context.Context) (string, error) {
		value, err := fetch(ctx)
		if err != nil {
			return "", err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	})
	if err != nil {
		return zero, err
	}
	var decoded T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, valueKey(key), expiryKey(key))
}

// Clear removes every entry of one content type.
func (c *Cache) Clear(ctx context.Context, t Type) error {
	if strings.TrimSpace(string(t)) == "" {
		return errors.New("cache type is required")
	}
	return c.clearPrefix(ctx, keyPrefix+string(t))
}

func (c *Cache) ClearAll(ctx context.Context) error {
	return c.clearPrefix(ctx, keyPrefix)
}

func (c *Cache) clearPrefix(ctx context.Context, prefix string) error {
	keys, err := c.store.Keys(ctx, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.store.Delete(ctx, keys...)
}
