package httpapi

import (
	"context"
	"log"
	"net/url"
	"sort"
	"strings"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/localize"
	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/store"
)

// Query parameters that select a distinct cached list. Anything else on the
// query string must not split the cache key.
var (
	eventQueryParams = []string{"category", "city", "q", "featured", "limit", "offset", "from", "upcoming"}
	blogQueryParams  = []string{"category", "q", "featured", "limit", "offset"}
)

// queryKey is a stable cache key fragment built from the named filter
// parameters only. The language is never part of it because cached payloads
// are language independent.
func queryKey(values url.Values, params ...string) string {
	keys := make([]string, 0, len(params))
	for _, key := range params {
		if key != localize.LangParam && strings.TrimSpace(values.Get(key)) != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return "all"
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+strings.TrimSpace(values.Get(key)))
	}
	return strings.Join(parts, "&")
}

func (s *Server) cachedLogos(ctx context.Context) ([]models.Logo, error) {
	return cache.Fetch(ctx, s.Cache, cache.Key(cache.Logos, "active"), cache.TTLFor(cache.Logos), func(ctx context.Context) ([]models.Logo, error) {
		return s.Store.GetLogos(ctx, true).Unwrap()
	})
}

func (s *Server) cachedImages(ctx context.Context, category string) ([]models.Image, error) {
	key := cache.Key(cache.Images, "category", category)
	return cache.Fetch(ctx, s.Cache, key, cache.TTLFor(cache.Images), func(ctx context.Context) ([]models.Image, error) {
		return s.Store.GetImages(ctx, category).Unwrap()
	})
}

func (s *Server) cachedCategories(ctx context.Context) ([]models.Category, error) {
	return cache.Fetch(ctx, s.Cache, cache.Key(cache.Categories, "active"), cache.TTLFor(cache.Categories), func(ctx context.Context) ([]models.Category, error) {
		return s.Store.GetCategories(ctx, true).Unwrap()
	})
}

func (s *Server) cachedEvents(ctx context.Context, key string, filters store.EventFilters) ([]models.Event, error) {
	return cache.Fetch(ctx, s.Cache, cache.Key(cache.Events, "list", key), cache.TTLFor(cache.Events), func(ctx context.Context) ([]models.Event, error) {
		return s.Store.GetEvents(ctx, filters).Unwrap()
	})
}

func (s *Server) cachedEvent(ctx context.Context, id string) (models.Event, error) {
	return cache.Fetch(ctx, s.Cache, cache.Key(cache.Events, "id", id), cache.TTLFor(cache.Events), func(ctx context.Context) (models.Event, error) {
		return s.Store.GetEvent(ctx, id).Unwrap()
	})
}

func (s *Server) cachedBlogs(ctx context.Context, key string, filters store.BlogFilters) ([]models.BlogPost, error) {
	return cache.Fetch(ctx, s.Cache, cache.Key(cache.Blogs, "list", key), cache.TTLFor(cache.Blogs), func(ctx context.Context) ([]models.BlogPost, error) {
		return s.Store.GetBlogPosts(ctx, filters).Unwrap()
	})
}

func (s *Server) cachedStats(ctx context.Context) (store.EventStats, error) {
	return cache.Fetch(ctx, s.Cache, cache.Key(cache.Stats, "events"), cache.TTLFor(cache.Stats), func(ctx context.Context) (store.EventStats, error) {
		return s.Store.EventStats(ctx).Unwrap()
	})
}

func (s *Server) cachedSettings(ctx context.Context, category string) (map[string]interface{}, error) {
	key := cache.Key(cache.Settings, "category", category)
	return cache.Fetch(ctx, s.Cache, key, cache.TTLFor(cache.Settings), func(ctx context.Context) (map[string]interface{}, error) {
		return s.Store.SettingsMap(ctx, category).Unwrap()
	})
}

// invalidate drops every cached entry of the given types after a write.
func (s *Server) invalidate(ctx context.Context, types ...cache.Type) {
	for _, t := range types {
		if err := s.Cache.Clear(ctx, t); err != nil {
			log.Printf("[CACHE] clear %s: %v", t, err)
		}
	}
}

func (s *Server) registerPreloaders() {
	if s.Cache == nil {
		return
	}
	s.Cache.Register(string(cache.Logos), func(ctx context.Context, _ localize.Language) error {
		_, err := s.cachedLogos(ctx)
		return err
	})
	s.Cache.Register(string(cache.Images), func(ctx context.Context, _ localize.Language) error {
		_, err := s.cachedImages(ctx, "")
		return err
	})
	s.Cache.Register(string(cache.Categories), func(ctx context.Context, _ localize.Language) error {
		_, err := s.cachedCategories(ctx)
		return err
	})
	s.Cache.Register(string(cache.Events), func(ctx context.Context, _ localize.Language) error {
		_, err := s.cachedEvents(ctx, "all", store.EventFilters{})
		return err
	})
	s.Cache.Register(string(cache.Blogs), func(ctx context.Context, _ localize.Language) error {
		_, err := s.cachedBlogs(ctx, "all", store.BlogFilters{})
		return err
	})
	s.Cache.Register(string(cache.Stats), func(ctx context.Context, _ localize.Language) error {
		_, err := s.cachedStats(ctx)
		return err
	})
	s.Cache.Register(string(cache.Settings), func(ctx context.Context, _ localize.Language) error {
		_, err := s.cachedSettings(ctx, "")
		return err
	})
}
