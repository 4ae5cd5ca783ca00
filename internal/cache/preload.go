package cache

import (
	"context"
	"log"
	"sort"

	"eventhubble-backend-go/internal/localize"

	"golang.org/x/sync/errgroup"
)

// Preloader warms one content type for a language.
type Preloader func(ctx context.Context, lang localize.Language) error

func (c *Cache) Register(name string, fn Preloader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preloaders[name] = fn
}

func (c *Cache) registered() ([]string, map[string]Preloader) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.preloaders))
	fns := make(map[string]Preloader, len(c.preloaders))
	for name, fn := range c.preloaders {
		names = append(names, name)
		fns[name] = fn
	}
	sort.Strings(names)
	return names, fns
}

// PreloadAll runs every preloader concurrently and waits for all of them.
// Individual failures are logged and returned by name, never propagated.
func (c *Cache) PreloadAll(ctx context.Context, lang localize.Language) map[string]error {
	names, fns := c.registered()
	errs := make([]error, len(names))
	var g errgroup.Group
	for i, name := range names {
		fn := fns[name]
		g.Go(func() error {
			if err := fn(ctx, lang); err != nil {
				log.Printf("[CACHE] preload %s (%s): %v", name, lang, err)
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := map[string]error{}
	for i, err := range errs {
		if err != nil {
			failed[names[i]] = err
		}
	}
	return failed
}

// PreloadAsync fires PreloadAll without waiting.
func (c *Cache) PreloadAsync(ctx context.Context, lang localize.Language) {
	go func() {
		_ = c.PreloadAll(context.WithoutCancel(ctx), lang)
	}()
}
