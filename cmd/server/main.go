package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/config"
	"eventhubble-backend-go/internal/db"
	httpapi "eventhubble-backend-go/internal/http"
	"eventhubble-backend-go/internal/localize"
	"eventhubble-backend-go/internal/logging"
	"eventhubble-backend-go/internal/migrations"
	"eventhubble-backend-go/internal/scheduler"
	"eventhubble-backend-go/internal/scraper"
	"eventhubble-backend-go/internal/services"
	"eventhubble-backend-go/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.RequireServer(); err != nil {
		log.Fatalf("config: %v", err)
	}

	cleanupLogs, err := logging.Setup(cfg.LogDir, cfg.LogRetentionDays)
	if err != nil {
		log.Printf("logger setup failed: %v", err)
	} else {
		defer cleanupLogs()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()
	if err := migrations.Apply(ctx, database, migrations.Files()); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	if _, err := services.EnsureStoragePath(cfg.UploadsDir, ""); err != nil {
		log.Fatalf("uploads dir: %v", err)
	}

	appCache := cache.New(cacheStore(cfg))
	st := store.New(database)

	hub := services.NewAnalyticsHub()
	go hub.Run(ctx)

	server := httpapi.NewServer(st, appCache, cfg, hub)
	cron := scheduler.New()
	if pipeline := ingestion(cfg, st, appCache); pipeline != nil {
		server.Ingest = pipeline
		if err := cron.Add(scheduler.IngestJob(cfg.ScraperSchedule, pipeline)); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
	}
	if err := cron.Add(scheduler.PreloadJob(appCache)); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	if cfg.AnalyticsRetention > 0 {
		if err := cron.Add(scheduler.RetentionJob(st, cfg.AnalyticsRetention)); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
	}
	cron.Start()
	appCache.PreloadAsync(ctx, localize.Default())

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	cancel()
	cron.Stop()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
	log.Printf("shutdown complete")
}

// cacheStore uses Redis when REDIS_URL is set and reachable, memory
// otherwise.
func cacheStore(cfg config.Config) cache.Store {
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisURL)
		if err == nil {
			log.Printf("[CACHE] using redis")
			return redisStore
		}
		log.Printf("[CACHE] redis unavailable, falling back to memory: %v", err)
	}
	return cache.NewMemoryStore(cfg.CacheMaxEntries)
}

func ingestion(cfg config.Config, st *store.Store, clearer scraper.CacheClearer) *scraper.Pipeline {
	if cfg.ScraperSourcesFile == "" {
		log.Printf("[INGEST] SCRAPER_SOURCES_FILE not set, ingestion disabled")
		return nil
	}
	sources, err := scraper.LoadSources(cfg.ScraperSourcesFile)
	if err != nil {
		log.Fatalf("scraper sources: %v", err)
	}
	log.Printf("[INGEST] %d sources configured", len(sources))
	return scraper.NewPipeline(st, clearer, scraper.BuildSources(sources)...)
}
