package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"eventhubble-backend-go/internal/localize"
	"eventhubble-backend-go/internal/scraper"
	"eventhubble-backend-go/internal/store"
)

type Ingester interface {
	Run(ctx context.Context) scraper.Report
}

type Preloader interface {
	PreloadAll(ctx context.Context, lang localize.Language) map[string]error
}

type AnalyticsPurger interface {
	PurgeAnalytics(ctx context.Context, retentionDays int) store.Result[int64]
}

// IngestJob runs the scraping pipeline. A run where every source failed is
// reported as an error.
func IngestJob(spec string, ingester Ingester) Job {
	return Job{
		Name: "ingest_events",
		Spec: spec,
		Run: func(ctx context.Context) error {
			report := ingester.Run(ctx)
			if report.Busy {
				return errors.New("previous ingestion still running")
			}
			if len(report.Sources) > 0 && report.Failed == len(report.Sources) {
				return fmt.Errorf("all %d sources failed", report.Failed)
			}
			return nil
		},
	}
}

// PreloadJob refreshes every registered cache type. Cached payloads are
// language independent, so one pass covers both languages.
func PreloadJob(preloader Preloader) Job {
	return Job{
		Name: "preload_cache",
		Spec: PreloadSpec,
		Run: func(ctx context.Context) error {
			var failed []string
			for name := range preloader.PreloadAll(ctx, localize.Default()) {
				failed = append(failed, name)
			}
			if len(failed) > 0 {
				sort.Strings(failed)
				return errors.New("preload failed for " + strings.Join(failed, ", "))
			}
			return nil
		},
	}
}

func RetentionJob(purger AnalyticsPurger, retentionDays int) Job {
	return Job{
		Name: "purge_analytics",
		Spec: RetentionSpec,
		Run: func(ctx context.Context) error {
			deleted, err := purger.PurgeAnalytics(ctx, retentionDays).Unwrap()
			if err != nil {
				return err
			}
			log.Printf("[CRON] purged %d analytics records older than %d days", deleted, retentionDays)
			return nil
		},
	}
}
