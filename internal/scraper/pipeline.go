package scraper

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/store"
)

const maxReportedErrors = 10

// EventWriter is the part of the store the pipeline writes through.
type EventWriter interface {
	UpsertScrapedEvent(ctx context.Context, event models.Event) store.Result[store.UpsertOutcome]
	RecordAudit(ctx context.Context, entry store.AuditEntry) store.Result[int64]
}

type CacheClearer interface {
	Clear(ctx context.Context, t cache.Type) error
}

type SourceReport struct {
	Name    string   `json:"name"`
	Fetched int      `json:"fetched"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

type Report struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Busy       bool           `json:"busy,omitempty"`
	Created    int            `json:"created"`
	Updated    int            `json:"updated"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed_sources"`
	Sources    []SourceReport `json:"sources"`
}

type Pipeline struct {
	sources     []Source
	store       EventWriter
	cache       CacheClearer
	concurrency int
	running     atomic.Bool
	now         func() time.Time
}

// NewPipeline wires sources to the store. clearer may be nil.
func NewPipeline(writer EventWriter, clearer CacheClearer, sources ...Source) *Pipeline {
	return &Pipeline{
		sources:     sources,
		store:       writer,
		cache:       clearer,
		concurrency: 4,
		now:         time.Now,
	}
}

func (p *Pipeline) Sources() int {
	return len(p.sources)
}

// Run fetches every source concurrently and upserts the results. One source
// failing never stops the others. Overlapping runs are refused with Busy set.
func (p *Pipeline) Run(ctx context.Context) Report {
	report := Report{StartedAt: p.now().UTC()}
	if !p.running.CompareAndSwap(false, true) {
		report.Busy = true
		report.FinishedAt = report.StartedAt
		return report
	}
	defer p.running.Store(false)

	results := make([]SourceReport, len(p.sources))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.concurrency)
	for i, source := range p.sources {
		group.Go(func() error {
			results[i] = p.runSource(groupCtx, source)
			return nil
		})
	}
	_ = group.Wait()

	for _, result := range results {
		report.Created += result.Created
		report.Updated += result.Updated
		report.Skipped += result.Skipped
		if result.Error != "" {
			report.Failed++
		}
	}
	report.Sources = results
	if report.Created+report.Updated > 0 && p.cache != nil {
		for _, t := range []cache.Type{cache.Events, cache.Stats} {
			if err := p.cache.Clear(ctx, t); err != nil {
				log.Printf("[INGEST] clear %s cache: %v", t, err)
			}
		}
	}
	report.FinishedAt = p.now().UTC()
	log.Printf("[INGEST] run finished: %d created, %d updated, %d skipped, %d failed sources",
		report.Created, report.Updated, report.Skipped, report.Failed)
	return report
}

func (p *Pipeline) runSource(ctx context.Context, source Source) SourceReport {
	result := SourceReport{Name: source.Name()}
	events, err := source.Fetch(ctx)
	if err != nil {
		log.Printf("[INGEST] %s: fetch failed: %v", result.Name, err)
		result.Error = err.Error()
		p.recordRun(ctx, result)
		return result
	}
	result.Fetched = len(events)
	for _, scraped := range events {
		res := p.store.UpsertScrapedEvent(ctx, scraped.Event(result.Name))
		switch {
		case !res.Success:
			result.Skipped++
			if len(result.Errors) < maxReportedErrors {
				result.Errors = append(result.Errors, scraped.SourceURL+": "+res.Error)
			}
		case res.Data.Created:
			result.Created++
		default:
			result.Updated++
		}
	}
	p.recordRun(ctx, result)
	return result
}

func (p *Pipeline) recordRun(ctx context.Context, result SourceReport) {
	p.store.RecordAudit(ctx, store.AuditEntry{
		Actor:    "scraper",
		Action:   "ingest",
		Entity:   "source",
		EntityID: result.Name,
		Details:  result,
	})
}
