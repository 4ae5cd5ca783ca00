package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhubble-backend-go/internal/localize"
	"eventhubble-backend-go/internal/scraper"
	"eventhubble-backend-go/internal/store"
)

func TestAddRejectsInvalidSpec(t *testing.T) {
	m := New()
	err := m.Add(Job{Name: "bad", Spec: "every tuesday", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)
	_, ok := m.Next("bad")
	assert.False(t, ok)
}

func TestRunRecordsOutcome(t *testing.T) {
	m := New()
	m.run(Job{Name: "ok", Run: func(context.Context) error { return nil }})
	m.run(Job{Name: "broken", Run: func(context.Context) error { return errors.New("boom") }})

	info, ok := m.LastRun("ok")
	require.True(t, ok)
	assert.Empty(t, info.Error)

	info, ok = m.LastRun("broken")
	require.True(t, ok)
	assert.Equal(t, "boom", info.Error)
}

func TestScheduledJobFires(t *testing.T) {
	m := New()
	var runs atomic.Int32
	require.NoError(t, m.Add(Job{Name: "tick", Spec: "* * * * * *", Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}}))
	next, ok := m.Next("tick")
	assert.True(t, ok)
	assert.True(t, next.IsZero(), "next is only computed once started")

	m.Start()
	defer m.Stop()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

type fakeIngester struct {
	report scraper.Report
}

func (f fakeIngester) Run(context.Context) scraper.Report {
	return f.report
}

func TestIngestJob(t *testing.T) {
	allFailed := fakeIngester{report: scraper.Report{Failed: 2, Sources: make([]scraper.SourceReport, 2)}}
	assert.Error(t, IngestJob("@hourly", allFailed).Run(context.Background()))

	busy := fakeIngester{report: scraper.Report{Busy: true}}
	assert.Error(t, IngestJob("@hourly", busy).Run(context.Background()))

	partial := fakeIngester{report: scraper.Report{Failed: 1, Sources: make([]scraper.SourceReport, 2)}}
	assert.NoError(t, IngestJob("@hourly", partial).Run(context.Background()))
}

type fakePreloader struct {
	langs  []localize.Language
	failed map[string]error
}

func (f *fakePreloader) PreloadAll(_ context.Context, lang localize.Language) map[string]error {
	f.langs = append(f.langs, lang)
	return f.failed
}

func TestPreloadJob(t *testing.T) {
	preloader := &fakePreloader{failed: map[string]error{}}
	require.NoError(t, PreloadJob(preloader).Run(context.Background()))
	assert.Equal(t, []localize.Language{localize.TR}, preloader.langs)

	preloader.failed = map[string]error{"stats": errors.New("db down"), "events": errors.New("db down")}
	err := PreloadJob(preloader).Run(context.Background())
	assert.EqualError(t, err, "preload failed for events, stats")
}

type fakePurger struct {
	days int
	res  store.Result[int64]
}

func (f *fakePurger) PurgeAnalytics(_ context.Context, retentionDays int) store.Result[int64] {
	f.days = retentionDays
	return f.res
}

func TestRetentionJob(t *testing.T) {
	purger := &fakePurger{res: store.Ok(int64(12))}
	require.NoError(t, RetentionJob(purger, 90).Run(context.Background()))
	assert.Equal(t, 90, purger.days)

	purger.res = store.Fail[int64](store.KindBackend, "connection reset")
	assert.EqualError(t, RetentionJob(purger, 90).Run(context.Background()), "connection reset")
}
