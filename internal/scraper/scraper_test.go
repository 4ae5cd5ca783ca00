package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/store"
)

const firstPage = `<html><body>
<div class="event">
  <a class="link" href="/e/caz-gecesi"><h3>Caz  Gecesi</h3></a>
  <span class="date">Cumartesi, 14 Mart 2025 - 20:30</span>
  <span class="venue">Zorlu PSM</span>
  <span class="price">150 - 300 TL</span>
  <img src="/img/caz.jpg">
  <span class="tag">caz</span><span class="tag">Canlı</span>
</div>
<div class="event">
  <a class="link" href="/e/tarihsiz"><h3>Tarihsiz</h3></a>
  <span class="date">yakında</span>
</div>
<a class="next" href="/events?page=2">Sonraki</a>
</body></html>`

const secondPage = `<html><body>
<div class="event">
  <a class="link" href="/e/hamlet"><h3>Hamlet</h3></a>
  <span class="date">02.04.2025</span>
  <span class="price">Ücretsiz</span>
</div>
<div class="event">
  <a class="link" href="/e/caz-gecesi"><h3>Caz Gecesi</h3></a>
  <span class="date">14 Mart 2025</span>
</div>
</body></html>`

func listingServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(secondPage))
			return
		}
		_, _ = w.Write([]byte(firstPage))
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(url string) SourceConfig {
	return SourceConfig{
		Name:              "biletix-test",
		URL:               url,
		City:              "İstanbul",
		Category:          "music",
		MaxPages:          3,
		RequestsPerSecond: 100,
		Selectors: Selectors{
			Item:     ".event",
			Title:    "h3",
			Link:     "a.link@href",
			Date:     ".date",
			Venue:    ".venue",
			Price:    ".price",
			Image:    "img@src",
			Tags:     ".tag",
			NextPage: "a.next@href",
		},
	}
}

func TestHTMLSourceFollowsPagesAndSkipsBadItems(t *testing.T) {
	server := listingServer(t)
	source := NewHTMLSource(testConfig(server.URL + "/events"))
	source.now = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }

	events, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	caz := events[0]
	assert.Equal(t, "Caz Gecesi", caz.Title)
	assert.Equal(t, server.URL+"/e/caz-gecesi", caz.SourceURL)
	assert.True(t, time.Date(2025, 3, 14, 17, 30, 0, 0, time.UTC).Equal(caz.StartDate))
	assert.Equal(t, "Zorlu PSM", caz.Venue)
	assert.Equal(t, "İstanbul", caz.City)
	assert.Equal(t, "music", caz.Category)
	require.NotNil(t, caz.PriceMin)
	assert.Equal(t, 150.0, *caz.PriceMin)
	assert.Equal(t, 300.0, *caz.PriceMax)
	assert.Equal(t, "TRY", caz.Currency)
	assert.Equal(t, server.URL+"/img/caz.jpg", caz.ImageURL)
	assert.Equal(t, []string{"caz", "Canlı"}, caz.Tags)

	hamlet := events[1]
	assert.Equal(t, "Hamlet", hamlet.Title)
	assert.True(t, time.Date(2025, 4, 1, 21, 0, 0, 0, time.UTC).Equal(hamlet.StartDate))
	require.NotNil(t, hamlet.PriceMin)
	assert.Zero(t, *hamlet.PriceMin)
}

func TestHTMLSourceFailsOnFirstPageError(t *testing.T) {
	server := listingServer(t)
	source := NewHTMLSource(testConfig(server.URL + "/missing"))
	_, err := source.Fetch(context.Background())
	assert.Error(t, err)
}

func TestScrapedEventConversion(t *testing.T) {
	event := ScrapedEvent{
		Title:     "Hamlet",
		SourceURL: "https://example.com/e/hamlet",
		Tags:      []string{"Tiyatro", "tiyatro", " "},
	}.Event("biletix")
	assert.Equal(t, "biletix", *event.Source)
	assert.Equal(t, "biletix", event.Organizer)
	assert.Equal(t, "https://example.com/e/hamlet", *event.SourceURL)
	assert.Nil(t, event.ImageURL)
	assert.Equal(t, models.StringList{"Tiyatro"}, event.Tags)
	assert.True(t, event.IsActive)
}

func TestParseSources(t *testing.T) {
	raw := []byte(`[
  {"name": "a", "url": "https://a.example/events", "selectors": {"item": ".e", "title": "h3", "link": "a@href", "date": ".d"}},
  {"name": "b", "url": "https://b.example/events", "enabled": false, "selectors": {"item": ".e", "title": "h3", "link": "a@href", "date": ".d"}}
]`)
	configs, err := ParseSources(raw)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "a", configs[0].Name)
	assert.Len(t, BuildSources(configs), 1)

	_, err = ParseSources([]byte(`[{"name": "a", "url": "https://a.example", "selectors": {"title": "h3"}}]`))
	assert.Error(t, err)

	_, err = ParseSources([]byte(`[
  {"name": "a", "url": "https://a.example", "selectors": {"item": ".e", "title": "h3", "link": "a@href", "date": ".d"}},
  {"name": "A", "url": "https://b.example", "selectors": {"item": ".e", "title": "h3", "link": "a@href", "date": ".d"}}
]`))
	assert.ErrorContains(t, err, "duplicate")
}

type stubSource struct {
	name   string
	events []ScrapedEvent
	err    error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(context.Context) ([]ScrapedEvent, error) {
	return s.events, s.err
}

type fakeWriter struct {
	mu      sync.Mutex
	known   map[string]bool
	audited []string
}

func (f *fakeWriter) UpsertScrapedEvent(_ context.Context, event models.Event) store.Result[store.UpsertOutcome] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event.Title == "" {
		return store.Fail[store.UpsertOutcome](store.KindInvalid, "Title is required")
	}
	link := *event.SourceURL
	created := !f.known[link]
	f.known[link] = true
	return store.Ok(store.UpsertOutcome{ID: link, Created: created})
}

func (f *fakeWriter) RecordAudit(_ context.Context, entry store.AuditEntry) store.Result[int64] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audited = append(f.audited, entry.EntityID)
	return store.Ok(int64(len(f.audited)))
}

type fakeClearer struct {
	mu      sync.Mutex
	cleared []cache.Type
}

func (f *fakeClearer) Clear(_ context.Context, t cache.Type) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, t)
	return nil
}

func TestPipelineRunReportsPerSource(t *testing.T) {
	start := time.Date(2025, 3, 14, 17, 30, 0, 0, time.UTC)
	writer := &fakeWriter{known: map[string]bool{"https://a.example/2": true}}
	clearer := &fakeClearer{}
	pipeline := NewPipeline(writer, clearer,
		stubSource{name: "a", events: []ScrapedEvent{
			{Title: "One", StartDate: start, SourceURL: "https://a.example/1"},
			{Title: "Two", StartDate: start, SourceURL: "https://a.example/2"},
			{Title: "", StartDate: start, SourceURL: "https://a.example/3"},
		}},
		stubSource{name: "b", err: errors.New("connection refused")},
	)

	report := pipeline.Run(context.Background())
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Sources, 2)
	assert.Equal(t, "a", report.Sources[0].Name)
	assert.Equal(t, 3, report.Sources[0].Fetched)
	assert.Len(t, report.Sources[0].Errors, 1)
	assert.Equal(t, "connection refused", report.Sources[1].Error)
	assert.ElementsMatch(t, []string{"a", "b"}, writer.audited)
	assert.Equal(t, []cache.Type{cache.Events, cache.Stats}, clearer.cleared)
}

func TestPipelineSkipsCacheClearWithoutChanges(t *testing.T) {
	clearer := &fakeClearer{}
	pipeline := NewPipeline(&fakeWriter{known: map[string]bool{}}, clearer, stubSource{name: "empty"})
	report := pipeline.Run(context.Background())
	assert.Zero(t, report.Created)
	assert.Empty(t, clearer.cleared)
}

func TestPipelineRefusesOverlappingRuns(t *testing.T) {
	pipeline := NewPipeline(&fakeWriter{known: map[string]bool{}}, nil)
	pipeline.running.Store(true)
	report := pipeline.Run(context.Background())
	assert.True(t, report.Busy)
}
