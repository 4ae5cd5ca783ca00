package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"eventhubble-backend-go/internal/store"
)

const userAgent = "EventHubbleBot/1.0 (+https://eventhubble.com)"

// HTMLSource reads listings from server-rendered pages, following a "next
// page" link up to MaxPages. Requests are paced by a per-source limiter.
type HTMLSource struct {
	cfg     SourceConfig
	client  *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

func NewHTMLSource(cfg SourceConfig) *HTMLSource {
	timeout := 20 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &HTMLSource{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		now:     time.Now,
	}
}

func (s *HTMLSource) Name() string {
	return s.cfg.Name
}

func (s *HTMLSource) Fetch(ctx context.Context) ([]ScrapedEvent, error) {
	maxPages := s.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}
	visited := map[string]bool{}
	links := map[string]bool{}
	events := []ScrapedEvent{}
	pageURL := s.cfg.URL
	for page := 0; page < maxPages && pageURL != "" && !visited[pageURL]; page++ {
		visited[pageURL] = true
		doc, base, err := s.load(ctx, pageURL)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			log.Printf("[INGEST] %s: stopping at page %d: %v", s.cfg.Name, page+1, err)
			break
		}
		skipped := 0
		doc.Find(s.cfg.Selectors.Item).Each(func(_ int, item *goquery.Selection) {
			event, ok := s.extract(item, base)
			if !ok {
				skipped++
				return
			}
			if links[event.SourceURL] {
				return
			}
			links[event.SourceURL] = true
			events = append(events, event)
		})
		if skipped > 0 {
			log.Printf("[INGEST] %s: skipped %d unparsable items on %s", s.cfg.Name, skipped, pageURL)
		}
		pageURL = ""
		if next := pick(doc.Selection, s.cfg.Selectors.NextPage); next != "" {
			pageURL = resolve(base, next)
		}
	}
	return events, nil
}

func (s *HTMLSource) load(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "tr-TR,tr;q=0.9,en;q=0.8")
	for key, value := range s.cfg.Headers {
		req.Header.Set(key, value)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("GET %s: status %d", pageURL, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return doc, base, nil
}

// extract reads one item. Items without a title, link or parsable start
// date are rejected.
func (s *HTMLSource) extract(item *goquery.Selection, base *url.URL) (ScrapedEvent, bool) {
	sel := s.cfg.Selectors
	title := pick(item, sel.Title)
	link := resolve(base, pick(item, sel.Link))
	if title == "" || link == "" {
		return ScrapedEvent{}, false
	}
	start, ok := ParseDate(pick(item, sel.Date), s.now())
	if !ok {
		return ScrapedEvent{}, false
	}
	event := ScrapedEvent{
		Title:       title,
		Description: pick(item, sel.Description),
		Venue:       pick(item, sel.Venue),
		City:        firstNonEmpty(pick(item, sel.City), s.cfg.City),
		Category:    s.cfg.Category,
		StartDate:   start,
		SourceURL:   link,
		Tags:        pickAll(item, sel.Tags),
	}
	if category := pick(item, sel.Category); category != "" {
		event.Category = store.Slugify(category)
	}
	if end, ok := ParseDate(pick(item, sel.EndDate), s.now()); ok && !end.Before(start) {
		event.EndDate = &end
	}
	if price := pick(item, sel.Price); price != "" {
		event.PriceMin, event.PriceMax, event.Currency = ParsePrice(price)
	}
	if image := pick(item, sel.Image); image != "" {
		event.ImageURL = resolve(base, image)
	}
	return event, true
}

// pick evaluates a "css@attr" selector against sel.
func pick(sel *goquery.Selection, spec string) string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return ""
	}
	css, attr, hasAttr := strings.Cut(spec, "@")
	target := sel
	if css = strings.TrimSpace(css); css != "" {
		target = sel.Find(css).First()
	}
	if hasAttr {
		value, _ := target.Attr(strings.TrimSpace(attr))
		return strings.TrimSpace(value)
	}
	return collapse(target.Text())
}

func pickAll(sel *goquery.Selection, css string) []string {
	css = strings.TrimSpace(css)
	if css == "" {
		return nil
	}
	var values []string
	sel.Find(css).Each(func(_ int, node *goquery.Selection) {
		if text := collapse(node.Text()); text != "" {
			values = append(values, text)
		}
	})
	return values
}

func collapse(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func resolve(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
