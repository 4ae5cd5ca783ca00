// Package scraper pulls public event listings from configured HTML pages and
// upserts them into the events table.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/store"
)

// ScrapedEvent is one listing as read from a source page.
type ScrapedEvent struct {
	Title       string
	Description string
	Venue       string
	City        string
	Category    string
	StartDate   time.Time
	EndDate     *time.Time
	PriceMin    *float64
	PriceMax    *float64
	Currency    string
	ImageURL    string
	SourceURL   string
	Tags        []string
}

// Event converts the listing into an events row attributed to source.
func (e ScrapedEvent) Event(source string) models.Event {
	event := models.Event{
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		Organizer:   source,
		Category:    e.Category,
		City:        e.City,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		PriceMin:    e.PriceMin,
		PriceMax:    e.PriceMax,
		Currency:    e.Currency,
		Tags:        models.StringList(store.CleanTags(e.Tags)),
		IsActive:    true,
		Source:      &source,
	}
	if e.ImageURL != "" {
		image := e.ImageURL
		event.ImageURL = &image
	}
	if e.SourceURL != "" {
		link := e.SourceURL
		event.SourceURL = &link
	}
	return event
}

// Source produces listings for one site.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]ScrapedEvent, error)
}

// Selectors are CSS selectors evaluated inside each item. A selector may end
// in "@attr" to read an attribute instead of the text; "@attr" alone reads it
// from the item itself.
type Selectors struct {
	Item        string `json:"item" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Link        string `json:"link" validate:"required"`
	Date        string `json:"date" validate:"required"`
	EndDate     string `json:"end_date"`
	Venue       string `json:"venue"`
	City        string `json:"city"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Tags        string `json:"tags"`
	NextPage    string `json:"next_page"`
}

type SourceConfig struct {
	Name              string            `json:"name" validate:"required,max=80"`
	URL               string            `json:"url" validate:"required,url"`
	Enabled           *bool             `json:"enabled"`
	Category          string            `json:"category"`
	City              string            `json:"city"`
	MaxPages          int               `json:"max_pages" validate:"gte=0,lte=50"`
	RequestsPerSecond float64           `json:"requests_per_second" validate:"gte=0"`
	TimeoutSeconds    int               `json:"timeout_seconds" validate:"gte=0"`
	Headers           map[string]string `json:"headers"`
	Selectors         Selectors         `json:"selectors"`
}

func (c SourceConfig) enabled() bool {
	return c.Enabled == nil || *c.Enabled
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadSources reads a JSON array of source configs. Disabled entries are
// dropped; an invalid entry fails the whole file.
func LoadSources(path string) ([]SourceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return ParseSources(raw)
}

func ParseSources(raw []byte) ([]SourceConfig, error) {
	var configs []SourceConfig
	if err := json.Unmarshal(raw, &configs); err != nil {
		return nil, fmt.Errorf("parse sources: %w", err)
	}
	seen := map[string]bool{}
	enabled := make([]SourceConfig, 0, len(configs))
	for i, cfg := range configs {
		if err := validate.Struct(cfg); err != nil {
			return nil, fmt.Errorf("source %d (%s): %w", i, cfg.Name, err)
		}
		key := strings.ToLower(cfg.Name)
		if seen[key] {
			return nil, errors.New("duplicate source name: " + cfg.Name)
		}
		seen[key] = true
		if cfg.enabled() {
			enabled = append(enabled, cfg)
		}
	}
	return enabled, nil
}

// BuildSources turns configs into HTML sources.
func BuildSources(configs []SourceConfig) []Source {
	sources := make([]Source, 0, len(configs))
	for _, cfg := range configs {
		sources = append(sources, NewHTMLSource(cfg))
	}
	return sources
}
