package models

import (
	"time"

	"eventhubble-backend-go/internal/localize"
)

func (e Event) TitleText() localize.Text {
	return localize.NewText(e.Title, e.TitleTR, e.TitleEN)
}

func (e Event) DescriptionText() localize.Text {
	return localize.NewText(e.Description, e.DescriptionTR, e.DescriptionEN)
}

func (e Event) VenueText() localize.Text {
	return localize.NewText(e.Venue, e.VenueTR, e.VenueEN)
}

func (e Event) OrganizerText() localize.Text {
	return localize.NewText(e.Organizer, e.OrganizerTR, e.OrganizerEN)
}

// LocalizedEvent is an event with its bilingual fields resolved.
type LocalizedEvent struct {
	ID          string     `json:"id"`
	Language    string     `json:"language"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Venue       string     `json:"venue"`
	Organizer   string     `json:"organizer"`
	Category    string     `json:"category"`
	City        string     `json:"city"`
	Country     string     `json:"country"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	PriceMin    *float64   `json:"price_min"`
	PriceMax    *float64   `json:"price_max"`
	Currency    string     `json:"currency"`
	ImageURL    *string    `json:"image_url"`
	Tags        []string   `json:"tags"`
	IsFeatured  bool       `json:"is_featured"`
	ViewCount   int64      `json:"view_count"`
	LikeCount   int64      `json:"like_count"`
}

// LocalizeEvent picks title, description, venue and organizer for lang.
// Pairs with only one variant keep their language-independent value.
func LocalizeEvent(e Event, lang localize.Language) LocalizedEvent {
	tags := []string(e.Tags)
	if tags == nil {
		tags = []string{}
	}
	return LocalizedEvent{
		ID:          e.ID,
		Language:    string(lang),
		Title:       e.TitleText().In(lang),
		Description: e.DescriptionText().In(lang),
		Venue:       e.VenueText().In(lang),
		Organizer:   e.OrganizerText().In(lang),
		Category:    e.Category,
		City:        e.City,
		Country:     e.Country,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		PriceMin:    e.PriceMin,
		PriceMax:    e.PriceMax,
		Currency:    e.Currency,
		ImageURL:    e.ImageURL,
		Tags:        tags,
		IsFeatured:  e.IsFeatured,
		ViewCount:   e.ViewCount,
		LikeCount:   e.LikeCount,
	}
}

func LocalizeEvents(events []Event, lang localize.Language) []LocalizedEvent {
	items := make([]LocalizedEvent, 0, len(events))
	for _, e := range events {
		items = append(items, LocalizeEvent(e, lang))
	}
	return items
}

type LocalizedBlogPost struct {
	ID          string     `json:"id"`
	Language    string     `json:"language"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content,omitempty"`
	Category    string     `json:"category"`
	ImageURL    *string    `json:"image_url"`
	Slug        string     `json:"slug"`
	Author      string     `json:"author"`
	IsFeatured  bool       `json:"is_featured"`
	PublishedAt *time.Time `json:"published_at"`
}

// LocalizeBlogPost resolves with the display waterfall; withContent=false
// drops the body for list views.
func LocalizeBlogPost(p BlogPost, lang localize.Language, withContent bool) LocalizedBlogPost {
	item := LocalizedBlogPost{
		ID:          p.ID,
		Language:    string(lang),
		Title:       localize.NewText(p.Title, p.TitleTR, p.TitleEN).Display(lang, "Untitled"),
		Excerpt:     localize.NewText(p.Excerpt, p.ExcerptTR, p.ExcerptEN).Display(lang, ""),
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Slug:        p.Slug,
		Author:      p.Author,
		IsFeatured:  p.IsFeatured,
		PublishedAt: p.PublishedAt,
	}
	if withContent {
		item.Content = localize.NewText(p.Content, p.ContentTR, p.ContentEN).Display(lang, "")
	}
	return item
}

type LocalizedCategory struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	ParentID    *string `json:"parent_id"`
	SortOrder   int     `json:"sort_order"`
}

func LocalizeCategory(c Category, lang localize.Language) LocalizedCategory {
	return LocalizedCategory{
		ID:          c.ID,
		Name:        localize.NewText(c.Name, c.NameTR, c.NameEN).Display(lang, c.ID),
		Description: localize.NewText(c.Description, c.DescriptionTR, c.DescriptionEN).Display(lang, ""),
		Color:       c.Color,
		ParentID:    c.ParentID,
		SortOrder:   c.SortOrder,
	}
}
