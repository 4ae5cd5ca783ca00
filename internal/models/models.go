package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList is a jsonb array column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch value := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return errors.New("StringList: unsupported source type")
	}
	items := []string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
	}
	*l = items
	return nil
}

type Event struct {
	ID            string     `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	TitleTR       *string    `db:"title_tr" json:"title_tr"`
	TitleEN       *string    `db:"title_en" json:"title_en"`
	Description   string     `db:"description" json:"description"`
	DescriptionTR *string    `db:"description_tr" json:"description_tr"`
	DescriptionEN *string    `db:"description_en" json:"description_en"`
	Venue         string     `db:"venue" json:"venue"`
	VenueTR       *string    `db:"venue_tr" json:"venue_tr"`
	VenueEN       *string    `db:"venue_en" json:"venue_en"`
	Organizer     string     `db:"organizer" json:"organizer"`
	OrganizerTR   *string    `db:"organizer_tr" json:"organizer_tr"`
	OrganizerEN   *string    `db:"organizer_en" json:"organizer_en"`
	Category      string     `db:"category" json:"category"`
	City          string     `db:"city" json:"city"`
	Country       string     `db:"country" json:"country"`
	StartDate     time.Time  `db:"start_date" json:"start_date"`
	EndDate       *time.Time `db:"end_date" json:"end_date"`
	PriceMin      *float64   `db:"price_min" json:"price_min"`
	PriceMax      *float64   `db:"price_max" json:"price_max"`
	Currency      string     `db:"currency" json:"currency"`
	ImageURL      *string    `db:"image_url" json:"image_url"`
	Tags          StringList `db:"tags" json:"tags"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	IsFeatured    bool       `db:"is_featured" json:"is_featured"`
	ViewCount     int64      `db:"view_count" json:"view_count"`
	LikeCount     int64      `db:"like_count" json:"like_count"`
	Source        *string    `db:"source" json:"source"`
	SourceURL     *string    `db:"source_url" json:"source_url"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

type BlogPost struct {
	ID              string     `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	TitleTR         *string    `db:"title_tr" json:"title_tr"`
	TitleEN         *string    `db:"title_en" json:"title_en"`
	Excerpt         string     `db:"excerpt" json:"excerpt"`
	ExcerptTR       *string    `db:"excerpt_tr" json:"excerpt_tr"`
	ExcerptEN       *string    `db:"excerpt_en" json:"excerpt_en"`
	Content         string     `db:"content" json:"content"`
	ContentTR       *string    `db:"content_tr" json:"content_tr"`
	ContentEN       *string    `db:"content_en" json:"content_en"`
	Category        string     `db:"category" json:"category"`
	ImageURL        *string    `db:"image_url" json:"image_url"`
	Slug            string     `db:"slug" json:"slug"`
	Author          string     `db:"author" json:"author"`
	IsPublished     bool       `db:"is_published" json:"is_published"`
	IsFeatured      bool       `db:"is_featured" json:"is_featured"`
	MetaTitle       *string    `db:"meta_title" json:"meta_title"`
	MetaDescription *string    `db:"meta_description" json:"meta_description"`
	PublishedAt     *time.Time `db:"published_at" json:"published_at"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

type Category struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	NameTR        *string   `db:"name_tr" json:"name_tr"`
	NameEN        *string   `db:"name_en" json:"name_en"`
	Description   string    `db:"description" json:"description"`
	DescriptionTR *string   `db:"description_tr" json:"description_tr"`
	DescriptionEN *string   `db:"description_en" json:"description_en"`
	Color         string    `db:"color" json:"color"`
	ParentID      *string   `db:"parent_id" json:"parent_id"`
	SortOrder     int       `db:"sort_order" json:"sort_order"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type Logo struct {
	ID        int64     `db:"id" json:"id"`
	LogoID    string    `db:"logo_id" json:"logo_id"`
	Filename  string    `db:"filename" json:"filename"`
	Title     string    `db:"title" json:"title"`
	FilePath  string    `db:"file_path" json:"file_path"`
	Width     *int      `db:"width" json:"width"`
	Height    *int      `db:"height" json:"height"`
	FileSize  *int64    `db:"file_size" json:"file_size"`
	AltText   *string   `db:"alt_text" json:"alt_text"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Image struct {
	ID        int64     `db:"id" json:"id"`
	Category  string    `db:"category" json:"category"`
	Filename  string    `db:"filename" json:"filename"`
	Title     string    `db:"title" json:"title"`
	FilePath  string    `db:"file_path" json:"file_path"`
	Width     *int      `db:"width" json:"width"`
	Height    *int      `db:"height" json:"height"`
	FileSize  *int64    `db:"file_size" json:"file_size"`
	AltText   *string   `db:"alt_text" json:"alt_text"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type SiteSetting struct {
	ID          int64     `db:"id" json:"id"`
	Key         string    `db:"setting_key" json:"setting_key"`
	Value       string    `db:"setting_value" json:"setting_value"`
	Type        string    `db:"setting_type" json:"setting_type"`
	Category    string    `db:"category" json:"category"`
	Description *string   `db:"description" json:"description"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type ContactSubmission struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type NewsletterSubscription struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Language  string    `db:"language" json:"language"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Testimonial struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Role      *string   `db:"role" json:"role"`
	Quote     string    `db:"quote" json:"quote"`
	QuoteTR   *string   `db:"quote_tr" json:"quote_tr"`
	QuoteEN   *string   `db:"quote_en" json:"quote_en"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Partner struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	LogoURL    *string   `db:"logo_url" json:"logo_url"`
	WebsiteURL *string   `db:"website_url" json:"website_url"`
	SortOrder  int       `db:"sort_order" json:"sort_order"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type AuditLog struct {
	ID        int64           `db:"id" json:"id"`
	Actor     string          `db:"actor" json:"actor"`
	Action    string          `db:"action" json:"action"`
	Entity    string          `db:"entity" json:"entity"`
	EntityID  *string         `db:"entity_id" json:"entity_id"`
	Details   json.RawMessage `db:"details" json:"details"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

type AnalyticsRecord struct {
	ID        int64     `db:"id" json:"id"`
	EventType string    `db:"event_type" json:"event_type"`
	Path      *string   `db:"path" json:"path"`
	EventID   *string   `db:"event_id" json:"event_id"`
	Language  *string   `db:"language" json:"language"`
	Referrer  *string   `db:"referrer" json:"referrer"`
	UserAgent *string   `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type AdminUser struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
}
