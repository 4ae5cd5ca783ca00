// Command seed creates the admin account from ADMIN_EMAIL/ADMIN_PASSWORD and
// loads a small set of demo content. Running it twice changes nothing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"eventhubble-backend-go/internal/config"
	"eventhubble-backend-go/internal/db"
	"eventhubble-backend-go/internal/migrations"
	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/services"
	"eventhubble-backend-go/internal/store"
)

func main() {
	var adminOnly bool
	flag.BoolVar(&adminOnly, "admin-only", false, "only create or update the admin account")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()
	if err := migrations.Apply(ctx, database, migrations.Files()); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	st := store.New(database)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		hash, err := services.TokenService{}.HashPassword(cfg.AdminPassword)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		admin, err := st.EnsureAdmin(ctx, cfg.AdminEmail, hash).Unwrap()
		if err != nil {
			log.Fatalf("admin: %v", err)
		}
		fmt.Printf("admin: %s\n", admin.Email)
	} else {
		fmt.Println("admin: skipped (ADMIN_EMAIL/ADMIN_PASSWORD not set)")
	}
	if adminOnly {
		return
	}

	failed := 0
	for _, category := range demoCategories() {
		if _, err := st.GetCategory(ctx, category.ID).Unwrap(); err == nil {
			continue
		}
		if _, err := st.CreateCategory(ctx, category).Unwrap(); err != nil {
			log.Printf("category %s: %v", category.ID, err)
			failed++
		}
	}
	for _, event := range demoEvents(time.Now().UTC()) {
		if _, err := st.UpsertScrapedEvent(ctx, event).Unwrap(); err != nil {
			log.Printf("event %s: %v", event.Title, err)
			failed++
		}
	}
	post := demoPost()
	if _, err := st.GetBlogPostBySlug(ctx, post.Slug).Unwrap(); err != nil {
		if _, err := st.CreateBlogPost(ctx, post).Unwrap(); err != nil {
			log.Printf("blog post: %v", err)
			failed++
		}
	}
	if failed > 0 {
		fmt.Printf("seed finished with %d failures\n", failed)
		os.Exit(1)
	}
	fmt.Println("seed finished")
}

func text(value string) *string {
	return &value
}

func demoCategories() []store.CategoryInput {
	return []store.CategoryInput{
		{ID: "music", Name: "Müzik", NameTR: text("Müzik"), NameEN: text("Music"), Color: "#8b5cf6", SortOrder: 1},
		{ID: "theatre", Name: "Tiyatro", NameTR: text("Tiyatro"), NameEN: text("Theatre"), Color: "#ef4444", SortOrder: 2},
		{ID: "festival", Name: "Festival", NameTR: text("Festival"), NameEN: text("Festival"), Color: "#f59e0b", SortOrder: 3},
		{ID: "sports", Name: "Spor", NameTR: text("Spor"), NameEN: text("Sports"), Color: "#10b981", SortOrder: 4},
	}
}

// demoEvents go through the source_url upsert so reruns refresh instead of
// duplicating them.
func demoEvents(now time.Time) []models.Event {
	seed := "seed"
	day := now.Truncate(24 * time.Hour)
	price := func(v float64) *float64 { return &v }
	return []models.Event{
		{
			Title: "İstanbul Caz Festivali", TitleTR: text("İstanbul Caz Festivali"), TitleEN: text("Istanbul Jazz Festival"),
			Description: "Şehrin dört bir yanında caz konserleri.", DescriptionEN: text("Jazz concerts across the city."),
			Venue: "Harbiye Cemil Topuzlu Açıkhava Tiyatrosu", Category: "festival", City: "İstanbul",
			StartDate: day.AddDate(0, 0, 21).Add(17 * time.Hour), PriceMin: price(450), PriceMax: price(1200),
			Tags: models.StringList{"caz", "festival"}, Source: &seed, SourceURL: text("https://eventhubble.com/seed/istanbul-caz-festivali"),
		},
		{
			Title: "Hamlet", TitleTR: text("Hamlet"), TitleEN: text("Hamlet"),
			Description: "Shakespeare klasiği yeni bir yorumla.", DescriptionEN: text("The Shakespeare classic, newly staged."),
			Venue: "Zorlu PSM", Category: "theatre", City: "İstanbul",
			StartDate: day.AddDate(0, 0, 9).Add(17 * time.Hour), PriceMin: price(300), PriceMax: price(300),
			Tags: models.StringList{"tiyatro"}, Source: &seed, SourceURL: text("https://eventhubble.com/seed/hamlet"),
		},
		{
			Title: "Ege Rock Gecesi", TitleTR: text("Ege Rock Gecesi"), TitleEN: text("Aegean Rock Night"),
			Venue: "Kültürpark Açıkhava", Category: "music", City: "İzmir",
			StartDate: day.AddDate(0, 0, 14).Add(18 * time.Hour), PriceMin: price(0), PriceMax: price(0),
			Tags: models.StringList{"rock", "ücretsiz"}, Source: &seed, SourceURL: text("https://eventhubble.com/seed/ege-rock-gecesi"),
		},
	}
}

func demoPost() models.BlogPost {
	return models.BlogPost{
		Title:       "İstanbul'da Bahar Etkinlikleri",
		TitleTR:     text("İstanbul'da Bahar Etkinlikleri"),
		TitleEN:     text("Spring Events in Istanbul"),
		Excerpt:     "Bu baharın kaçırılmayacak etkinlikleri.",
		ExcerptEN:   text("The events not to miss this spring."),
		Content:     "Bahar geldiğinde şehir konserler, festivaller ve sergilerle canlanıyor.",
		ContentEN:   text("When spring arrives the city comes alive with concerts, festivals and exhibitions."),
		Category:    "guides",
		Slug:        "istanbul-da-bahar-etkinlikleri",
		IsPublished: true,
	}
}
