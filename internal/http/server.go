package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/config"
	"eventhubble-backend-go/internal/scraper"
	"eventhubble-backend-go/internal/services"
	"eventhubble-backend-go/internal/store"
)

// Ingester runs one pass of event ingestion.
type Ingester interface {
	Run(ctx context.Context) scraper.Report
}

type Server struct {
	Store  *store.Store
	Cache  *cache.Cache
	Config config.Config
	Tokens services.TokenService
	Hub    *services.AnalyticsHub
	Ingest Ingester
}

func NewServer(st *store.Store, c *cache.Cache, cfg config.Config, hub *services.AnalyticsHub) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	s := &Server{
		Store:  st,
		Cache:  c,
		Config: cfg,
		Tokens: tokens,
		Hub:    hub,
	}
	s.registerPreloaders()
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", CSRFHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.Health)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", s.Login)
			auth.Post("/logout", s.Logout)
			auth.Post("/refresh", s.Refresh)
			auth.With(WithAuth(s.Tokens)).Get("/me", s.Me)
		})

		api.Get("/logos", s.ListLogos)
		api.Get("/logos/{logoId}", s.GetLogo)
		api.Get("/logos/{logoId}/inline", s.InlineLogo)
		api.Get("/images", s.ListImages)
		api.Get("/images/{id}", s.GetImage)
		api.Get("/events", s.ListEvents)
		api.Get("/events/{id}", s.GetEvent)
		api.Post("/events/{id}/view", s.ViewEvent)
		api.Post("/events/{id}/like", s.LikeEvent)
		api.Get("/categories", s.ListCategories)
		api.Get("/categories/{id}", s.GetCategory)
		api.Get("/settings", s.ListSettings)
		api.Get("/settings/{key}", s.GetSetting)
		api.Get("/blogs", s.ListBlogs)
		api.Get("/blogs/{id}", s.GetBlog)
		api.Get("/testimonials", s.ListTestimonials)
		api.Get("/partners", s.ListPartners)
		api.Get("/stats", s.Stats)
		api.Post("/contact", s.SubmitContact)
		api.Post("/newsletter", s.Subscribe)
		api.Post("/newsletter/unsubscribe", s.Unsubscribe)
		api.Post("/analytics", s.TrackAnalytics)

		api.Group(func(admin chi.Router) {
			admin.Use(WithAuth(s.Tokens))
			admin.Use(RequireRole("ADMIN"))
			admin.Use(RequireCSRF)

			admin.Get("/admin/events", s.AdminListEvents)
			admin.Post("/events", s.CreateEvent)
			admin.Put("/events/{id}", s.UpdateEvent)
			admin.Delete("/events/{id}", s.DeleteEvent)

			admin.Get("/admin/blogs", s.AdminListBlogs)
			admin.Post("/blogs", s.CreateBlog)
			admin.Put("/blogs/{id}", s.UpdateBlog)
			admin.Delete("/blogs/{id}", s.DeleteBlog)

			admin.Get("/admin/categories", s.AdminListCategories)
			admin.Post("/categories", s.CreateCategory)
			admin.Put("/categories/{id}", s.UpdateCategory)
			admin.Delete("/categories/{id}", s.DeleteCategory)

			admin.Get("/admin/logos", s.AdminListLogos)
			admin.Post("/logos", s.CreateLogo)
			admin.Put("/logos/{logoId}", s.UpdateLogo)
			admin.Delete("/logos/{logoId}", s.DeleteLogo)

			admin.Get("/admin/images", s.AdminListImages)
			admin.Post("/images", s.CreateImage)
			admin.Post("/images/upload", s.UploadImage)
			admin.Put("/images/{id}", s.UpdateImage)
			admin.Delete("/images/{id}", s.DeleteImage)

			admin.Get("/admin/settings", s.AdminListSettings)
			admin.Put("/settings", s.UpdateSettings)
			admin.Put("/settings/{key}", s.UpdateSetting)

			admin.Get("/contact", s.ListContact)
			admin.Put("/contact/{id}/status", s.UpdateContactStatus)
			admin.Get("/newsletter", s.ListSubscribers)
			admin.Post("/testimonials", s.CreateTestimonial)
			admin.Delete("/testimonials/{id}", s.DeleteTestimonial)
			admin.Post("/partners", s.CreatePartner)
			admin.Delete("/partners/{id}", s.DeletePartner)

			admin.Get("/audit", s.ListAudit)
			admin.Get("/analytics/summary", s.AnalyticsSummary)
			admin.Post("/cache/clear", s.ClearCache)
			admin.Post("/ingest/run", s.RunIngest)
			admin.Get("/ws/analytics", s.AnalyticsSocket)
		})
	})

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.Config.UploadsDir))))
	return r
}

// audit records an admin action; failures are logged by the store.
func (s *Server) audit(r *http.Request, action, entity, entityID string, details interface{}) {
	s.Store.RecordAudit(r.Context(), store.AuditEntry{
		Actor:    currentActor(r),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	})
}
