package httpapi

import (
	"context"
	"net/http"
	"strings"

	"eventhubble-backend-go/internal/localize"
	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/store"
)

type TestimonialResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Role      *string `json:"role"`
	Quote     string  `json:"quote"`
	AvatarURL *string `json:"avatar_url"`
}

func (s *Server) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	res := s.Store.GetTestimonials(r.Context(), true)
	if !res.Success {
		WriteResult(w, http.StatusOK, res)
		return
	}
	lang := requestLanguage(r)
	items := make([]TestimonialResponse, 0, len(res.Data))
	for _, t := range res.Data {
		items = append(items, TestimonialResponse{
			ID:        t.ID,
			Name:      t.Name,
			Role:      t.Role,
			Quote:     localize.NewText(t.Quote, t.QuoteTR, t.QuoteEN).Display(lang, ""),
			AvatarURL: t.AvatarURL,
		})
	}
	WriteData(w, http.StatusOK, items)
}

func (s *Server) ListPartners(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, http.StatusOK, s.Store.GetPartners(r.Context(), true))
}

func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var input store.ContactInput
	if !decodeJSON(w, r, &input) {
		return
	}
	res := s.Store.CreateContactSubmission(r.Context(), input)
	if !res.Success {
		WriteResult(w, http.StatusOK, res)
		return
	}
	WriteData(w, http.StatusCreated, map[string]int64{"id": res.Data.ID})
}

type NewsletterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Language string `json:"language"`
}

func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req NewsletterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	language := req.Language
	if strings.TrimSpace(language) == "" {
		language = string(requestLanguage(r))
	}
	res := s.Store.Subscribe(r.Context(), req.Email, string(localize.ParseLanguage(language)))
	if !res.Success {
		WriteResult(w, http.StatusOK, res)
		return
	}
	WriteData(w, http.StatusCreated, map[string]string{"email": res.Data.Email, "language": res.Data.Language})
}

func (s *Server) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req NewsletterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	WriteResult(w, http.StatusOK, s.Store.Unsubscribe(r.Context(), req.Email))
}

type AnalyticsRequest struct {
	EventType string `json:"event_type" validate:"required,max=60"`
	Path      string `json:"path" validate:"max=255"`
	EventID   string `json:"event_id" validate:"max=80"`
	Referrer  string `json:"referrer"`
}

// TrackAnalytics accepts the record and stores it after responding. Storage
// failures are logged by the store and never reach the client.
func (s *Server) TrackAnalytics(w http.ResponseWriter, r *http.Request) {
	var req AnalyticsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lang := string(requestLanguage(r))
	record := models.AnalyticsRecord{
		EventType: trimString(req.EventType, 60),
		Path:      nullIfEmpty(trimString(req.Path, 255)),
		EventID:   nullIfEmpty(trimString(req.EventID, 80)),
		Language:  &lang,
		Referrer:  nullIfEmpty(trimString(req.Referrer, 512)),
		UserAgent: nullIfEmpty(trimString(r.Header.Get("User-Agent"), 512)),
	}
	ctx := context.WithoutCancel(r.Context())
	go func() {
		res := s.Store.TrackEvent(ctx, record)
		if res.Success && s.Hub != nil {
			s.Hub.Broadcast(res.Data)
		}
	}()
	WriteData(w, http.StatusAccepted, map[string]bool{"queued": true})
}
