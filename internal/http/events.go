package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/store"
)

func eventFilters(r *http.Request) store.EventFilters {
	query := r.URL.Query()
	filters := store.EventFilters{
		Category: query.Get("category"),
		City:     query.Get("city"),
		Search:   trimString(query.Get("q"), 120),
		Featured: parseBool(query.Get("featured")),
		Limit:    parseInt(query.Get("limit"), 50),
		Offset:   parseInt(query.Get("offset"), 0),
	}
	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		if from, ok := parseDate(raw); ok {
			filters.From = &from
		}
	}
	if upcoming := parseBool(query.Get("upcoming")); upcoming != nil && *upcoming {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		filters.From = &today
	}
	return filters
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	filters := eventFilters(r)
	key := queryKey(r.URL.Query(), eventQueryParams...)
	if filters.From != nil {
		key += "&day=" + filters.From.Format("2006-01-02")
	}
	events, err := s.cachedEvents(r.Context(), key, filters)
	if err != nil {
		writeFailure(w, err)
		return
	}
	WriteData(w, http.StatusOK, models.LocalizeEvents(events, requestLanguage(r)))
}

func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.cachedEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	if !event.IsActive {
		WriteError(w, http.StatusNotFound, "Event not found")
		return
	}
	WriteData(w, http.StatusOK, models.LocalizeEvent(event, requestLanguage(r)))
}

func (s *Server) ViewEvent(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, http.StatusOK, s.Store.IncrementEventViews(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) LikeEvent(w http.ResponseWriter, r *http.Request) {
	res := s.Store.LikeEvent(r.Context(), chi.URLParam(r, "id"))
	if res.Success {
		s.invalidate(r.Context(), cache.Events)
	}
	WriteResult(w, http.StatusOK, res)
}

// AdminListEvents returns raw bilingual rows, inactive ones included.
func (s *Server) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	filters := eventFilters(r)
	filters.IncludeInactive = true
	WriteResult(w, http.StatusOK, s.Store.GetEvents(r.Context(), filters))
}

func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	event := models.Event{IsActive: true, Currency: "TRY"}
	if !decodeJSON(w, r, &event) {
		return
	}
	res := s.Store.CreateEvent(r.Context(), event)
	if res.Success {
		s.invalidate(r.Context(), cache.Events, cache.Stats)
		s.audit(r, "create", "event", res.Data.ID, map[string]string{"title": res.Data.Title})
	}
	WriteResult(w, http.StatusCreated, res)
}

// UpdateEvent merges the payload over the stored row, so omitted fields keep
// their values.
func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	current := s.Store.GetEvent(r.Context(), id)
	if !current.Success {
		WriteResult(w, http.StatusOK, current)
		return
	}
	event := current.Data
	if !decodeJSON(w, r, &event) {
		return
	}
	res := s.Store.UpdateEvent(r.Context(), id, event)
	if res.Success {
		s.invalidate(r.Context(), cache.Events, cache.Stats)
		s.audit(r, "update", "event", id, nil)
	}
	WriteResult(w, http.StatusOK, res)
}

func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res := s.Store.DeleteEvent(r.Context(), id)
	if res.Success {
		s.invalidate(r.Context(), cache.Events, cache.Stats)
		s.audit(r, "delete", "event", id, nil)
	}
	WriteResult(w, http.StatusOK, res)
}

func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.cachedStats(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	WriteData(w, http.StatusOK, stats)
}
