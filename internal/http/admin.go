package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/localize"
	"eventhubble-backend-go/internal/store"
)

func (s *Server) ListContact(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	res := s.Store.GetContactSubmissions(r.Context(),
		strings.TrimSpace(query.Get("status")),
		parseInt(query.Get("limit"), 50),
		parseInt(query.Get("offset"), 0),
	)
	WriteResult(w, http.StatusOK, res)
}

type ContactStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new read replied archived"`
}

func (s *Server) UpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}
	var req ContactStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res := s.Store.UpdateContactStatus(r.Context(), id, req.Status)
	if res.Success {
		s.audit(r, "status", "contact", strconv.FormatInt(id, 10), map[string]string{"status": req.Status})
	}
	WriteResult(w, http.StatusOK, res)
}

func (s *Server) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if value := parseBool(r.URL.Query().Get("active")); value != nil {
		activeOnly = *value
	}
	WriteResult(w, http.StatusOK, s.Store.GetSubscribers(r.Context(), activeOnly))
}

func (s *Server) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var input store.TestimonialInput
	if !decodeJSON(w, r, &input) {
		return
	}
	res := s.Store.CreateTestimonial(r.Context(), input)
	if res.Success {
		s.audit(r, "create", "testimonial", strconv.FormatInt(res.Data.ID, 10), nil)
	}
	WriteResult(w, http.StatusCreated, res)
}

func (s *Server) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid testimonial id")
		return
	}
	res := s.Store.DeleteTestimonial(r.Context(), id)
	if res.Success {
		s.audit(r, "delete", "testimonial", strconv.FormatInt(id, 10), nil)
	}
	WriteResult(w, http.StatusOK, res)
}

func (s *Server) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var input store.PartnerInput
	if !decodeJSON(w, r, &input) {
		return
	}
	res := s.Store.CreatePartner(r.Context(), input)
	if res.Success {
		s.audit(r, "create", "partner", strconv.FormatInt(res.Data.ID, 10), nil)
	}
	WriteResult(w, http.StatusCreated, res)
}

func (s *Server) DeletePartner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid partner id")
		return
	}
	res := s.Store.DeletePartner(r.Context(), id)
	if res.Success {
		s.audit(r, "delete", "partner", strconv.FormatInt(id, 10), nil)
	}
	WriteResult(w, http.StatusOK, res)
}

func (s *Server) ListAudit(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	WriteResult(w, http.StatusOK, s.Store.GetAuditLogs(r.Context(), strings.TrimSpace(query.Get("entity")), parseInt(query.Get("limit"), 100)))
}

func (s *Server) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, http.StatusOK, s.Store.GetAnalyticsSummary(r.Context(), parseInt(r.URL.Query().Get("days"), 30)))
}

type ClearCacheRequest struct {
	Type    string `json:"type"`
	Preload bool   `json:"preload"`
}

// ClearCache drops one content type, or everything when no type is given.
// With preload set the cache is warmed again in the background.
func (s *Server) ClearCache(w http.ResponseWriter, r *http.Request) {
	var req ClearCacheRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	kind := strings.TrimSpace(req.Type)
	var err error
	if kind == "" {
		err = s.Cache.ClearAll(r.Context())
	} else {
		err = s.Cache.Clear(r.Context(), cache.Type(kind))
	}
	if err != nil {
		writeFailure(w, err)
		return
	}
	if req.Preload {
		s.Cache.PreloadAsync(context.WithoutCancel(r.Context()), localize.Default())
	}
	cleared := kind
	if cleared == "" {
		cleared = "all"
	}
	s.audit(r, "clear", "cache", cleared, nil)
	WriteData(w, http.StatusOK, map[string]string{"cleared": cleared})
}

// RunIngest runs one scraping pass synchronously and returns its report.
func (s *Server) RunIngest(w http.ResponseWriter, r *http.Request) {
	if s.Ingest == nil {
		WriteError(w, http.StatusServiceUnavailable, "Ingestion is not configured")
		return
	}
	report := s.Ingest.Run(r.Context())
	WriteData(w, http.StatusOK, report)
}
