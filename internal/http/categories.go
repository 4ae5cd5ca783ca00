package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/store"
)

func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.cachedCategories(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	lang := requestLanguage(r)
	items := make([]models.LocalizedCategory, 0, len(categories))
	for _, category := range categories {
		items = append(items, models.LocalizeCategory(category, lang))
	}
	WriteData(w, http.StatusOK, items)
}

func (s *Server) GetCategory(w http.ResponseWriter, r *http.Request) {
	res := s.Store.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if !res.Success {
		WriteResult(w, http.StatusOK, res)
		return
	}
	WriteData(w, http.StatusOK, models.LocalizeCategory(res.Data, requestLanguage(r)))
}

func (s *Server) AdminListCategories(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, http.StatusOK, s.Store.GetCategories(r.Context(), false))
}

func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input store.CategoryInput
	if !decodeJSON(w, r, &input) {
		return
	}
	res := s.Store.CreateCategory(r.Context(), input)
	if res.Success {
		s.invalidate(r.Context(), cache.Categories)
		s.audit(r, "create", "category", res.Data.ID, nil)
	}
	WriteResult(w, http.StatusCreated, res)
}

func (s *Server) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var input store.CategoryInput
	if !decodeJSON(w, r, &input) {
		return
	}
	res := s.Store.UpdateCategory(r.Context(), id, input)
	if res.Success {
		s.invalidate(r.Context(), cache.Categories)
		s.audit(r, "update", "category", id, nil)
	}
	WriteResult(w, http.StatusOK, res)
}

func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res := s.Store.DeleteCategory(r.Context(), id)
	if res.Success {
		s.invalidate(r.Context(), cache.Categories)
		s.audit(r, "delete", "category", id, nil)
	}
	WriteResult(w, http.StatusOK, res)
}
