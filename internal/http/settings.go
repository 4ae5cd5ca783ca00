package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/store"
)

type SettingResponse struct {
	Key      string      `json:"setting_key"`
	Value    interface{} `json:"setting_value"`
	Type     string      `json:"setting_type"`
	Category string      `json:"category"`
}

// ListSettings returns the public key/value map with typed values.
func (s *Server) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.cachedSettings(r.Context(), strings.TrimSpace(r.URL.Query().Get("category")))
	if err != nil {
		writeFailure(w, err)
		return
	}
	WriteData(w, http.StatusOK, settings)
}

func (s *Server) GetSetting(w http.ResponseWriter, r *http.Request) {
	res := s.Store.GetSiteSetting(r.Context(), chi.URLParam(r, "key"))
	if !res.Success {
		WriteResult(w, http.StatusOK, res)
		return
	}
	setting := res.Data
	WriteData(w, http.StatusOK, SettingResponse{
		Key:      setting.Key,
		Value:    setting.TypedValue(),
		Type:     setting.Type,
		Category: setting.Category,
	})
}

func (s *Server) AdminListSettings(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, http.StatusOK, s.Store.GetSiteSettings(r.Context(), strings.TrimSpace(r.URL.Query().Get("category"))))
}

// UpdateSettings applies a batch atomically: either every key is written or
// none is.
func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var updates []store.SettingUpdate
	if !decodeJSON(w, r, &updates) {
		return
	}
	for i := range updates {
		if details := validationErrors(&updates[i]); len(details) > 0 {
			WriteJSON(w, http.StatusBadRequest, Envelope{Success: false, Error: "Validation failed", Details: details})
			return
		}
	}
	res := s.Store.UpdateSiteSettings(r.Context(), updates)
	if res.Success {
		s.invalidate(r.Context(), cache.Settings)
		keys := make([]string, 0, len(res.Data))
		for _, outcome := range res.Data {
			keys = append(keys, outcome.Key)
		}
		s.audit(r, "update", "settings", "", map[string]interface{}{"keys": keys})
	}
	WriteResult(w, http.StatusOK, res)
}

func (s *Server) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var update store.SettingUpdate
	update.Key = chi.URLParam(r, "key")
	if !decodeJSON(w, r, &update) {
		return
	}
	update.Key = chi.URLParam(r, "key")
	res := s.Store.UpdateSiteSetting(r.Context(), update)
	if res.Success {
		s.invalidate(r.Context(), cache.Settings)
		s.audit(r, res.Data.Action, "setting", update.Key, nil)
	}
	WriteResult(w, http.StatusOK, res)
}
