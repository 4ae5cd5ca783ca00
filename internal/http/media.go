package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/services"
	"eventhubble-backend-go/internal/store"
)

const maxUploadBytes = 10 << 20

func (s *Server) ListLogos(w http.ResponseWriter, r *http.Request) {
	logos, err := s.cachedLogos(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	WriteData(w, http.StatusOK, logos)
}

func (s *Server) GetLogo(w http.ResponseWriter, r *http.Request) {
	logoID := chi.URLParam(r, "logoId")
	logos, err := s.cachedLogos(r.Context())
	if err == nil {
		for _, logo := range logos {
			if logo.LogoID == logoID {
				WriteData(w, http.StatusOK, logo)
				return
			}
		}
	}
	WriteResult(w, http.StatusOK, s.Store.GetLogo(r.Context(), logoID))
}

type InlineImageResponse struct {
	LogoID string `json:"logo_id"`
	Src    string `json:"src"`
}

// InlineLogo returns a remote logo as a data URI usable directly as an img
// src. Local paths are returned unchanged.
func (s *Server) InlineLogo(w http.ResponseWriter, r *http.Request) {
	logoID := chi.URLParam(r, "logoId")
	res := s.Store.GetLogo(r.Context(), logoID)
	if !res.Success {
		WriteResult(w, http.StatusOK, res)
		return
	}
	src := res.Data.FilePath
	if isRemote(src) {
		src = s.Cache.GetCachedImage(r.Context(), src, cache.Key(cache.Logos, "inline", logoID), cache.TTLFor(cache.Logos))
	}
	WriteData(w, http.StatusOK, InlineImageResponse{LogoID: logoID, Src: src})
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func (s *Server) AdminListLogos(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, http.StatusOK, s.Store.GetLogos(r.Context(), false))
}

func (s *Server) CreateLogo(w http.ResponseWriter, r *http.Request) {
	var input store.LogoInput
	if !decodeJSON(w, r, &input) {
		return
	}
	res := s.Store.CreateLogo(r.Context(), input)
	if res.Success {
		s.invalidate(r.Context(), cache.Logos)
		s.audit(r, "create", "logo", res.Data.LogoID, nil)
	}
	WriteResult(w, http.StatusCreated, res)
}

func (s *Server) UpdateLogo(w http.ResponseWriter, r *http.Request) {
	logoID := chi.URLParam(r, "logoId")
	var input store.LogoInput
	input.LogoID = logoID
	if !decodeJSON(w, r, &input) {
		return
	}
	res := s.Store.UpdateLogo(r.Context(), logoID, input)
	if res.Success {
		s.invalidate(r.Context(), cache.Logos)
		s.audit(r, "update", "logo", logoID, nil)
	}
	WriteResult(w, http.StatusOK, res)
}

func (s *Server) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	logoID := chi.URLParam(r, "logoId")
	res := s.Store.DeleteLogo(r.Context(), logoID)
	if res.Success {
		s.invalidate(r.Context(), cache.Logos)
		s.audit(r, "delete", "logo", logoID, nil)
	}
	WriteResult(w, http.StatusOK, res)
}

func (s *Server) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := s.cachedImages(r.Context(), strings.TrimSpace(r.URL.Query().Get("category")))
	if err != nil {
		writeFailure(w, err)
		return
	}
	WriteData(w, http.StatusOK, images)
}

func (s *Server) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid image id")
		return
	}
	WriteResult(w, http.StatusOK, s.Store.GetImage(r.Context(), id))
}

func (s *Server) AdminListImages(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, http.StatusOK, s.Store.GetAllImages(r.Context()))
}

func (s *Server) CreateImage(w http.ResponseWriter, r *http.Request) {
	var input store.ImageInput
	if !decodeJSON(w, r, &input) {
		return
	}
	res := s.Store.CreateImage(r.Context(), input)
	if res.Success {
		s.invalidate(r.Context(), cache.Images)
		s.audit(r, "create", "image", res.Data.Filename, nil)
	}
	WriteResult(w, http.StatusCreated, res)
}

// UploadImage stores a multipart "file" under UPLOADS_DIR and creates its
// image row.
func (s *Server) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, services.ErrTooLarge("Upload exceeds 10 MB"))
			return
		}
		writeFailure(w, services.ErrBadRequest("Malformed multipart body"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	category := strings.TrimSpace(r.FormValue("category"))
	if category == "" {
		category = "general"
	}
	upload, err := services.SaveUpload(s.Config.UploadsDir, category, header.Filename, file)
	if err != nil {
		writeFailure(w, err)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = header.Filename
	}
	res := s.Store.CreateImage(r.Context(), store.ImageInput{
		Category: category,
		Filename: upload.Filename,
		Title:    title,
		FilePath: upload.FilePath,
		Width:    upload.Width,
		Height:   upload.Height,
		FileSize: &upload.Size,
		AltText:  nullIfEmpty(r.FormValue("alt_text")),
	})
	if !res.Success {
		services.RemoveUpload(s.Config.UploadsDir, upload.FilePath)
		WriteResult(w, http.StatusOK, res)
		return
	}
	s.invalidate(r.Context(), cache.Images)
	s.audit(r, "upload", "image", upload.Filename, map[string]string{"sha256": upload.SHA256})
	WriteData(w, http.StatusCreated, res.Data)
}

func (s *Server) UpdateImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid image id")
		return
	}
	var input store.ImageInput
	if !decodeJSON(w, r, &input) {
		return
	}
	res := s.Store.UpdateImage(r.Context(), id, input)
	if res.Success {
		s.invalidate(r.Context(), cache.Images)
		s.audit(r, "update", "image", res.Data.Filename, nil)
	}
	WriteResult(w, http.StatusOK, res)
}

// DeleteImage removes the row and, for local uploads, the file.
func (s *Server) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid image id")
		return
	}
	var image models.Image
	if current := s.Store.GetImage(r.Context(), id); current.Success {
		image = current.Data
	}
	res := s.Store.DeleteImage(r.Context(), id)
	if res.Success {
		services.RemoveUpload(s.Config.UploadsDir, image.FilePath)
		s.invalidate(r.Context(), cache.Images)
		s.audit(r, "delete", "image", image.Filename, nil)
	}
	WriteResult(w, http.StatusOK, res)
}
