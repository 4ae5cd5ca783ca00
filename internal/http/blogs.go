package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventhubble-backend-go/internal/cache"
	"eventhubble-backend-go/internal/models"
	"eventhubble-backend-go/internal/store"
)

func blogFilters(r *http.Request) store.BlogFilters {
	query := r.URL.Query()
	return store.BlogFilters{
		Category: query.Get("category"),
		Search:   trimString(query.Get("q"), 120),
		Featured: parseBool(query.Get("featured")),
		Limit:    parseInt(query.Get("limit"), 20),
		Offset:   parseInt(query.Get("offset"), 0),
	}
}

func (s *Server) ListBlogs(w http.ResponseWriter, r *http.Request) {
	posts, err := s.cachedBlogs(r.Context(), queryKey(r.URL.Query(), blogQueryParams...), blogFilters(r))
	if err != nil {
		writeFailure(w, err)
		return
	}
	lang := requestLanguage(r)
	items := make([]models.LocalizedBlogPost, 0, len(posts))
	for _, post := range posts {
		items = append(items, models.LocalizeBlogPost(post, lang, false))
	}
	WriteData(w, http.StatusOK, items)
}

// GetBlog resolves a published post by slug, falling back to its id.
func (s *Server) GetBlog(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "id")
	res := s.Store.GetBlogPostBySlug(r.Context(), ref)
	if !res.Success && res.Kind == store.KindNotFound {
		res = s.Store.GetBlogPost(r.Context(), ref)
	}
	if !res.Success {
		WriteResult(w, http.StatusOK, res)
		return
	}
	if !res.Data.IsPublished {
		WriteError(w, http.StatusNotFound, "Blog post not found")
		return
	}
	WriteData(w, http.StatusOK, models.LocalizeBlogPost(res.Data, requestLanguage(r), true))
}

func (s *Server) AdminListBlogs(w http.ResponseWriter, r *http.Request) {
	filters := blogFilters(r)
	filters.IncludeDrafts = true
	WriteResult(w, http.StatusOK, s.Store.GetBlogPosts(r.Context(), filters))
}

func (s *Server) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var post models.BlogPost
	if !decodeJSON(w, r, &post) {
		return
	}
	res := s.Store.CreateBlogPost(r.Context(), post)
	if res.Success {
		s.invalidate(r.Context(), cache.Blogs)
		s.audit(r, "create", "blog_post", res.Data.ID, map[string]string{"slug": res.Data.Slug})
	}
	WriteResult(w, http.StatusCreated, res)
}

func (s *Server) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	current := s.Store.GetBlogPost(r.Context(), id)
	if !current.Success {
		WriteResult(w, http.StatusOK, current)
		return
	}
	post := current.Data
	if !decodeJSON(w, r, &post) {
		return
	}
	res := s.Store.UpdateBlogPost(r.Context(), id, post)
	if res.Success {
		s.invalidate(r.Context(), cache.Blogs)
		s.audit(r, "update", "blog_post", id, nil)
	}
	WriteResult(w, http.StatusOK, res)
}

func (s *Server) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res := s.Store.DeleteBlogPost(r.Context(), id)
	if res.Success {
		s.invalidate(r.Context(), cache.Blogs)
		s.audit(r, "delete", "blog_post", id, nil)
	}
	WriteResult(w, http.StatusOK, res)
}
