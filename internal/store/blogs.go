package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"eventhubble-backend-go/internal/models"
)

const blogColumns = `id, title, title_tr, title_en, excerpt, excerpt_tr, excerpt_en, content, content_tr,
  content_en, category, image_url, slug, author, is_published, is_featured, meta_title,
  meta_description, published_at, created_at, updated_at`

const blogNotFound = "Blog post not found"

type BlogFilters struct {
	Category      string
	Search        string
	Featured      *bool
	IncludeDrafts bool
	Limit         int
	Offset        int
}

func (s *Store) GetBlogPosts(ctx context.Context, filters BlogFilters) Result[[]models.BlogPost] {
	w := &where{}
	if !filters.IncludeDrafts {
		w.raw("is_published = TRUE")
	}
	if category := strings.TrimSpace(filters.Category); category != "" {
		w.add("category = $%d", category)
	}
	if filters.Featured != nil {
		w.add("is_featured = $%d", *filters.Featured)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		w.add(`(lower(title) LIKE $%[1]d OR lower(COALESCE(title_tr, '')) LIKE $%[1]d
  OR lower(COALESCE(title_en, '')) LIKE $%[1]d OR lower(excerpt) LIKE $%[1]d)`, likePattern(search))
	}
	query := `SELECT ` + blogColumns + ` FROM blog_posts` + w.sql() +
		` ORDER BY COALESCE(published_at, created_at) DESC` + w.page(filters.Limit, filters.Offset, 20, 100)

	posts := []models.BlogPost{}
	if err := s.db.SelectContext(ctx, &posts, query, w.args...); err != nil {
		return failure[[]models.BlogPost]("get blog posts", err, "")
	}
	return Ok(posts)
}

func (s *Store) GetBlogPost(ctx context.Context, id string) Result[models.BlogPost] {
	var post models.BlogPost
	err := s.db.GetContext(ctx, &post, `SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return failure[models.BlogPost]("get blog post", err, blogNotFound)
	}
	return Ok(post)
}

func (s *Store) GetBlogPostBySlug(ctx context.Context, slug string) Result[models.BlogPost] {
	var post models.BlogPost
	err := s.db.GetContext(ctx, &post, `SELECT `+blogColumns+` FROM blog_posts WHERE slug = $1`, strings.TrimSpace(slug))
	if err != nil {
		return failure[models.BlogPost]("get blog post by slug", err, blogNotFound)
	}
	return Ok(post)
}

func normalizeBlogPost(post *models.BlogPost) string {
	post.Title = strings.TrimSpace(post.Title)
	post.Category = strings.TrimSpace(post.Category)
	post.Author = strings.TrimSpace(post.Author)
	post.Slug = strings.TrimSpace(post.Slug)
	post.ImageURL = trimmedPtr(post.ImageURL)
	if post.Author == "" {
		post.Author = "EventHubble"
	}
	if post.Title == "" {
		return "Title is required"
	}
	return ""
}

func (s *Store) CreateBlogPost(ctx context.Context, post models.BlogPost) Result[models.BlogPost] {
	if msg := normalizeBlogPost(&post); msg != "" {
		return Fail[models.BlogPost](KindInvalid, msg)
	}
	if strings.TrimSpace(post.ID) == "" {
		post.ID = uuid.NewString()
	}
	label := post.Slug
	if label == "" {
		label = post.Title
	}
	slug, err := s.resolveSlug(ctx, "blog_posts", "slug", label)
	if err != nil {
		return failure[models.BlogPost]("resolve slug", err, "")
	}
	now := s.now()
	if post.IsPublished && post.PublishedAt == nil {
		post.PublishedAt = &now
	}
	var created models.BlogPost
	err = s.db.GetContext(ctx, &created, `
INSERT INTO blog_posts (
  id, title, title_tr, title_en, excerpt, excerpt_tr, excerpt_en, content, content_tr, content_en,
  category, image_url, slug, author, is_published, is_featured, meta_title, meta_description,
  published_at, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$20)
RETURNING `+blogColumns,
		post.ID, post.Title, post.TitleTR, post.TitleEN, post.Excerpt, post.ExcerptTR, post.ExcerptEN,
		post.Content, post.ContentTR, post.ContentEN, post.Category, post.ImageURL, slug, post.Author,
		post.IsPublished, post.IsFeatured, post.MetaTitle, post.MetaDescription, post.PublishedAt, now)
	if err != nil {
		return failure[models.BlogPost]("create blog post", err, "")
	}
	return Ok(created)
}

// UpdateBlogPost keeps the stored slug unless a different one is supplied.
// Publishing for the first time stamps published_at.
func (s *Store) UpdateBlogPost(ctx context.Context, id string, post models.BlogPost) Result[models.BlogPost] {
	if msg := normalizeBlogPost(&post); msg != "" {
		return Fail[models.BlogPost](KindInvalid, msg)
	}
	current := s.GetBlogPost(ctx, id)
	if !current.Success {
		return current
	}
	slug := current.Data.Slug
	if post.Slug != "" && Slugify(post.Slug) != slug {
		resolved, err := s.resolveSlug(ctx, "blog_posts", "slug", post.Slug)
		if err != nil {
			return failure[models.BlogPost]("resolve slug", err, "")
		}
		slug = resolved
	}
	now := s.now()
	publishedAt := current.Data.PublishedAt
	if post.IsPublished && publishedAt == nil {
		publishedAt = &now
	}
	var updated models.BlogPost
	err := s.db.GetContext(ctx, &updated, `
UPDATE blog_posts SET
  title = $2, title_tr = $3, title_en = $4, excerpt = $5, excerpt_tr = $6, excerpt_en = $7,
  content = $8, content_tr = $9, content_en = $10, category = $11, image_url = $12, slug = $13,
  author = $14, is_published = $15, is_featured = $16, meta_title = $17, meta_description = $18,
  published_at = $19, updated_at = $20
WHERE id = $1
RETURNING `+blogColumns,
		id, post.Title, post.TitleTR, post.TitleEN, post.Excerpt, post.ExcerptTR, post.ExcerptEN,
		post.Content, post.ContentTR, post.ContentEN, post.Category, post.ImageURL, slug, post.Author,
		post.IsPublished, post.IsFeatured, post.MetaTitle, post.MetaDescription, publishedAt, now)
	if err != nil {
		return failure[models.BlogPost]("update blog post", err, blogNotFound)
	}
	return Ok(updated)
}

func (s *Store) DeleteBlogPost(ctx context.Context, id string) Result[bool] {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return failure[bool]("delete blog post", err, "")
	}
	return affectedOne(res, true, blogNotFound)
}
