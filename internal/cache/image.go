package cache

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"
)

const maxImageBytes = 5 << 20

// GetCachedImage returns url's content as a base64 data URI. When the
// download fails it falls back to any cached copy, then to url itself, so
// the result is always usable as an image src.
func (c *Cache) GetCachedImage(ctx context.Context, url, cacheKey string, ttl time.Duration) string {
	if cacheKey == "" {
		cacheKey = Key(Images, url)
	}
	value, err := c.GetString(ctx, cacheKey, ttl, func(ctx context.Context) (string, error) {
		return c.downloadDataURI(ctx, url)
	})
	if err != nil {
		log.Printf("[CACHE] image %s: %v", url, err)
		return url
	}
	return value
}

func (c *Cache) downloadDataURI(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", fmt.Errorf("fetch image: empty body")
	}
	if len(body) > maxImageBytes {
		return "", fmt.Errorf("fetch image: larger than %d bytes", maxImageBytes)
	}
	return EncodeDataURI(resp.Header.Get("Content-Type"), body), nil
}

// EncodeDataURI builds a data URI, sniffing the type when the header is
// missing or generic.
func EncodeDataURI(contentType string, body []byte) string {
	mediaType := ""
	if contentType != "" {
		if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = parsed
		}
	}
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = http.DetectContentType(body)
		if idx := strings.Index(mediaType, ";"); idx >= 0 {
			mediaType = mediaType[:idx]
		}
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(body)
}
