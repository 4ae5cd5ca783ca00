package store

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	turkishLower  = cases.Lower(language.Turkish)
	transliterate = strings.NewReplacer(
		"ı", "i", "ğ", "g", "ü", "u", "ş", "s", "ö", "o", "ç", "c",
		"â", "a", "î", "i", "û", "u",
	)
)

// Slugify lowercases with Turkish casing rules and folds Turkish letters to
// ASCII so "İstanbul Caz Festivali" becomes "istanbul-caz-festivali".
func Slugify(value string) string {
	lower := transliterate.Replace(turkishLower.String(strings.TrimSpace(value)))
	var b strings.Builder
	lastDash := false
	for _, r := range lower {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return uuid.NewString()
	}
	return slug
}

// resolveSlug returns the first free "<base>", "<base>-2", ... value for a
// unique text column.
func (s *Store) resolveSlug(ctx context.Context, table, column, label string) (string, error) {
	base := Slugify(label)
	candidate := base
	counter := 2
	for {
		var exists bool
		err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE `+column+` = $1)`, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(counter)
		counter++
	}
}

// CleanTags trims, deduplicates and caps a tag list.
func CleanTags(tags []string) []string {
	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		value := strings.TrimSpace(tag)
		key := turkishLower.String(value)
		if value == "" || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, value)
		if len(cleaned) >= 12 {
			break
		}
	}
	return cleaned
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
