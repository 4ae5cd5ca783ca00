// Package localize resolves Turkish/English content for display.
package localize

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type Language string

const (
	TR Language = "TR"
	EN Language = "EN"
)

const LangParam = "lang"

var matcher = language.NewMatcher([]language.Tag{language.Turkish, language.English})

// Default is the site language when nothing else is known.
func Default() Language {
	return TR
}

// ParseLanguage accepts "tr", "TR", "en-US", "English"-style tags and falls
// back to the default language.
func ParseLanguage(raw string) Language {
	lang, ok := parse(raw)
	if !ok {
		return Default()
	}
	return lang
}

func parse(raw string) (Language, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	switch strings.ToUpper(value) {
	case "TR":
		return TR, true
	case "EN":
		return EN, true
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	return fromTag(tag)
}

func fromTag(tag language.Tag) (Language, bool) {
	base, _ := tag.Base()
	switch base.String() {
	case "tr":
		return TR, true
	case "en":
		return EN, true
	}
	return "", false
}

// ResolveRequest picks the language from ?lang=, then Accept-Language.
func ResolveRequest(r *http.Request) Language {
	if r == nil {
		return Default()
	}
	if lang, ok := parse(r.URL.Query().Get(LangParam)); ok {
		return lang
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		tags, _, err := language.ParseAcceptLanguage(accept)
		if err == nil && len(tags) > 0 {
			_, index, confidence := matcher.Match(tags...)
			if confidence != language.No {
				if index == 1 {
					return EN
				}
				return TR
			}
		}
	}
	return Default()
}

// Text is a bilingual value. Default holds the untranslated base value.
type Text struct {
	Default string `json:"default,omitempty"`
	TR      string `json:"tr,omitempty"`
	EN      string `json:"en,omitempty"`
}

func NewText(base string, tr, en *string) Text {
	return Text{Default: base, TR: deref(tr), EN: deref(en)}
}

func (t Text) variant(lang Language) string {
	if lang == TR {
		return t.TR
	}
	return t.EN
}

func (t Text) other(lang Language) string {
	if lang == TR {
		return t.EN
	}
	return t.TR
}

// In selects the variant for lang only when both variants exist. A value
// missing one variant resolves the same way for every language.
func (t Text) In(lang Language) string {
	if t.TR != "" && t.EN != "" {
		return t.variant(lang)
	}
	if t.Default != "" {
		return t.Default
	}
	if t.TR != "" {
		return t.TR
	}
	return t.EN
}

// Display walks requested variant, base value, other variant, placeholder.
func (t Text) Display(lang Language, placeholder string) string {
	for _, candidate := range []string{t.variant(lang), t.Default, t.other(lang)} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return placeholder
}

func (t Text) IsZero() bool {
	return t.Default == "" && t.TR == "" && t.EN == ""
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
