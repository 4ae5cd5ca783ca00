package localize

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	cases := map[string]Language{
		"TR":    TR,
		"tr":    TR,
		"en":    EN,
		"en-US": EN,
		"tr-TR": TR,
		"":      TR,
		"de":    TR,
		"???":   TR,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseLanguage(raw), raw)
	}
}

func TestResolveRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/events?lang=en", nil)
	assert.Equal(t, EN, ResolveRequest(req))

	req = httptest.NewRequest("GET", "/api/events", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9,tr;q=0.5")
	assert.Equal(t, EN, ResolveRequest(req))

	req = httptest.NewRequest("GET", "/api/events", nil)
	req.Header.Set("Accept-Language", "tr-TR")
	assert.Equal(t, TR, ResolveRequest(req))

	req = httptest.NewRequest("GET", "/api/events", nil)
	assert.Equal(t, TR, ResolveRequest(req))
	assert.Equal(t, TR, ResolveRequest(nil))
}

func TestTextInSelectsOnlyWithBothVariants(t *testing.T) {
	both := Text{Default: "base", TR: "Konser", EN: "Concert"}
	assert.Equal(t, "Konser", both.In(TR))
	assert.Equal(t, "Concert", both.In(EN))

	onlyTR := Text{Default: "base", TR: "Konser"}
	assert.Equal(t, "base", onlyTR.In(TR))
	assert.Equal(t, "base", onlyTR.In(EN))

	noBase := Text{EN: "Concert"}
	assert.Equal(t, "Concert", noBase.In(TR))
	assert.Equal(t, "Concert", noBase.In(EN))
}

func TestTextDisplayWaterfall(t *testing.T) {
	assert.Equal(t, "Tiyatro", Text{TR: "Tiyatro", Default: "Theatre"}.Display(TR, "-"))
	assert.Equal(t, "Theatre", Text{TR: "Tiyatro", Default: "Theatre"}.Display(EN, "-"))
	assert.Equal(t, "Tiyatro", Text{TR: "Tiyatro"}.Display(EN, "-"))
	assert.Equal(t, "-", Text{Default: "  "}.Display(EN, "-"))
	assert.True(t, Text{}.IsZero())
}

func TestNewTextDereferences(t *testing.T) {
	tr := "Sergi"
	text := NewText("Exhibition", &tr, nil)
	assert.Equal(t, Text{Default: "Exhibition", TR: "Sergi"}, text)
}
