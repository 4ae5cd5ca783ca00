package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Turkey has stayed on UTC+3 all year since 2016.
var turkeyTime = time.FixedZone("TRT", 3*60*60)

var months = map[string]time.Month{
	"ocak": time.January, "oca": time.January, "january": time.January, "jan": time.January,
	"şubat": time.February, "şub": time.February, "subat": time.February, "february": time.February, "feb": time.February,
	"mart": time.March, "mar": time.March, "march": time.March,
	"nisan": time.April, "nis": time.April, "april": time.April, "apr": time.April,
	"mayıs": time.May, "mayis": time.May, "may": time.May,
	"haziran": time.June, "haz": time.June, "june": time.June, "jun": time.June,
	"temmuz": time.July, "tem": time.July, "july": time.July, "jul": time.July,
	"ağustos": time.August, "ağu": time.August, "agustos": time.August, "august": time.August, "aug": time.August,
	"eylül": time.September, "eyl": time.September, "eylul": time.September, "september": time.September, "sep": time.September, "sept": time.September,
	"ekim": time.October, "eki": time.October, "october": time.October, "oct": time.October,
	"kasım": time.November, "kas": time.November, "kasim": time.November, "november": time.November, "nov": time.November,
	"aralık": time.December, "ara": time.December, "aralik": time.December, "december": time.December, "dec": time.December,
}

var (
	isoDate     = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})(?:[T ](\d{2}):(\d{2}))?`)
	numericDate = regexp.MustCompile(`(\d{1,2})[./](\d{1,2})[./](\d{4})(?:\D+?(\d{1,2})[:.](\d{2}))?`)
	wordDate    = regexp.MustCompile(`(\d{1,2})\s+(\p{L}+)\.?(?:\s+(\d{4}))?(?:\D+?(\d{1,2})[:.](\d{2}))?`)
	amount      = regexp.MustCompile(`\d[\d.,]*`)
	tlWord      = regexp.MustCompile(`(?i)\b(tl|try)\b`)
)

var lowerTR = cases.Lower(language.Turkish)

// ParseDate reads the first date in text. Accepted shapes are ISO dates,
// dd.mm.yyyy and "14 Mart 2025 20:30" style dates in Turkish or English,
// each with an optional time. Times without an offset are Turkish local
// time. A day and month without a year resolve to the next such date on or
// after yesterday.
func ParseDate(text string, now time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339, text); err == nil {
		return parsed.UTC(), true
	}
	if m := isoDate.FindStringSubmatch(text); m != nil {
		return build(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), m[4], m[5])
	}
	if m := numericDate.FindStringSubmatch(text); m != nil {
		return build(atoi(m[3]), time.Month(atoi(m[2])), atoi(m[1]), m[4], m[5])
	}
	for _, m := range wordDate.FindAllStringSubmatch(lowerTR.String(text), -1) {
		month, ok := months[m[2]]
		if !ok {
			continue
		}
		day := atoi(m[1])
		if m[3] != "" {
			return build(atoi(m[3]), month, day, m[4], m[5])
		}
		local := now.In(turkeyTime)
		parsed, ok := build(local.Year(), month, day, m[4], m[5])
		if !ok {
			return time.Time{}, false
		}
		if parsed.Before(now.AddDate(0, 0, -1)) {
			return build(local.Year()+1, month, day, m[4], m[5])
		}
		return parsed, true
	}
	return time.Time{}, false
}

func build(year int, month time.Month, day int, hour, minute string) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	hh, mm := 0, 0
	if hour != "" {
		hh, mm = atoi(hour), atoi(minute)
		if hh > 23 || mm > 59 {
			return time.Time{}, false
		}
	}
	parsed := time.Date(year, month, day, hh, mm, 0, 0, turkeyTime)
	if parsed.Day() != day {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}

func atoi(value string) int {
	n, _ := strconv.Atoi(value)
	return n
}

// ParsePrice extracts the lowest and highest amounts and the currency from a
// price label such as "150 - 300 TL" or "₺1.250,50". Free events yield zero
// for both bounds. Currency is empty when the label does not name one.
func ParsePrice(text string) (*float64, *float64, string) {
	lowered := lowerTR.String(strings.TrimSpace(text))
	if lowered == "" {
		return nil, nil, ""
	}
	currency := detectCurrency(lowered)
	for _, word := range []string{"ücretsiz", "free", "bedava"} {
		if strings.Contains(lowered, word) {
			zero := 0.0
			return &zero, &zero, currency
		}
	}
	var lo, hi *float64
	for _, match := range amount.FindAllString(lowered, -1) {
		value, ok := parseAmount(match)
		if !ok {
			continue
		}
		if lo == nil || value < *lo {
			v := value
			lo = &v
		}
		if hi == nil || value > *hi {
			v := value
			hi = &v
		}
	}
	return lo, hi, currency
}

func detectCurrency(text string) string {
	switch {
	case strings.Contains(text, "₺") || tlWord.MatchString(text):
		return "TRY"
	case strings.Contains(text, "€") || strings.Contains(text, "eur"):
		return "EUR"
	case strings.Contains(text, "$") || strings.Contains(text, "usd"):
		return "USD"
	case strings.Contains(text, "£") || strings.Contains(text, "gbp"):
		return "GBP"
	}
	return ""
}

// parseAmount accepts both 1.250,50 and 1,250.50; a lone separator followed
// by exactly three digits is a thousands separator.
func parseAmount(raw string) (float64, bool) {
	raw = strings.TrimRight(raw, ".,")
	lastDot := strings.LastIndex(raw, ".")
	lastComma := strings.LastIndex(raw, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimal := "."
		thousands := ","
		if lastComma > lastDot {
			decimal, thousands = ",", "."
		}
		raw = strings.ReplaceAll(raw, thousands, "")
		raw = strings.Replace(raw, decimal, ".", 1)
	case lastDot >= 0 || lastComma >= 0:
		sep := "."
		idx := lastDot
		if lastComma >= 0 {
			sep, idx = ",", lastComma
		}
		if strings.Count(raw, sep) > 1 || len(raw)-idx-1 == 3 {
			raw = strings.ReplaceAll(raw, sep, "")
		} else {
			raw = strings.Replace(raw, sep, ".", 1)
		}
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
