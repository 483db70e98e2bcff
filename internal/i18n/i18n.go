// Package i18n negotiates the page locale and formats locale-dependent values.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale is a supported page locale.
type Locale string

const (
	French  Locale = "fr"
	English Locale = "en"

	Default = French

	// QueryParam and CookieName carry an explicit locale choice.
	QueryParam = "lang"
	CookieName = "locale"
)

var (
	supported = []language.Tag{language.French, language.English}
	matcher   = language.NewMatcher(supported)
)

// Parse accepts "fr" or "en", case-insensitively.
func Parse(s string) (Locale, bool) {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case French:
		return French, true
	case English:
		return English, true
	default:
		return "", false
	}
}

// Negotiate picks the locale for r: the lang query parameter first, then the locale
// cookie, then the Accept-Language header, then fallback.
func Negotiate(r *http.Request, fallback Locale) Locale {
	if loc, ok := Parse(r.URL.Query().Get(QueryParam)); ok {
		return loc
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if loc, ok := Parse(c.Value); ok {
			return loc
		}
	}
	if loc, ok := FromAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return loc
	}
	if _, ok := Parse(string(fallback)); ok {
		return fallback
	}
	return Default
}

// FromAcceptLanguage matches an Accept-Language header against the supported locales.
func FromAcceptLanguage(header string) (Locale, bool) {
	if header == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	return Parse(supported[index].String())
}

// Tag returns the language tag of loc.
func (l Locale) Tag() language.Tag {
	if l == English {
		return language.English
	}
	return language.French
}

// FormatPrice renders a price in euro cents. A nil amount means the price is on quote.
func FormatPrice(cents *int64, loc Locale) string {
	if cents == nil {
		return T(loc, "price.on_quote")
	}
	p := message.NewPrinter(loc.Tag())
	amount := number.Decimal(float64(*cents)/100, number.Scale(2))
	if loc == English {
		return "€" + p.Sprint(amount)
	}
	return p.Sprint(amount) + " €"
}
