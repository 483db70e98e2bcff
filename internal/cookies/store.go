// Package cookies persists small named string values in the visitor's browser.
//
// Values are written with Path=/ and SameSite=Lax and an expiry expressed in days.
// They are query-escaped on the way in so serialized JSON survives the cookie
// value grammar, and unescaped on the way out.
package cookies

import (
	"net/url"
	"time"
)

// Store gets, sets and deletes named values. Storage is assumed always available, so
// there are no error returns.
type Store interface {
	Set(name, value string, days int)
	Get(name string) (string, bool)
	Delete(name string)
}

// Path is the scope every cookie is written with.
const Path = "/"

// epoch is the expiry used to delete a cookie.
var epoch = time.Unix(0, 0).UTC()

func expiry(now time.Time, days int) time.Time {
	return now.Add(time.Duration(days) * 24 * time.Hour)
}

func encode(value string) string {
	return url.QueryEscape(value)
}

func decode(raw string) string {
	v, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return v
}
