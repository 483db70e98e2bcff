package models

import (
	"encoding/json"
	"time"
)

// CookieName is the default name of the cookie holding the consent record.
const CookieName = "cookie_consent"

// RetentionDays is how long a consent record stays valid after it was given (13 months).
const RetentionDays = 395

// NotificationName is the name of the event broadcast whenever preferences are applied.
const NotificationName = "cookieConsentUpdated"

// Preferences is the set of cookie categories a visitor agreed to.
//
// Essential is not user editable: it is always true once normalized, and every encoded
// record carries all three fields.
type Preferences struct {
	Essential bool `json:"essential"`
	Analytics bool `json:"analytics"`
	Stripe    bool `json:"stripe"`
}

// Normalize returns p with Essential forced on.
func (p Preferences) Normalize() Preferences {
	p.Essential = true
	return p
}

// AcceptAll is the choice made by the "accept all" button.
func AcceptAll() Preferences {
	return Preferences{Essential: true, Analytics: true, Stripe: true}
}

// RefuseAll is the choice made by the "refuse all" button.
func RefuseAll() Preferences {
	return Preferences{Essential: true, Analytics: false, Stripe: false}
}

// ModalDefaults pre-fills the customize modal when no record exists.
func ModalDefaults() Preferences {
	return Preferences{Essential: true, Analytics: false, Stripe: true}
}

// Outcome classifies a preference set for logs and metrics.
func (p Preferences) Outcome() string {
	switch {
	case p.Analytics && p.Stripe:
		return "accepted"
	case !p.Analytics && !p.Stripe:
		return "refused"
	default:
		return "partial"
	}
}

// Record is a timestamped preference set, serialized as the consent cookie value.
type Record struct {
	Timestamp   time.Time   `json:"timestamp"`
	Preferences Preferences `json:"preferences"`
}

// NewRecord stamps prefs with at, normalizing Essential.
func NewRecord(prefs Preferences, at time.Time) Record {
	return Record{Timestamp: at.UTC(), Preferences: prefs.Normalize()}
}

// ElapsedDays is the fractional number of days between the record timestamp and now.
func (r Record) ElapsedDays(now time.Time) float64 {
	return now.Sub(r.Timestamp).Hours() / 24
}

// Expired reports whether more than retentionDays have elapsed since the record was made.
func (r Record) Expired(now time.Time, retentionDays int) bool {
	return r.ElapsedDays(now) > float64(retentionDays)
}

type wireRecord struct {
	Timestamp   string           `json:"timestamp"`
	Preferences *wirePreferences `json:"preferences"`
}

type wirePreferences struct {
	Essential *bool `json:"essential"`
	Analytics *bool `json:"analytics"`
	Stripe    *bool `json:"stripe"`
}

// Encode serializes the record with an ISO-8601 UTC timestamp.
func (r Record) Encode() (string, error) {
	p := r.Preferences.Normalize()
	b, err := json.Marshal(wireRecord{
		Timestamp: r.Timestamp.UTC().Format(time.RFC3339Nano),
		Preferences: &wirePreferences{
			Essential: &p.Essential,
			Analytics: &p.Analytics,
			Stripe:    &p.Stripe,
		},
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a cookie value. It reports false for anything that is not a complete
// record: bad JSON, missing or unparsable timestamp, missing preferences.
// Missing analytics or stripe flags decode as refused and accepted respectively.
func Decode(raw string) (Record, bool) {
	var w wireRecord
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Record{}, false
	}
	if w.Timestamp == "" || w.Preferences == nil {
		return Record{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, w.Timestamp)
	if err != nil {
		return Record{}, false
	}
	prefs := Preferences{Essential: true, Stripe: true}
	if w.Preferences.Analytics != nil {
		prefs.Analytics = *w.Preferences.Analytics
	}
	if w.Preferences.Stripe != nil {
		prefs.Stripe = *w.Preferences.Stripe
	}
	return Record{Timestamp: ts, Preferences: prefs}, true
}
