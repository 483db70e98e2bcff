// Package filter computes which listing cards match the current filter controls.
package filter

import (
	"strings"

	"classifieds/internal/listings/models"
)

// Result is the outcome of one filter pass. Visible is indexed like the input cards.
type Result struct {
	Visible []bool `json:"-"`
	Count   int    `json:"count"`
}

// Empty reports whether no card matched.
func (r Result) Empty() bool {
	return r.Count == 0
}

// Match reports whether card satisfies every non-empty criterion. Search and location
// are substring matches on lower-cased terms; the card title is compared as stored
// and the card location is lower-cased. Category and condition must match exactly.
func Match(card models.Card, criteria models.Criteria) bool {
	c := criteria.Normalize()
	if c.SearchTerm != "" && !strings.Contains(card.Title, c.SearchTerm) {
		return false
	}
	if c.Category != "" && card.Category != c.Category {
		return false
	}
	if c.Condition != "" && card.Condition != c.Condition {
		return false
	}
	if c.LocationTerm != "" && !strings.Contains(strings.ToLower(card.Location), c.LocationTerm) {
		return false
	}
	return true
}

// Apply runs one linear pass over cards.
func Apply(cards []models.Card, criteria models.Criteria) Result {
	res := Result{Visible: make([]bool, len(cards))}
	for i, card := range cards {
		if Match(card, criteria) {
			res.Visible[i] = true
			res.Count++
		}
	}
	return res
}

// Listings returns the listings whose card matches criteria, in order.
func Listings(listings []models.Listing, criteria models.Criteria) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if Match(l.Card(), criteria) {
			out = append(out, l)
		}
	}
	return out
}
