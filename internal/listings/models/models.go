package models

import (
	"strconv"
	"strings"
)

// Listing types.
const (
	TypeEquipment = "equipment"
	TypePart      = "part"
)

// Listing is one classified ad of the catalog.
type Listing struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Category    string `yaml:"category" json:"category"`
	Condition   string `yaml:"condition" json:"condition"`
	Location    string `yaml:"location" json:"location"`
	Type        string `yaml:"type" json:"type"`
	PriceCents  *int64 `yaml:"price_cents" json:"price_cents,omitempty"`
	Description string `yaml:"description" json:"description"`
}

// Card returns the filterable attributes of l as the page renders them: the title
// is lower-cased, the other attributes are kept as stored.
func (l Listing) Card() Card {
	return Card{
		ID:        strconv.Itoa(l.ID),
		Title:     strings.ToLower(l.Title),
		Category:  l.Category,
		Condition: l.Condition,
		Location:  l.Location,
	}
}

// Card is one rendered item of the listings grid.
type Card struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Condition string `json:"condition"`
	Location  string `json:"location"`
}

// Criteria are the filter control values of one pass. Empty fields match everything.
type Criteria struct {
	SearchTerm   string `json:"search"`
	Category     string `json:"category"`
	Condition    string `json:"condition"`
	LocationTerm string `json:"location"`
}

// Normalize lower-cases the free-text terms.
func (c Criteria) Normalize() Criteria {
	c.SearchTerm = strings.ToLower(c.SearchTerm)
	c.LocationTerm = strings.ToLower(c.LocationTerm)
	return c
}

// Empty reports whether no criterion is set.
func (c Criteria) Empty() bool {
	return c == Criteria{}
}

// Option is one entry of a category or condition choice list.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"-" json:"label"`
}
