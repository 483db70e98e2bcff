// Package catalog loads the static listings of the site from YAML.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"classifieds/internal/i18n"
	"classifieds/internal/listings/models"
	"classifieds/pkg/platform/sentinel"
)

//go:embed default.yaml
var defaultCatalog []byte

type term struct {
	Value string `yaml:"value"`
	En    string `yaml:"en"`
}

type file struct {
	Categories []term           `yaml:"categories"`
	Conditions []term           `yaml:"conditions"`
	Listings   []models.Listing `yaml:"listings"`
}

// Catalog is an immutable, ordered set of listings plus the choice lists of the
// filter controls.
type Catalog struct {
	listings   []models.Listing
	byID       map[int]int
	categories []term
	conditions []term
}

// Load reads the catalog at path, or the embedded default catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		listings:   f.Listings,
		byID:       make(map[int]int, len(f.Listings)),
		categories: f.Categories,
		conditions: f.Conditions,
	}
	for i, l := range f.Listings {
		if l.ID <= 0 {
			return nil, fmt.Errorf("listing #%d: id must be positive: %w", i, sentinel.ErrInvalidInput)
		}
		if l.Title == "" {
			return nil, fmt.Errorf("listing %d: title is required: %w", l.ID, sentinel.ErrInvalidInput)
		}
		if _, dup := c.byID[l.ID]; dup {
			return nil, fmt.Errorf("listing %d: duplicate id: %w", l.ID, sentinel.ErrInvalidInput)
		}
		c.byID[l.ID] = i
	}
	return c, nil
}

// All returns every listing in catalog order.
func (c *Catalog) All() []models.Listing {
	return slices.Clone(c.listings)
}

// Featured returns the first n listings.
func (c *Catalog) Featured(n int) []models.Listing {
	n = max(0, min(n, len(c.listings)))
	return slices.Clone(c.listings[:n])
}

func (c *Catalog) Count() int {
	return len(c.listings)
}

// ByID returns the listing with id, or sentinel.ErrNotFound.
func (c *Catalog) ByID(id int) (models.Listing, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Listing{}, fmt.Errorf("listing %d: %w", id, sentinel.ErrNotFound)
	}
	return c.listings[i], nil
}

// Categories returns the category choices labeled for locale.
func (c *Catalog) Categories(locale i18n.Locale) []models.Option {
	return options(c.categories, locale)
}

// Conditions returns the condition choices labeled for locale.
func (c *Catalog) Conditions(locale i18n.Locale) []models.Option {
	return options(c.conditions, locale)
}

func options(terms []term, locale i18n.Locale) []models.Option {
	out := make([]models.Option, 0, len(terms))
	for _, t := range terms {
		label := t.Value
		if locale == i18n.English && t.En != "" {
			label = t.En
		}
		out = append(out, models.Option{Value: t.Value, Label: label})
	}
	return out
}
