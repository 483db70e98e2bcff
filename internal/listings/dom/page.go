// Package dom runs the listings filter against a server-rendered goquery document.
package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"classifieds/internal/listings/models"
)

// Control names the id of a filter control element.
type Control string

const (
	ControlSearch    Control = "search"
	ControlCategory  Control = "category"
	ControlCondition Control = "condition"
	ControlLocation  Control = "location"
)

const (
	ContainerID   = "listings-container"
	PlaceholderID = "no-results"
	CardSelector  = ".card"
)

// Page is the listings grid of one document.
type Page struct {
	doc         *goquery.Document
	container   *goquery.Selection
	placeholder *goquery.Selection
	cards       *goquery.Selection
}

// NewPage locates the grid in doc. A page without the container has filtering disabled.
func NewPage(doc *goquery.Document) *Page {
	container := doc.Find("#" + ContainerID).First()
	return &Page{
		doc:         doc,
		container:   container,
		placeholder: doc.Find("#" + PlaceholderID).First(),
		cards:       container.Find(CardSelector),
	}
}

// Enabled reports whether the page has a listings container.
func (p *Page) Enabled() bool {
	return p.container.Length() > 0
}

// Cards reads the data attributes of every card, in document order.
func (p *Page) Cards() []models.Card {
	cards := make([]models.Card, 0, p.cards.Length())
	p.cards.Each(func(_ int, s *goquery.Selection) {
		cards = append(cards, models.Card{
			ID:        s.AttrOr("data-id", ""),
			Title:     s.AttrOr("data-title", ""),
			Category:  s.AttrOr("data-category", ""),
			Condition: s.AttrOr("data-condition", ""),
			Location:  s.AttrOr("data-location", ""),
		})
	})
	return cards
}

// Criteria reads the current control values. Missing controls yield empty criteria.
func (p *Page) Criteria() models.Criteria {
	return models.Criteria{
		SearchTerm:   p.Value(ControlSearch),
		Category:     p.Value(ControlCategory),
		Condition:    p.Value(ControlCondition),
		LocationTerm: p.Value(ControlLocation),
	}
}

// Has reports whether control is present on the page.
func (p *Page) Has(c Control) bool {
	return p.control(c).Length() > 0
}

// Value returns the current value of control, or "" when it is missing. A select
// without a selected option reports its first option, like a browser does.
func (p *Page) Value(c Control) string {
	sel := p.control(c)
	if sel.Length() == 0 {
		return ""
	}
	if goquery.NodeName(sel) != "select" {
		return sel.AttrOr("value", "")
	}
	option := sel.Find("option[selected]").First()
	if option.Length() == 0 {
		option = sel.Find("option").First()
	}
	return optionValue(option)
}

// SetValue writes value into control and reports whether the control exists.
func (p *Page) SetValue(c Control, value string) bool {
	sel := p.control(c)
	if sel.Length() == 0 {
		return false
	}
	if goquery.NodeName(sel) != "select" {
		sel.SetAttr("value", value)
		return true
	}
	sel.Find("option").Each(func(_ int, o *goquery.Selection) {
		if optionValue(o) == value {
			o.SetAttr("selected", "")
		} else {
			o.RemoveAttr("selected")
		}
	})
	return true
}

func (p *Page) control(c Control) *goquery.Selection {
	return p.doc.Find("#" + string(c)).First()
}

func optionValue(o *goquery.Selection) string {
	if v, ok := o.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(o.Text())
}

// setDisplay rewrites the display declaration of the inline style. An empty value
// clears it.
func setDisplay(s *goquery.Selection, value string) {
	var decls []string
	for _, decl := range strings.Split(s.AttrOr("style", ""), ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		prop, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(prop), "display") {
			continue
		}
		decls = append(decls, decl)
	}
	if value != "" {
		decls = append(decls, "display: "+value)
	}
	if len(decls) == 0 {
		s.RemoveAttr("style")
		return
	}
	s.SetAttr("style", strings.Join(decls, "; "))
}

// Display returns the inline display value of s, or "" when unset.
func Display(s *goquery.Selection) string {
	for _, decl := range strings.Split(s.AttrOr("style", ""), ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(prop), "display") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
