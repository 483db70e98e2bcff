package dom

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"classifieds/internal/consent/effects"
	"classifieds/internal/consent/models"
)

const (
	FlagsScriptID   = "consent-flags"
	EventScriptAttr = "data-consent-event"
)

// Flags writes window-level flags into an inline script at the top of <head>, so that
// analytics snippets later in the page see them.
type Flags struct {
	doc    *goquery.Document
	order  []string
	values map[string]bool
}

func NewFlags(doc *goquery.Document) *Flags {
	return &Flags{doc: doc, values: make(map[string]bool)}
}

func (f *Flags) SetFlag(name string, value bool) {
	if _, seen := f.values[name]; !seen {
		f.order = append(f.order, name)
	}
	f.values[name] = value

	script := f.doc.Find("#" + FlagsScriptID)
	if script.Length() == 0 {
		f.doc.Find("head").First().PrependHtml(`<script id="` + FlagsScriptID + `"></script>`)
		script = f.doc.Find("#" + FlagsScriptID)
	}
	var b strings.Builder
	for _, n := range f.order {
		key, _ := json.Marshal(n)
		fmt.Fprintf(&b, "window[%s] = %t;\n", key, f.values[n])
	}
	script.SetText(b.String())
}

// Value reports the last value set for name.
func (f *Flags) Value(name string) (value, ok bool) {
	value, ok = f.values[name]
	return value, ok
}

// EventScript appends a script dispatching the consent notification as a DOM
// CustomEvent, for page scripts listening on window.
type EventScript struct {
	doc *goquery.Document
}

func NewEventScript(doc *goquery.Document) *EventScript {
	return &EventScript{doc: doc}
}

func (e *EventScript) Notify(_ context.Context, n models.Notification) {
	name, err := json.Marshal(n.Name)
	if err != nil {
		return
	}
	detail, err := json.Marshal(n.Preferences)
	if err != nil {
		return
	}
	body := e.doc.Find("body").First()
	body.AppendHtml(`<script ` + EventScriptAttr + `></script>`)
	body.ChildrenFiltered("script[" + EventScriptAttr + "]").Last().
		SetText(fmt.Sprintf("window.dispatchEvent(new CustomEvent(%s, {detail: %s}));", name, detail))
}

var (
	_ effects.FlagSetter = (*Flags)(nil)
	_ effects.Notifier   = (*EventScript)(nil)
)
