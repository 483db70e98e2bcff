// Package dom mounts the consent overlays into a server-rendered goquery document and
// writes the analytics flags and consent events as inline scripts.
package dom

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"classifieds/internal/consent/ui"
	"classifieds/internal/i18n"
)

const (
	StylesID          = "cookie-consent-styles"
	BannerClass       = "cookie-consent-banner"
	ModalClass        = "cookie-consent-modal"
	BackdropClass     = "cookie-consent-backdrop"
	ShowClass         = "show"
	AnalyticsToggleID = "toggle-analytics"
	StripeToggleID    = "toggle-stripe"

	DefaultBasePath   = "/consent"
	DefaultPolicyPath = "/cookies"
)

//go:embed templates
var assets embed.FS

var (
	overlays = template.Must(template.ParseFS(assets, "templates/*.tmpl"))
	styles   = mustRead("templates/styles.css")
)

func mustRead(name string) string {
	b, err := assets.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

type overlayView struct {
	T          func(string) string
	Base       string
	PolicyPath string
}

type Option func(*OverlayRenderer)

// OverlayRenderer implements ui.Renderer over a goquery document.
type OverlayRenderer struct {
	doc    *goquery.Document
	view   overlayView
	logger *slog.Logger
}

func NewOverlayRenderer(doc *goquery.Document, locale i18n.Locale, opts ...Option) *OverlayRenderer {
	r := &OverlayRenderer{
		doc: doc,
		view: overlayView{
			T:          i18n.Translator(locale),
			Base:       DefaultBasePath,
			PolicyPath: DefaultPolicyPath,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithBasePath sets the path prefix the overlay forms post to.
func WithBasePath(base string) Option {
	return func(r *OverlayRenderer) {
		if base != "" {
			r.view.Base = base
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *OverlayRenderer) {
		r.logger = logger
	}
}

func (r *OverlayRenderer) InjectStyles() {
	if r.doc.Find("#"+StylesID).Length() > 0 {
		return
	}
	head := r.doc.Find("head").First()
	head.AppendHtml(`<style id="` + StylesID + `"></style>`)
	head.Find("#" + StylesID).SetText(styles)
}

func (r *OverlayRenderer) MountBanner() ui.Overlay {
	return &element{sel: r.mount("banner", BannerClass)}
}

func (r *OverlayRenderer) MountModal() ui.ToggleOverlay {
	return &modalElement{element{sel: r.mount("modal", ModalClass)}}
}

func (r *OverlayRenderer) mount(name, class string) *goquery.Selection {
	var buf bytes.Buffer
	if err := overlays.ExecuteTemplate(&buf, name, r.view); err != nil {
		if r.logger != nil {
			r.logger.Error("failed to render consent overlay", "overlay", name, "error", err)
		}
		return r.doc.Find("." + class).Slice(0, 0)
	}
	body := r.doc.Find("body").First()
	body.AppendHtml(buf.String())
	return body.ChildrenFiltered("." + class).Last()
}

type element struct {
	sel *goquery.Selection
}

func (e *element) SetShown(shown bool) {
	if shown {
		e.sel.AddClass(ShowClass)
		return
	}
	e.sel.RemoveClass(ShowClass)
}

func (e *element) Remove() {
	e.sel.Remove()
}

type modalElement struct {
	element
}

func (m *modalElement) SetToggles(analytics, stripe bool) {
	setChecked(m.sel.Find("#"+AnalyticsToggleID), analytics)
	setChecked(m.sel.Find("#"+StripeToggleID), stripe)
}

func (m *modalElement) Toggles() (bool, bool) {
	_, analytics := m.sel.Find("#" + AnalyticsToggleID).Attr("checked")
	_, stripe := m.sel.Find("#" + StripeToggleID).Attr("checked")
	return analytics, stripe
}

func setChecked(sel *goquery.Selection, checked bool) {
	if checked {
		sel.SetAttr("checked", "")
		return
	}
	sel.RemoveAttr("checked")
}

var _ ui.Renderer = (*OverlayRenderer)(nil)
