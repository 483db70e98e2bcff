// Package site renders the public pages of the classifieds site. Every page goes
// through the consent session, and the listings page through the listings filter.
package site

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"

	consenthandler "classifieds/internal/consent/handler"
	"classifieds/internal/consent/session"
	"classifieds/internal/contact"
	"classifieds/internal/cookies"
	"classifieds/internal/i18n"
	"classifieds/internal/listings/catalog"
	listingsdom "classifieds/internal/listings/dom"
	"classifieds/internal/listings/metrics"
	"classifieds/internal/listings/models"
	"classifieds/internal/platform/middleware"
	"classifieds/internal/platform/tracer"
	dErrors "classifieds/pkg/domain-errors"
	"classifieds/pkg/platform/middleware/requesttime"
	"classifieds/pkg/platform/sentinel"
	"classifieds/pkg/platform/validation"
)

const (
	featuredCount = 6

	// localeCookieDays keeps an explicit ?lang choice for a year.
	localeCookieDays = 365
)

type listingView struct {
	models.Listing
	Attrs models.Card
	Price string
}

type pageData struct {
	Locale  i18n.Locale
	LangURL string
	T       func(string) string
	Title   string

	Count      int
	Featured   []listingView
	Listings   []listingView
	Listing    *listingView
	Categories []models.Option
	Conditions []models.Option
	Criteria   models.Criteria

	Body          string
	ManageCookies bool

	Contact      contact.Message
	Subjects     []models.Option
	ContactSent  bool
	ContactError string
}

type textPage struct {
	title         string
	body          string
	manageCookies bool
}

var textPages = map[string]textPage{
	"/deposer":                   {title: "site.create", body: "site.create_text"},
	"/cookies":                   {title: "site.cookies", body: "site.cookies_text", manageCookies: true},
	"/mentions-legales":          {title: "site.legal", body: "site.legal_text"},
	"/politique-confidentialite": {title: "site.privacy", body: "site.privacy_text"},
	"/cgv":                       {title: "site.terms", body: "site.terms_text"},
}

// contactSubjects are the subject choices offered by the contact form, as value and
// message key.
var contactSubjects = [][2]string{
	{"question-annonce", "contact.subject_listing"},
	{"depot-annonce", "contact.subject_posting"},
	{"paiement", "contact.subject_payment"},
	{"autre", "contact.subject_other"},
}

type Option func(*Handler)

// Handler serves the site pages.
type Handler struct {
	catalog       *catalog.Catalog
	sessions      *session.Factory
	contact       *contact.Service
	defaultLocale i18n.Locale
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        tracer.Tracer
}

func New(cat *catalog.Catalog, sessions *session.Factory, defaultLocale i18n.Locale, opts ...Option) *Handler {
	h := &Handler{
		catalog:       cat,
		sessions:      sessions,
		contact:       contact.NewService(contact.NewLogMailer(nil)),
		defaultLocale: defaultLocale,
		tracer:        tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithContact sets the service behind the contact form. The default only logs.
func WithContact(svc *contact.Service) Option {
	return func(h *Handler) {
		if svc != nil {
			h.contact = svc
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(h *Handler) {
		if t != nil {
			h.tracer = t
		}
	}
}

// Register registers the page routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleHome)
	r.Get("/annonces", h.handleListings)
	r.Get("/annonces/{id}", h.handleDetail)
	r.Get("/contact", h.handleContact)
	r.Post("/contact", h.handleContactSubmit)
	r.Handle("/static/*", staticFiles())
	for path := range textPages {
		r.Get(path, h.handleText)
	}
	r.NotFound(h.handleNotFound)
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	data := h.data(r, "")
	data.Count = h.catalog.Count()
	data.Featured = views(h.catalog.Featured(featuredCount), data.Locale)
	h.render(w, r, http.StatusOK, pageHome, data, nil)
}

// handleListings renders the whole grid and then runs the filter on it with the
// query values, the same way the controls would.
func (h *Handler) handleListings(w http.ResponseWriter, r *http.Request) {
	data := h.data(r, "site.listings")
	data.Listings = views(h.catalog.All(), data.Locale)
	data.Categories = h.catalog.Categories(data.Locale)
	data.Conditions = h.catalog.Conditions(data.Locale)

	q := r.URL.Query()
	data.Criteria = models.Criteria{
		SearchTerm:   q.Get("search"),
		Category:     q.Get("category"),
		Condition:    q.Get("condition"),
		LocationTerm: q.Get("location"),
	}

	h.render(w, r, http.StatusOK, pageListings, data, func(doc *goquery.Document) {
		page := listingsdom.NewPage(doc)
		page.SetValue(listingsdom.ControlSearch, data.Criteria.SearchTerm)
		page.SetValue(listingsdom.ControlCategory, data.Criteria.Category)
		page.SetValue(listingsdom.ControlCondition, data.Criteria.Condition)
		page.SetValue(listingsdom.ControlLocation, data.Criteria.LocationTerm)
		filter := listingsdom.NewFilter(page,
			listingsdom.WithLogger(h.logger),
			listingsdom.WithMetrics(h.metrics),
			listingsdom.WithTracer(h.tracer),
		)
		filter.Run(r.Context())
	})
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.handleNotFound(w, r)
		return
	}
	listing, err := h.catalog.ByID(id)
	if errors.Is(err, sentinel.ErrNotFound) {
		if h.metrics != nil {
			h.metrics.IncrementNotFound()
		}
		h.handleNotFound(w, r)
		return
	}
	if err != nil {
		h.renderFailed(w, r, "failed to load listing", err)
		return
	}

	data := h.data(r, "")
	data.Title = listing.Title
	v := view(listing, data.Locale)
	data.Listing = &v
	data.Listings = views(h.catalog.Featured(featuredCount), data.Locale)
	h.render(w, r, http.StatusOK, pageDetail, data, nil)
}

func (h *Handler) handleText(w http.ResponseWriter, r *http.Request) {
	page, ok := textPages[r.URL.Path]
	if !ok {
		h.handleNotFound(w, r)
		return
	}
	data := h.data(r, page.title)
	data.Body = data.T(page.body)
	data.ManageCookies = page.manageCookies
	h.render(w, r, http.StatusOK, pageText, data, nil)
}

func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	data := h.contactData(r)
	if id, err := strconv.Atoi(r.URL.Query().Get("ref")); err == nil && id > 0 {
		data.Contact.Reference = "#" + strconv.Itoa(id)
	}
	h.render(w, r, http.StatusOK, pageContact, data, nil)
}

// handleContactSubmit sends the message and renders the confirmation, or the filled
// form with an error.
func (h *Handler) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	data := h.contactData(r)
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxContactBodySize)
	if err := r.ParseForm(); err != nil {
		data.ContactError = data.T("contact.invalid")
		h.render(w, r, http.StatusBadRequest, pageContact, data, nil)
		return
	}

	msg, err := h.contact.Submit(r.Context(), r.PostForm)
	status := http.StatusOK
	switch {
	case err == nil:
		data.ContactSent = true
	case dErrors.HasCode(err, dErrors.CodeValidation):
		status = http.StatusBadRequest
		data.Contact = msg
		data.ContactError = data.T("contact.invalid")
		if h.logger != nil {
			h.logger.InfoContext(r.Context(), "contact form rejected",
				"request_id", middleware.GetRequestID(r.Context()),
				"error", err,
			)
		}
	default:
		status = http.StatusBadGateway
		data.Contact = msg
		data.ContactError = data.T("contact.failed")
		if h.logger != nil {
			h.logger.ErrorContext(r.Context(), "failed to send contact message",
				"request_id", middleware.GetRequestID(r.Context()),
				"error", err,
			)
		}
	}
	h.render(w, r, status, pageContact, data, nil)
}

func (h *Handler) contactData(r *http.Request) pageData {
	data := h.data(r, "contact.title")
	for _, s := range contactSubjects {
		data.Subjects = append(data.Subjects, models.Option{Value: s[0], Label: data.T(s[1])})
	}
	return data
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	data := h.data(r, "site.not_found")
	h.render(w, r, http.StatusNotFound, pageNotFound, data, nil)
}

func (h *Handler) data(r *http.Request, titleKey string) pageData {
	locale := i18n.Negotiate(r, h.defaultLocale)
	data := pageData{Locale: locale, LangURL: langURL(r, locale), T: i18n.Translator(locale)}
	if titleKey != "" {
		data.Title = data.T(titleKey)
	}
	return data
}

// render executes the page, parses it, lets decorate and the consent session
// work on the document, then writes it. Cookies set by the session go out with
// the headers.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData, decorate func(*goquery.Document)) {
	ctx := r.Context()
	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.renderFailed(w, r, "failed to execute page template", err)
		return
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		h.renderFailed(w, r, "failed to parse rendered page", err)
		return
	}
	if decorate != nil {
		decorate(doc)
	}

	rememberLocale(w, r)
	sess := h.sessions.New(w, r, doc, data.Locale)
	sess.Controller.Init(ctx)
	switch r.URL.Query().Get(consenthandler.ActionParam) {
	case consenthandler.CustomizeValue:
		sess.Controller.Customize(ctx)
	case consenthandler.ShowValue:
		sess.Controller.Show()
	}

	html, err := doc.Html()
	if err != nil {
		h.renderFailed(w, r, "failed to serialize page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

func (h *Handler) renderFailed(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if h.logger != nil {
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// langURL links the current page in the other locale, keeping its query. A pending
// consent action is dropped so switching language does not replay it.
func langURL(r *http.Request, current i18n.Locale) string {
	next := i18n.English
	if current == i18n.English {
		next = i18n.French
	}
	q := r.URL.Query()
	q.Set(i18n.QueryParam, string(next))
	q.Del(consenthandler.ActionParam)
	return r.URL.Path + "?" + q.Encode()
}

// rememberLocale stores an explicit ?lang choice so later pages keep it.
func rememberLocale(w http.ResponseWriter, r *http.Request) {
	loc, ok := i18n.Parse(r.URL.Query().Get(i18n.QueryParam))
	if !ok {
		return
	}
	if c, err := r.Cookie(i18n.CookieName); err == nil && c.Value == string(loc) {
		return
	}
	cookies.NewHTTPStore(w, r, requesttime.Now(r.Context())).Set(i18n.CookieName, string(loc), localeCookieDays)
}

func view(l models.Listing, locale i18n.Locale) listingView {
	return listingView{Listing: l, Attrs: l.Card(), Price: i18n.FormatPrice(l.PriceCents, locale)}
}

func views(listings []models.Listing, locale i18n.Locale) []listingView {
	out := make([]listingView, 0, len(listings))
	for _, l := range listings {
		out = append(out, view(l, locale))
	}
	return out
}
