// Package session assembles the consent components for one HTTP request.
package session

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"classifieds/internal/consent/dom"
	"classifieds/internal/consent/effects"
	"classifieds/internal/consent/metrics"
	"classifieds/internal/consent/service"
	"classifieds/internal/consent/ui"
	"classifieds/internal/cookies"
	"classifieds/internal/i18n"
	"classifieds/internal/platform/tracer"
	"classifieds/pkg/platform/middleware/requesttime"
)

const blankPage = `<!DOCTYPE html><html><head></head><body></body></html>`

// Settings are the consent knobs read from configuration.
type Settings struct {
	CookieName    string
	RetentionDays int
	MeasurementID string
	EnterDelay    time.Duration
	ExitDelay     time.Duration
	BasePath      string
}

type Option func(*Factory)

// Factory builds a Session per request. It holds only process-wide collaborators.
type Factory struct {
	settings  Settings
	notifier  effects.Notifier
	scheduler ui.Scheduler
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
}

func NewFactory(settings Settings, opts ...Option) *Factory {
	f := &Factory{
		settings:  settings,
		scheduler: ui.ImmediateScheduler{},
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithNotifier adds a process-wide notifier, such as the event bus, next to the
// per-page event script.
func WithNotifier(n effects.Notifier) Option {
	return func(f *Factory) {
		f.notifier = n
	}
}

// WithScheduler replaces the immediate scheduler used for server-rendered pages.
func WithScheduler(s ui.Scheduler) Option {
	return func(f *Factory) {
		if s != nil {
			f.scheduler = s
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Factory) {
		f.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(f *Factory) {
		if t != nil {
			f.tracer = t
		}
	}
}

// Session is the consent machinery bound to one request and one page document.
type Session struct {
	Controller *ui.Controller
	Records    *service.Service
	Flags      *dom.Flags
	Document   *goquery.Document
}

// New binds a session to w and r. A nil doc gets a blank page, for endpoints that do
// not render one.
func (f *Factory) New(w http.ResponseWriter, r *http.Request, doc *goquery.Document, locale i18n.Locale) *Session {
	if doc == nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(blankPage))
	}
	store := cookies.NewHTTPStore(w, r, requesttime.Now(r.Context()))
	flags := dom.NewFlags(doc)

	notifiers := effects.Notifiers{dom.NewEventScript(doc)}
	if f.notifier != nil {
		notifiers = append(notifiers, f.notifier)
	}
	applier := effects.New(store, flags, notifiers,
		effects.WithMeasurementID(f.settings.MeasurementID),
		effects.WithLogger(f.logger),
		effects.WithMetrics(f.metrics),
		effects.WithTracer(f.tracer),
	)
	records := service.NewService(store, applier,
		service.WithCookieName(f.settings.CookieName),
		service.WithRetentionDays(f.settings.RetentionDays),
		service.WithLogger(f.logger),
		service.WithMetrics(f.metrics),
		service.WithTracer(f.tracer),
	)
	renderer := dom.NewOverlayRenderer(doc, locale,
		dom.WithBasePath(f.settings.BasePath),
		dom.WithLogger(f.logger),
	)
	ctrl := ui.NewController(records, applier, renderer,
		ui.WithScheduler(f.scheduler),
		ui.WithDelays(f.settings.EnterDelay, f.settings.ExitDelay),
		ui.WithLogger(f.logger),
		ui.WithMetrics(f.metrics),
	)
	return &Session{Controller: ctrl, Records: records, Flags: flags, Document: doc}
}
