// Package effects turns a consent decision into its side effects: the analytics
// disable flag, purging analytics cookies and broadcasting the applied preferences.
package effects

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"classifieds/internal/consent/metrics"
	"classifieds/internal/consent/models"
	"classifieds/internal/cookies"
	"classifieds/internal/platform/middleware"
	"classifieds/internal/platform/tracer"
	"classifieds/pkg/platform/middleware/requesttime"
)

//go:generate mockgen -source=effects.go -destination=mocks/mocks.go -package=mocks FlagSetter,Notifier

// FlagSetter sets a named boolean flag read by third-party snippets on the page.
type FlagSetter interface {
	SetFlag(name string, value bool)
}

// Notifier broadcasts applied preferences.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// AnalyticsCookies are the Google Analytics cookies purged when analytics is refused.
var AnalyticsCookies = []string{"_ga", "_gid", "_gat"}

// DefaultMeasurementID is the placeholder measurement ID of the analytics snippet.
const DefaultMeasurementID = "GA_MEASUREMENT_ID"

// DisableFlag returns the global flag name the analytics snippet checks before reporting.
func DisableFlag(measurementID string) string {
	return "ga-disable-" + measurementID
}

type Option func(*Applier)

// Applier applies preferences to one visitor's browser state.
type Applier struct {
	cookies       cookies.Store
	flags         FlagSetter
	notifier      Notifier
	measurementID string
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        tracer.Tracer
}

// New builds an Applier over the visitor's cookie store, page flags and notifier.
func New(store cookies.Store, flags FlagSetter, notifier Notifier, opts ...Option) *Applier {
	a := &Applier{
		cookies:       store,
		flags:         flags,
		notifier:      notifier,
		measurementID: DefaultMeasurementID,
		tracer:        tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithMeasurementID sets the analytics measurement ID used to build the disable flag.
func WithMeasurementID(id string) Option {
	return func(a *Applier) {
		if id != "" {
			a.measurementID = id
		}
	}
}

// WithLogger sets the logger instance for the applier.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Applier) {
		a.logger = logger
	}
}

// WithMetrics sets the metrics instance for the applier.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Applier) {
		a.metrics = m
	}
}

// WithTracer sets the tracer used around Apply.
func WithTracer(t tracer.Tracer) Option {
	return func(a *Applier) {
		if t != nil {
			a.tracer = t
		}
	}
}

// Apply enables or disables analytics according to prefs and always emits a notification.
// Payment provider cookies are never deleted: refusing them only logs an advisory warning,
// checkout depends on them.
func (a *Applier) Apply(ctx context.Context, prefs models.Preferences) {
	prefs = prefs.Normalize()
	ctx, span := a.tracer.Start(ctx, tracer.SpanConsentApply,
		tracer.Bool(tracer.AttrAnalytics, prefs.Analytics),
		tracer.Bool(tracer.AttrStripe, prefs.Stripe),
	)
	defer span.End(nil)

	if prefs.Analytics {
		a.allowAnalytics()
	} else {
		a.blockAnalytics()
	}

	if !prefs.Stripe && a.logger != nil {
		a.logger.WarnContext(ctx, "stripe cookies refused, payment functionality may be limited")
	}

	if a.metrics != nil {
		a.metrics.IncrementCategoryApplied("analytics", prefs.Analytics)
		a.metrics.IncrementCategoryApplied("stripe", prefs.Stripe)
	}

	if a.notifier != nil {
		a.notifier.Notify(ctx, models.Notification{
			ID:          uuid.New().String(),
			Name:        models.NotificationName,
			Preferences: prefs,
			Client:      clientLabel(ctx),
			At:          requesttime.Now(ctx).UTC(),
		})
	}
}

func (a *Applier) blockAnalytics() {
	if a.flags != nil {
		a.flags.SetFlag(DisableFlag(a.measurementID), true)
	}
	for _, name := range AnalyticsCookies {
		a.cookies.Delete(name)
	}
}

func (a *Applier) allowAnalytics() {
	if a.flags != nil {
		a.flags.SetFlag(DisableFlag(a.measurementID), false)
	}
}

func clientLabel(ctx context.Context) string {
	c, ok := middleware.GetClient(ctx)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", c.Browser, c.OS, c.Platform)
}

// Notifiers fans a notification out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, n models.Notification) {
	for _, notifier := range ns {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}

var _ Notifier = Notifiers(nil)
