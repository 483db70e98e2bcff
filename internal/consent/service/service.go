package service

import (
	"context"
	"log/slog"
	"time"

	"classifieds/internal/consent/metrics"
	"classifieds/internal/consent/models"
	"classifieds/internal/cookies"
	"classifieds/internal/platform/tracer"
	dErrors "classifieds/pkg/domain-errors"
	"classifieds/pkg/platform/middleware/requesttime"
)

// Effects applies a saved or loaded preference set.
type Effects interface {
	Apply(ctx context.Context, prefs models.Preferences)
}

type Option func(*Service)

// Service reads and writes the consent record kept in the visitor's cookies.
//
// Missing or malformed records are reported as "no consent", never as errors.
// Expiry is evaluated against the clock at call time; there is no background timer.
type Service struct {
	cookies       cookies.Store
	effects       Effects
	cookieName    string
	retentionDays int
	clock         func(ctx context.Context) time.Time
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        tracer.Tracer
}

func NewService(store cookies.Store, effects Effects, opts ...Option) *Service {
	svc := &Service{
		cookies:       store,
		effects:       effects,
		cookieName:    models.CookieName,
		retentionDays: models.RetentionDays,
		clock:         requesttime.Now,
		tracer:        tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithCookieName overrides the consent cookie name.
func WithCookieName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.cookieName = name
		}
	}
}

// WithRetentionDays overrides the 395 day retention window.
func WithRetentionDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.retentionDays = days
		}
	}
}

// WithClock replaces the request-scoped clock, mostly for tests.
func WithClock(clock func(ctx context.Context) time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used around Save and Load.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// Save stamps prefs with the current time, persists it for the retention window and
// applies its effects.
func (s *Service) Save(ctx context.Context, prefs models.Preferences) (err error) {
	record := models.NewRecord(prefs, s.clock(ctx))
	ctx, span := s.tracer.Start(ctx, tracer.SpanConsentSave,
		tracer.String(tracer.AttrOutcome, record.Preferences.Outcome()),
	)
	defer func() { span.End(err) }()

	raw, err := record.Encode()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode consent record")
	}
	s.cookies.Set(s.cookieName, raw, s.retentionDays)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "consent saved",
			"outcome", record.Preferences.Outcome(),
			"analytics", record.Preferences.Analytics,
			"stripe", record.Preferences.Stripe,
		)
	}
	if s.metrics != nil {
		s.metrics.IncrementDecisionsSaved(record.Preferences.Outcome())
	}

	if s.effects != nil {
		s.effects.Apply(ctx, record.Preferences)
	}
	return nil
}

// Load returns the stored preferences if a valid, unexpired record exists.
// An expired record is deleted as a side effect.
func (s *Service) Load(ctx context.Context) (models.Preferences, bool) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanConsentLoad)
	defer span.End(nil)

	record, result := s.read()
	if result == loadValid && record.Expired(s.clock(ctx), s.retentionDays) {
		s.cookies.Delete(s.cookieName)
		result = loadExpired
	}

	span.SetAttributes(tracer.String(tracer.AttrOutcome, string(result)))
	if s.metrics != nil {
		s.metrics.IncrementRecordsLoaded(string(result))
	}
	if result != loadValid {
		if result != loadAbsent && s.logger != nil {
			s.logger.DebugContext(ctx, "consent record discarded", "reason", string(result))
		}
		return models.Preferences{}, false
	}
	return record.Preferences, true
}

// Peek returns whatever preferences are stored, expired or not, without side effects.
func (s *Service) Peek(_ context.Context) (models.Preferences, bool) {
	record, result := s.read()
	if result != loadValid {
		return models.Preferences{}, false
	}
	return record.Preferences, true
}

// Clear deletes the consent record.
func (s *Service) Clear(ctx context.Context) {
	s.cookies.Delete(s.cookieName)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "consent cleared")
	}
	if s.metrics != nil {
		s.metrics.IncrementRevocations()
	}
}

type loadResult string

const (
	loadValid     loadResult = "valid"
	loadAbsent    loadResult = "absent"
	loadMalformed loadResult = "malformed"
	loadExpired   loadResult = "expired"
)

func (s *Service) read() (models.Record, loadResult) {
	raw, ok := s.cookies.Get(s.cookieName)
	if !ok || raw == "" {
		return models.Record{}, loadAbsent
	}
	record, ok := models.Decode(raw)
	if !ok {
		return models.Record{}, loadMalformed
	}
	return record, loadValid
}
