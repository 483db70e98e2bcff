package dom

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"classifieds/internal/listings/filter"
	"classifieds/internal/listings/metrics"
	"classifieds/internal/platform/tracer"
)

// Input is one input or change event on a filter control.
type Input struct {
	Control Control
	Value   string
}

type Option func(*Filter)

// Filter recomputes the visible cards of a Page on every control event. There is no
// debouncing: every event runs a full pass.
type Filter struct {
	page    *Page
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

func NewFilter(page *Page, opts ...Option) *Filter {
	f := &Filter{page: page, tracer: tracer.NewNoop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) {
		f.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Filter) {
		f.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(f *Filter) {
		if t != nil {
			f.tracer = t
		}
	}
}

// Handle applies one control event. It reports false, without running a pass, when
// filtering is disabled or the control is not on the page.
func (f *Filter) Handle(ctx context.Context, in Input) (filter.Result, bool) {
	if !f.page.Enabled() || !f.page.SetValue(in.Control, in.Value) {
		return filter.Result{}, false
	}
	return f.Run(ctx)
}

// Run performs a full pass with the current control values.
func (f *Filter) Run(ctx context.Context) (filter.Result, bool) {
	if !f.page.Enabled() {
		return filter.Result{}, false
	}
	_, span := f.tracer.Start(ctx, tracer.SpanListingsPass)

	res := filter.Apply(f.page.Cards(), f.page.Criteria())
	f.page.cards.Each(func(i int, s *goquery.Selection) {
		if res.Visible[i] {
			setDisplay(s, "")
		} else {
			setDisplay(s, "none")
		}
	})

	if f.page.placeholder.Length() > 0 {
		if res.Empty() {
			setDisplay(f.page.container, "none")
			setDisplay(f.page.placeholder, "block")
		} else {
			setDisplay(f.page.container, "grid")
			setDisplay(f.page.placeholder, "none")
		}
	}

	span.SetAttributes(
		tracer.Int(tracer.AttrVisible, res.Count),
		tracer.Int(tracer.AttrTotal, len(res.Visible)),
	)
	span.End(nil)

	if f.metrics != nil {
		f.metrics.ObservePass(metrics.SourcePage, res.Count)
	}
	if f.logger != nil {
		f.logger.DebugContext(ctx, "listings filtered", "visible", res.Count, "total", len(res.Visible))
	}
	return res, true
}
