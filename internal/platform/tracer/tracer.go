// Package tracer is a small tracing abstraction used by the consent services.
//
// Services depend on the Tracer interface rather than on OpenTelemetry directly.
// NoopTracer is used in tests; OTelTracer adapts the global OpenTelemetry provider.
package tracer

import "context"

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording err when non-nil. Must be called exactly once.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Span names.
const (
	SpanConsentSave  = "consent.save"
	SpanConsentLoad  = "consent.load"
	SpanConsentApply = "consent.apply"
	SpanListingsPass = "listings.filter"
	SpanContactSend  = "contact.send"
)

// Attribute keys.
const (
	AttrAnalytics = "consent.analytics"
	AttrStripe    = "consent.stripe"
	AttrOutcome   = "consent.outcome"
	AttrVisible   = "listings.visible"
	AttrTotal     = "listings.total"
	AttrSubject   = "contact.subject"
)
