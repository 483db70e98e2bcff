package contact

import (
	"context"
	"log/slog"
	"net/url"

	"classifieds/internal/platform/tracer"
	dErrors "classifieds/pkg/domain-errors"
)

type Option func(*Service)

// Service validates contact submissions and hands them to the Mailer.
type Service struct {
	mailer Mailer
	logger *slog.Logger
	tracer tracer.Tracer
}

func NewService(mailer Mailer, opts ...Option) *Service {
	svc := &Service{
		mailer: mailer,
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used around Submit.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// Submit validates the form and sends the message. The parsed message is returned
// in every case so the page can be filled back in.
func (s *Service) Submit(ctx context.Context, form url.Values) (msg Message, err error) {
	msg, err = MessageFromForm(form)
	if err != nil {
		return msg, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanContactSend,
		tracer.String(tracer.AttrSubject, msg.Subject),
	)
	defer func() { span.End(err) }()

	if err = s.mailer.Send(ctx, msg); err != nil {
		return msg, dErrors.Wrap(err, dErrors.CodeInternal, "failed to send contact message")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "contact message accepted",
			"subject", msg.Subject,
			"has_reference", msg.Reference != "",
		)
	}
	return msg, nil
}
