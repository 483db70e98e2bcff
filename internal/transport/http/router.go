package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classifieds/internal/platform/middleware"
	"classifieds/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by every handler that owns routes.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig carries the transport-level settings.
type RouterConfig struct {
	RequestTimeout time.Duration
	// Gatherer backs /metrics. Nil means the default Prometheus gatherer.
	Gatherer prometheus.Gatherer
}

// NewRouter wires all public endpoints with middleware. Handlers stay thin and
// delegate to their domain packages.
func NewRouter(cfg RouterConfig, logger *slog.Logger, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(logger))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
