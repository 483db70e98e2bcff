package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"classifieds/internal/i18n"
	"classifieds/internal/listings/catalog"
	"classifieds/internal/listings/filter"
	"classifieds/internal/listings/metrics"
	"classifieds/internal/listings/models"
	"classifieds/internal/platform/middleware"
	dErrors "classifieds/pkg/domain-errors"
	"classifieds/pkg/platform/httputil"
	"classifieds/pkg/platform/sentinel"
	"classifieds/pkg/platform/validation"
)

// ListingResponse is one listing with its price formatted for the request locale.
type ListingResponse struct {
	models.Listing
	Price string `json:"price"`
}

// ListResponse is the filtered subset of the catalog.
type ListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Count    int               `json:"count"`
	Total    int               `json:"total"`
	Criteria models.Criteria   `json:"criteria"`
}

// Handler serves the read-only listings API.
type Handler struct {
	catalog       *catalog.Catalog
	defaultLocale i18n.Locale
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

// New creates a new listings Handler.
func New(cat *catalog.Catalog, defaultLocale i18n.Locale, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		catalog:       cat,
		defaultLocale: defaultLocale,
		logger:        logger,
		metrics:       m,
	}
}

// Register registers the listings routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/listings", h.handleList)
	r.Get("/api/listings/{id}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := models.Criteria{
		SearchTerm:   q.Get("search"),
		Category:     q.Get("category"),
		Condition:    q.Get("condition"),
		LocationTerm: q.Get("location"),
	}
	if err := checkCriteria(criteria); err != nil {
		httputil.WriteError(w, err)
		return
	}
	locale := i18n.Negotiate(r, h.defaultLocale)

	matched := filter.Listings(h.catalog.All(), criteria)
	if h.metrics != nil {
		h.metrics.ObservePass(metrics.SourceAPI, len(matched))
	}

	res := ListResponse{
		Listings: make([]ListingResponse, 0, len(matched)),
		Count:    len(matched),
		Total:    h.catalog.Count(),
		Criteria: criteria,
	}
	for _, l := range matched {
		res.Listings = append(res.Listings, ListingResponse{Listing: l, Price: i18n.FormatPrice(l.PriceCents, locale)})
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "listing id must be an integer"))
		return
	}
	listing, err := h.catalog.ByID(id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			if h.metrics != nil {
				h.metrics.IncrementNotFound()
			}
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeNotFound, "listing not found"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to get listing",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get listing"))
		return
	}
	locale := i18n.Negotiate(r, h.defaultLocale)
	httputil.WriteJSON(w, http.StatusOK, ListingResponse{Listing: listing, Price: i18n.FormatPrice(listing.PriceCents, locale)})
}

func checkCriteria(c models.Criteria) error {
	return validation.CheckLimits(
		validation.Limit{Field: "search", Value: c.SearchTerm, Max: validation.MaxSearchTermLength},
		validation.Limit{Field: "category", Value: c.Category, Max: validation.MaxChoiceLength},
		validation.Limit{Field: "condition", Value: c.Condition, Max: validation.MaxChoiceLength},
		validation.Limit{Field: "location", Value: c.LocationTerm, Max: validation.MaxLocationTermLength},
	)
}
