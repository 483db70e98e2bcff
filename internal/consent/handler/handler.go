package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"classifieds/internal/consent/models"
	"classifieds/internal/consent/session"
	"classifieds/internal/consent/ui"
	"classifieds/internal/i18n"
	"classifieds/internal/platform/middleware"
	dErrors "classifieds/pkg/domain-errors"
	"classifieds/pkg/platform/httputil"
	"classifieds/pkg/platform/validation"
)

const (
	// ActionParam replays a consent action on the page it is set on: CustomizeValue
	// opens the dialog, ShowValue brings the banner back.
	ActionParam    = "consent"
	CustomizeValue = "customize"
	ShowValue      = "show"

	fallbackPage = "/"
)

// StateResponse is the JSON answer of the consent endpoints.
type StateResponse struct {
	Consent *models.Preferences `json:"consent"`
	State   ui.State            `json:"state,omitempty"`
	Toggles *Toggles            `json:"toggles,omitempty"`
}

// Toggles are the category toggles of the customize dialog.
type Toggles struct {
	Analytics bool `json:"analytics"`
	Stripe    bool `json:"stripe"`
}

// Handler serves the consent endpoints used by the banner and modal forms.
type Handler struct {
	sessions      *session.Factory
	defaultLocale i18n.Locale
	logger        *slog.Logger
}

// New creates a new consent Handler.
func New(sessions *session.Factory, defaultLocale i18n.Locale, logger *slog.Logger) *Handler {
	return &Handler{
		sessions:      sessions,
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

// Register registers the consent routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/consent", h.handleGetPreferences)
	r.Post("/consent/accept", h.handleAcceptAll)
	r.Post("/consent/refuse", h.handleRefuseAll)
	r.Post("/consent/preferences", h.handleSavePreferences)
	r.Post("/consent/show", h.handleShow)
	r.Post("/consent/customize", h.handleCustomize)
	r.Post("/consent/cancel", h.handleCancel)
	r.Post("/consent/revoke", h.handleRevoke)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	return h.sessions.New(w, r, nil, i18n.Negotiate(r, h.defaultLocale))
}

func (h *Handler) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	httputil.WriteJSON(w, http.StatusOK, StateResponse{Consent: current(r, sess)})
}

func (h *Handler) handleAcceptAll(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if err := sess.Controller.AcceptAll(r.Context()); err != nil {
		h.fail(w, r, "failed to accept consent", err)
		return
	}
	h.respond(w, r, sess, stripAction(httputil.BackURL(r, fallbackPage)))
}

func (h *Handler) handleRefuseAll(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if err := sess.Controller.RefuseAll(r.Context()); err != nil {
		h.fail(w, r, "failed to refuse consent", err)
		return
	}
	h.respond(w, r, sess, stripAction(httputil.BackURL(r, fallbackPage)))
}

// handleSavePreferences replays the dialog: open it pre-filled, apply the submitted
// toggles, save. Unchecked boxes are absent from the form and mean false.
func (h *Handler) handleSavePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxFormBodySize)
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, "failed to parse consent form", dErrors.New(dErrors.CodeBadRequest, "invalid form body"))
		return
	}
	analytics, err := formBool(r.PostForm, ui.CategoryAnalytics)
	if err != nil {
		h.fail(w, r, "invalid consent form", err)
		return
	}
	stripe, err := formBool(r.PostForm, ui.CategoryStripe)
	if err != nil {
		h.fail(w, r, "invalid consent form", err)
		return
	}

	sess := h.session(w, r)
	sess.Controller.Customize(ctx)
	if err := sess.Controller.SetToggle(ui.CategoryAnalytics, analytics); err != nil {
		h.fail(w, r, "failed to set consent toggle", err)
		return
	}
	if err := sess.Controller.SetToggle(ui.CategoryStripe, stripe); err != nil {
		h.fail(w, r, "failed to set consent toggle", err)
		return
	}
	if err := sess.Controller.SavePreferences(ctx); err != nil {
		h.fail(w, r, "failed to save consent preferences", err)
		return
	}
	h.respond(w, r, sess, stripAction(httputil.BackURL(r, fallbackPage)))
}

// handleShow brings the banner back without touching the stored record.
func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Controller.Show()
	if httputil.WantsJSON(r) {
		h.respond(w, r, sess, "")
		return
	}
	http.Redirect(w, r, withAction(httputil.BackURL(r, fallbackPage), ShowValue), http.StatusSeeOther)
}

func (h *Handler) handleCustomize(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Controller.Customize(r.Context())
	if httputil.WantsJSON(r) {
		prefs, ok := sess.Records.Peek(r.Context())
		if !ok {
			prefs = models.ModalDefaults()
		}
		httputil.WriteJSON(w, http.StatusOK, StateResponse{
			Consent: current(r, sess),
			State:   sess.Controller.State(),
			Toggles: &Toggles{Analytics: prefs.Analytics, Stripe: prefs.Stripe},
		})
		return
	}
	http.Redirect(w, r, withAction(httputil.BackURL(r, fallbackPage), CustomizeValue), http.StatusSeeOther)
}

// handleCancel closes the dialog. A target of "content" is a click inside the dialog
// and leaves it open.
func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Controller.Customize(r.Context())

	back := httputil.BackURL(r, fallbackPage)
	switch target := ui.Target(r.FormValue("target")); target {
	case "":
		sess.Controller.Cancel()
		back = stripAction(back)
	case ui.TargetBackdrop, ui.TargetContent:
		sess.Controller.ClickOutside(target)
		if !sess.Controller.ModalVisible() {
			back = stripAction(back)
		}
	default:
		h.fail(w, r, "invalid click target", dErrors.New(dErrors.CodeValidation, "unknown click target"))
		return
	}
	h.respond(w, r, sess, back)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.Controller.Revoke(r.Context())
	h.respond(w, r, sess, stripAction(httputil.BackURL(r, fallbackPage)))
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, sess *session.Session, back string) {
	if httputil.WantsJSON(r) {
		httputil.WriteJSON(w, http.StatusOK, StateResponse{
			Consent: current(r, sess),
			State:   sess.Controller.State(),
		})
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if h.logger != nil {
		h.logger.WarnContext(r.Context(), msg,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func current(r *http.Request, sess *session.Session) *models.Preferences {
	prefs, ok := sess.Controller.GetPreferences(r.Context())
	if !ok {
		return nil
	}
	return &prefs
}

// formBool reads a checkbox: absent means false, "on" or any strconv.ParseBool value
// is accepted.
func formBool(form url.Values, key string) (bool, error) {
	if !form.Has(key) {
		return false, nil
	}
	v := strings.TrimSpace(form.Get(key))
	if strings.EqualFold(v, "on") {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, dErrors.New(dErrors.CodeValidation, "invalid value for "+key)
	}
	return b, nil
}

func withAction(target, action string) string {
	return setQuery(target, func(q url.Values) { q.Set(ActionParam, action) })
}

func stripAction(target string) string {
	return setQuery(target, func(q url.Values) { q.Del(ActionParam) })
}

func setQuery(target string, edit func(url.Values)) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	edit(q)
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
