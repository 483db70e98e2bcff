package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"classifieds/internal/consent/models"
	"classifieds/internal/consent/session"
	"classifieds/internal/consent/ui"
	"classifieds/internal/i18n"
	"classifieds/pkg/platform/validation"
)

type ConsentHandlerSuite struct {
	suite.Suite
	router chi.Router
}

func (s *ConsentHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(session.NewFactory(session.Settings{}, session.WithLogger(logger)), i18n.French, logger)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func TestConsentHandlerSuite(t *testing.T) {
	suite.Run(t, new(ConsentHandlerSuite))
}

func (s *ConsentHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func post(path string, form url.Values, jsonResponse bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "http://example.com/annonces?search=pompe&consent=customize")
	if jsonResponse {
		req.Header.Set("Accept", "application/json")
	}
	return req
}

func consentCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == models.CookieName {
			return c
		}
	}
	return nil
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) StateResponse {
	t.Helper()
	var resp StateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *ConsentHandlerSuite) TestGetWithoutRecord() {
	w := s.do(httptest.NewRequest(http.MethodGet, "/consent", nil))

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"consent":null}`, w.Body.String())
}

func (s *ConsentHandlerSuite) TestGetWithRecord() {
	raw, err := models.NewRecord(models.RefuseAll(), nowUTC()).Encode()
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodGet, "/consent", nil)
	req.AddCookie(&http.Cookie{Name: models.CookieName, Value: url.QueryEscape(raw)})

	w := s.do(req)

	s.JSONEq(`{"consent":{"essential":true,"analytics":false,"stripe":false}}`, w.Body.String())
}

func (s *ConsentHandlerSuite) TestAcceptRedirectsBack() {
	w := s.do(post("/consent/accept", nil, false))

	s.Equal(http.StatusSeeOther, w.Code)
	s.Equal("/annonces?search=pompe", w.Header().Get("Location"))
	s.Require().NotNil(consentCookie(w))
}

func (s *ConsentHandlerSuite) TestRefuseJSON() {
	w := s.do(post("/consent/refuse", nil, true))

	s.Equal(http.StatusOK, w.Code)
	resp := decodeState(s.T(), w)
	s.Require().NotNil(resp.Consent)
	s.Equal(models.RefuseAll(), *resp.Consent)
	s.Equal(ui.StateHidden, resp.State)
}

func (s *ConsentHandlerSuite) TestSavePreferences() {
	s.T().Run("checked boxes", func(t *testing.T) {
		w := s.do(post("/consent/preferences", url.Values{"analytics": {"on"}}, true))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeState(t, w)
		require.NotNil(t, resp.Consent)
		assert.Equal(t, models.Preferences{Essential: true, Analytics: true, Stripe: false}, *resp.Consent)
	})

	s.T().Run("explicit values", func(t *testing.T) {
		w := s.do(post("/consent/preferences", url.Values{"analytics": {"false"}, "stripe": {"true"}}, true))

		resp := decodeState(t, w)
		require.NotNil(t, resp.Consent)
		assert.Equal(t, models.Preferences{Essential: true, Analytics: false, Stripe: true}, *resp.Consent)
	})

	s.T().Run("invalid value", func(t *testing.T) {
		w := s.do(post("/consent/preferences", url.Values{"stripe": {"maybe"}}, true))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, consentCookie(w))
	})

	s.T().Run("oversized body", func(t *testing.T) {
		padding := strings.Repeat("x", validation.MaxFormBodySize)
		w := s.do(post("/consent/preferences", url.Values{"analytics": {"on"}, "padding": {padding}}, true))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, consentCookie(w))
	})
}

func (s *ConsentHandlerSuite) TestCustomize() {
	s.T().Run("redirect opens dialog on referer", func(t *testing.T) {
		req := post("/consent/customize", nil, false)
		req.Header.Set("Referer", "http://example.com/annonces?search=pompe")

		w := s.do(req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/annonces?consent=customize&search=pompe", w.Header().Get("Location"))
		assert.Nil(t, consentCookie(w), "opening the dialog never writes a record")
	})

	s.T().Run("json returns default toggles", func(t *testing.T) {
		w := s.do(post("/consent/customize", nil, true))

		resp := decodeState(t, w)
		assert.Equal(t, ui.StateModalShown, resp.State)
		require.NotNil(t, resp.Toggles)
		assert.Equal(t, Toggles{Analytics: false, Stripe: true}, *resp.Toggles)
	})
}

func (s *ConsentHandlerSuite) TestCancel() {
	s.T().Run("cancel button", func(t *testing.T) {
		w := s.do(post("/consent/cancel", nil, false))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/annonces?search=pompe", w.Header().Get("Location"))
		assert.Nil(t, consentCookie(w))
	})

	s.T().Run("click inside the dialog keeps it open", func(t *testing.T) {
		w := s.do(post("/consent/cancel", url.Values{"target": {"content"}}, false))

		assert.Equal(t, "/annonces?search=pompe&consent=customize", w.Header().Get("Location"))
	})

	s.T().Run("backdrop click closes", func(t *testing.T) {
		w := s.do(post("/consent/cancel", url.Values{"target": {"backdrop"}}, true))

		resp := decodeState(t, w)
		assert.Equal(t, ui.StateHidden, resp.State)
		assert.Nil(t, resp.Consent)
	})

	s.T().Run("unknown target", func(t *testing.T) {
		w := s.do(post("/consent/cancel", url.Values{"target": {"header"}}, true))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func (s *ConsentHandlerSuite) TestRevoke() {
	raw, err := models.NewRecord(models.AcceptAll(), nowUTC()).Encode()
	s.Require().NoError(err)
	req := post("/consent/revoke", nil, true)
	req.AddCookie(&http.Cookie{Name: models.CookieName, Value: url.QueryEscape(raw)})

	w := s.do(req)

	resp := decodeState(s.T(), w)
	s.Nil(resp.Consent)
	s.Equal(ui.StateBannerShown, resp.State)
	deleted := consentCookie(w)
	s.Require().NotNil(deleted)
	s.Equal(-1, deleted.MaxAge)
}

func (s *ConsentHandlerSuite) TestShowKeepsRecord() {
	raw, err := models.NewRecord(models.RefuseAll(), nowUTC()).Encode()
	s.Require().NoError(err)
	record := &http.Cookie{Name: models.CookieName, Value: url.QueryEscape(raw)}

	s.T().Run("redirect brings the banner back on referer", func(t *testing.T) {
		req := post("/consent/show", nil, false)
		req.Header.Set("Referer", "http://example.com/cookies")
		req.AddCookie(record)

		w := s.do(req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/cookies?consent=show", w.Header().Get("Location"))
		assert.Nil(t, consentCookie(w), "showing the banner never writes or deletes the record")
	})

	s.T().Run("json reports the banner and the stored choice", func(t *testing.T) {
		req := post("/consent/show", nil, true)
		req.AddCookie(record)

		w := s.do(req)

		resp := decodeState(t, w)
		assert.Equal(t, ui.StateBannerShown, resp.State)
		require.NotNil(t, resp.Consent)
		assert.Equal(t, models.RefuseAll(), *resp.Consent)
		assert.Nil(t, consentCookie(w))
	})
}

func TestFormBool(t *testing.T) {
	form := url.Values{"a": {"on"}, "b": {"1"}, "c": {"FALSE"}, "d": {"nope"}}

	for key, want := range map[string]bool{"a": true, "b": true, "c": false, "missing": false} {
		got, err := formBool(form, key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}
	_, err := formBool(form, "d")
	assert.Error(t, err)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
