package site

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	consentdom "classifieds/internal/consent/dom"
	"classifieds/internal/consent/models"
	"classifieds/internal/consent/session"
	"classifieds/internal/contact"
	"classifieds/internal/contact/mocks"
	"classifieds/internal/i18n"
	"classifieds/internal/listings/catalog"
	listingsdom "classifieds/internal/listings/dom"
	"classifieds/internal/listings/metrics"
	"classifieds/pkg/platform/validation"
)

type SiteSuite struct {
	suite.Suite
	router  chi.Router
	metrics *metrics.Metrics
	mailer  *mocks.MockMailer
}

func (s *SiteSuite) SetupTest() {
	cat, err := catalog.Load("")
	s.Require().NoError(err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.mailer = mocks.NewMockMailer(gomock.NewController(s.T()))
	h := New(cat, session.NewFactory(session.Settings{}), i18n.French,
		WithLogger(logger),
		WithMetrics(s.metrics),
		WithContact(contact.NewService(s.mailer)),
	)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func TestSiteSuite(t *testing.T) {
	suite.Run(t, new(SiteSuite))
}

func (s *SiteSuite) get(target string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *goquery.Document) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	s.Require().NoError(err)
	return w, doc
}

func (s *SiteSuite) post(target string, form url.Values) (*httptest.ResponseRecorder, *goquery.Document) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	s.Require().NoError(err)
	return w, doc
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func validConsent(t *testing.T) *http.Cookie {
	t.Helper()
	raw, err := models.NewRecord(models.AcceptAll(), time.Now().UTC()).Encode()
	require.NoError(t, err)
	return &http.Cookie{Name: models.CookieName, Value: url.QueryEscape(raw)}
}

func (s *SiteSuite) TestHomeShowsFeaturedAndBanner() {
	w, doc := s.get("/")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("text/html; charset=utf-8", w.Header().Get("Content-Type"))
	s.Equal(6, doc.Find(".grid .card").Length())
	s.Equal("13", doc.Find("#listing-count").Text())
	s.Equal(1, doc.Find("."+consentdom.BannerClass).Length())
	s.Equal("/deposer", doc.Find(".site-header .cta").AttrOr("href", ""))
}

func (s *SiteSuite) TestValidConsentHidesBannerAndAppliesFlags() {
	_, doc := s.get("/", validConsent(s.T()))

	s.Zero(doc.Find("."+consentdom.BannerClass).Length())
	s.Contains(doc.Find("#"+consentdom.FlagsScriptID).Text(), "= false;")
	s.Equal(1, doc.Find("script["+consentdom.EventScriptAttr+"]").Length())
}

func (s *SiteSuite) TestCustomizeParamOpensModal() {
	_, doc := s.get("/annonces?consent=customize", validConsent(s.T()))

	modal := doc.Find("." + consentdom.ModalClass)
	s.Require().Equal(1, modal.Length())
	s.True(modal.HasClass(consentdom.ShowClass))
	_, analytics := modal.Find("#" + consentdom.AnalyticsToggleID).Attr("checked")
	s.True(analytics, "toggles reflect the stored record")
}

func (s *SiteSuite) TestListingsFilteredFromQuery() {
	_, doc := s.get("/annonces?search=Pompe&category=Pompage", validConsent(s.T()))

	cards := doc.Find("#" + listingsdom.ContainerID + " .card")
	s.Equal(13, cards.Length())
	visible := cards.FilterFunction(func(_ int, c *goquery.Selection) bool {
		return listingsdom.Display(c) != "none"
	})
	s.Equal(1, visible.Length())
	s.Equal("2", visible.AttrOr("data-id", ""))
	s.Equal("none", listingsdom.Display(doc.Find("#"+listingsdom.PlaceholderID)))
	s.Equal("Pompage", doc.Find("#category option[selected]").AttrOr("value", ""))
	s.Equal("Pompe", doc.Find("#search").AttrOr("value", ""))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.FilterPasses.WithLabelValues(metrics.SourcePage)))
}

func (s *SiteSuite) TestListingsNoResults() {
	_, doc := s.get("/annonces?search=xyz")

	s.Equal("none", listingsdom.Display(doc.Find("#"+listingsdom.ContainerID)))
	s.Equal("block", listingsdom.Display(doc.Find("#"+listingsdom.PlaceholderID)))
}

func (s *SiteSuite) TestDetail() {
	w, doc := s.get("/annonces/2?lang=en")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("Pompe à lobes Vogelsang", doc.Find(".listing-detail h1").Text())
	s.Equal("€8,900.00", doc.Find(".listing-detail .price").Text())
	s.Equal("en", doc.Find("html").AttrOr("lang", ""))
}

func (s *SiteSuite) TestDetailNotFound() {
	for _, target := range []string{"/annonces/999", "/annonces/abc", "/nowhere"} {
		w, doc := s.get(target)

		s.Equal(http.StatusNotFound, w.Code, target)
		s.Equal("Annonce introuvable", doc.Find(".text-page h1").Text(), target)
	}
	s.Equal(1.0, testutil.ToFloat64(s.metrics.NotFound))
}

func (s *SiteSuite) TestTextPages() {
	for _, target := range []string{"/deposer", "/contact", "/cookies", "/mentions-legales", "/politique-confidentialite", "/cgv"} {
		w, _ := s.get(target)
		s.Equal(http.StatusOK, w.Code, target)
	}

	_, doc := s.get("/cookies")
	s.Equal("/consent/customize", doc.Find("#customize-cookies").Closest("form").AttrOr("action", ""))
	s.Equal("/consent/revoke", doc.Find("#revoke-cookies").Closest("form").AttrOr("action", ""))
	s.Equal("/consent/show", doc.Find("#manage-cookies").Closest("form").AttrOr("action", ""),
		"the footer button reopens the banner and leaves the record alone")
	s.Equal("/politique-confidentialite", doc.Find(".site-footer a").Eq(1).AttrOr("href", ""))
	s.Equal("/cgv", doc.Find(".site-footer a").Eq(2).AttrOr("href", ""))
}

func (s *SiteSuite) TestShowParamBringsBannerBackWithRecord() {
	w, doc := s.get("/cookies?consent=show", validConsent(s.T()))

	s.Equal(http.StatusOK, w.Code)
	s.Equal(1, doc.Find("."+consentdom.BannerClass).Length())
	s.Nil(cookieNamed(w, models.CookieName), "the stored record is neither rewritten nor deleted")
	s.Contains(doc.Find("#"+consentdom.FlagsScriptID).Text(), "= false;", "the stored choice still applies")
}

func (s *SiteSuite) TestLangSwitch() {
	s.T().Run("link keeps the query", func(t *testing.T) {
		_, doc := s.get("/annonces?search=pompe&category=Pompage&consent=customize")

		href := doc.Find(".lang-switch").AttrOr("href", "")
		u, err := url.Parse(href)
		require.NoError(t, err)
		s.Equal("/annonces", u.Path)
		s.Equal("pompe", u.Query().Get("search"))
		s.Equal("Pompage", u.Query().Get("category"))
		s.Equal("en", u.Query().Get(i18n.QueryParam))
		s.False(u.Query().Has("consent"))
	})

	s.T().Run("explicit choice is remembered", func(t *testing.T) {
		w, doc := s.get("/annonces/2?lang=en")

		c := cookieNamed(w, i18n.CookieName)
		require.NotNil(t, c)
		s.Equal("en", c.Value)
		s.Equal("/", c.Path)
		s.Equal("/annonces/2?lang=fr", doc.Find(".lang-switch").AttrOr("href", ""))

		_, doc = s.get("/annonces", c)
		s.Equal("en", doc.Find("html").AttrOr("lang", ""))
	})

	s.T().Run("unchanged choice is not rewritten", func(t *testing.T) {
		w, _ := s.get("/?lang=en", &http.Cookie{Name: i18n.CookieName, Value: "en"})

		s.Nil(cookieNamed(w, i18n.CookieName))
	})
}

func contactForm() url.Values {
	return url.Values{
		"name":    {"Test User"},
		"email":   {"test@example.com"},
		"subject": {"test-subject"},
		"message": {"This is a test message"},
	}
}

func (s *SiteSuite) TestContactPage() {
	w, doc := s.get("/contact?ref=2")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("Contactez-nous", doc.Find(".contact-page h1").Text())
	s.Equal("/contact", doc.Find("#contact-form").AttrOr("action", ""))
	s.Equal("#2", doc.Find("#reference").AttrOr("value", ""))
	s.Equal(4, doc.Find("#subject option").Length())
}

func (s *SiteSuite) TestDetailLinksToContactWithReference() {
	_, doc := s.get("/annonces/2")

	s.Equal("/contact?ref=2", doc.Find(".listing-detail .cta").AttrOr("href", ""))
}

func (s *SiteSuite) TestContactSubmit() {
	s.T().Run("required fields", func(t *testing.T) {
		s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

		w, doc := s.post("/contact", contactForm())

		s.Equal(http.StatusOK, w.Code)
		s.Equal("Message envoyé !", doc.Find(".contact-sent h2").Text())
		s.Contains(w.Body.String(), "Votre message a été envoyé avec succès")
		s.Zero(doc.Find("#contact-form").Length())
	})

	s.T().Run("all fields", func(t *testing.T) {
		form := contactForm()
		form.Set("company", "Test Company")
		form.Set("phone", "+33123456789")
		form.Set("subject", "question-annonce")
		form.Set("reference", "#123")
		s.mailer.EXPECT().Send(gomock.Any(), contact.Message{
			Name:      "Test User",
			Company:   "Test Company",
			Email:     "test@example.com",
			Phone:     "+33123456789",
			Subject:   "question-annonce",
			Reference: "#123",
			Body:      "This is a test message",
		}).Return(nil)

		w, _ := s.post("/contact", form)

		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), "Message envoyé !")
	})

	s.T().Run("invalid email keeps the form filled", func(t *testing.T) {
		form := contactForm()
		form.Set("email", "nope")

		w, doc := s.post("/contact", form)

		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("Merci de vérifier les champs du formulaire.", doc.Find(".contact-error").Text())
		s.Equal("Test User", doc.Find("#name").AttrOr("value", ""))
		s.Equal("This is a test message", doc.Find("#message").Text())
	})

	s.T().Run("oversized body", func(t *testing.T) {
		form := contactForm()
		form.Set("message", strings.Repeat("x", validation.MaxContactBodySize))

		w, _ := s.post("/contact", form)

		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.T().Run("relay failure", func(t *testing.T) {
		s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("relay down"))

		w, doc := s.post("/contact", contactForm())

		s.Equal(http.StatusBadGateway, w.Code)
		s.Equal("L'envoi a échoué, merci de réessayer plus tard.", doc.Find(".contact-error").Text())
	})
}

func (s *SiteSuite) TestStaticStylesheet() {
	w, _ := s.get("/static/css/site.css")

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "#listings-container")
}
