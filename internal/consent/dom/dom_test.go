package dom

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classifieds/internal/consent/effects"
	"classifieds/internal/consent/models"
	"classifieds/internal/consent/service"
	"classifieds/internal/consent/ui"
	"classifieds/internal/cookies"
	"classifieds/internal/i18n"
)

const page = `<!DOCTYPE html><html><head><title>t</title></head><body><main>content</main></body></html>`

func newDoc(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

type fixture struct {
	doc   *goquery.Document
	jar   *cookies.MemoryStore
	flags *Flags
	ctrl  *ui.Controller
}

func newFixture(t *testing.T, locale i18n.Locale) *fixture {
	t.Helper()
	doc := newDoc(t)
	jar := cookies.NewMemoryStore(nil)
	flags := NewFlags(doc)
	applier := effects.New(jar, flags, NewEventScript(doc))
	records := service.NewService(jar, applier)
	ctrl := ui.NewController(records, applier, NewOverlayRenderer(doc, locale),
		ui.WithScheduler(ui.ImmediateScheduler{}))
	return &fixture{doc: doc, jar: jar, flags: flags, ctrl: ctrl}
}

func TestInitMountsBannerOnce(t *testing.T) {
	f := newFixture(t, i18n.French)

	f.ctrl.Init(context.Background())
	f.ctrl.Show()

	banners := f.doc.Find("body > ." + BannerClass)
	require.Equal(t, 1, banners.Length())
	assert.True(t, banners.HasClass(ShowClass))
	assert.Equal(t, 1, f.doc.Find("head #"+StylesID).Length())
	assert.Contains(t, banners.Find("h3").Text(), "Gestion des cookies")
	action, _ := banners.Find("#cookie-accept-all").Closest("form").Attr("action")
	assert.Equal(t, "/consent/accept", action)
}

func TestAcceptRemovesBannerAndWritesScripts(t *testing.T) {
	f := newFixture(t, i18n.English)
	ctx := context.Background()
	f.ctrl.Init(ctx)

	require.NoError(t, f.ctrl.AcceptAll(ctx))

	assert.Zero(t, f.doc.Find("."+BannerClass).Length())
	flag, ok := f.flags.Value(effects.DisableFlag(effects.DefaultMeasurementID))
	assert.True(t, ok)
	assert.False(t, flag)
	assert.Contains(t, f.doc.Find("head #"+FlagsScriptID).Text(), `window["ga-disable-GA_MEASUREMENT_ID"] = false;`)

	event := f.doc.Find("body script[" + EventScriptAttr + "]")
	require.Equal(t, 1, event.Length())
	assert.Equal(t,
		`window.dispatchEvent(new CustomEvent("cookieConsentUpdated", {detail: {"essential":true,"analytics":true,"stripe":true}}));`,
		event.Text())
}

func TestModalTogglesRoundTrip(t *testing.T) {
	f := newFixture(t, i18n.English)
	ctx := context.Background()
	f.ctrl.Init(ctx)

	f.ctrl.Customize(ctx)

	modal := f.doc.Find("." + ModalClass)
	require.Equal(t, 1, modal.Length())
	assert.True(t, modal.HasClass(ShowClass))
	_, analytics := modal.Find("#" + AnalyticsToggleID).Attr("checked")
	_, stripe := modal.Find("#" + StripeToggleID).Attr("checked")
	assert.False(t, analytics)
	assert.True(t, stripe)
	assert.Equal(t, "Customize your preferences", strings.TrimSpace(modal.Find("h2").Text()))

	backdrop := modal.Find("button." + BackdropClass)
	require.Equal(t, 1, backdrop.Length())
	assert.Equal(t, "target", backdrop.AttrOr("name", ""))
	assert.Equal(t, string(ui.TargetBackdrop), backdrop.AttrOr("value", ""))
	assert.Equal(t, "/consent/cancel", backdrop.Closest("form").AttrOr("action", ""))
	assert.Zero(t, modal.Find(".cookie-consent-modal-content ."+BackdropClass).Length())

	require.NoError(t, f.ctrl.SetToggle(ui.CategoryAnalytics, true))
	require.NoError(t, f.ctrl.SetToggle(ui.CategoryStripe, false))
	require.NoError(t, f.ctrl.SavePreferences(ctx))

	assert.False(t, modal.HasClass(ShowClass))
	prefs, ok := f.ctrl.GetPreferences(ctx)
	require.True(t, ok)
	assert.Equal(t, models.Preferences{Essential: true, Analytics: true, Stripe: false}, prefs)
}

func TestRefuseWritesDisableFlag(t *testing.T) {
	f := newFixture(t, i18n.French)
	ctx := context.Background()
	f.jar.Set("_ga", "GA1.1.1", 30)
	f.ctrl.Init(ctx)

	require.NoError(t, f.ctrl.RefuseAll(ctx))

	assert.Contains(t, f.doc.Find("#"+FlagsScriptID).Text(), `window["ga-disable-GA_MEASUREMENT_ID"] = true;`)
	_, ok := f.jar.Get("_ga")
	assert.False(t, ok)
}

func TestFlagsScriptKeepsOneLinePerFlag(t *testing.T) {
	doc := newDoc(t)
	flags := NewFlags(doc)

	flags.SetFlag("a", true)
	flags.SetFlag("b", false)
	flags.SetFlag("a", false)

	assert.Equal(t, 1, doc.Find("#"+FlagsScriptID).Length())
	assert.Equal(t, "window[\"a\"] = false;\nwindow[\"b\"] = false;\n", doc.Find("#"+FlagsScriptID).Text())
}

func TestRenderedDocumentKeepsScriptsRaw(t *testing.T) {
	f := newFixture(t, i18n.French)
	ctx := context.Background()
	f.ctrl.Init(ctx)
	require.NoError(t, f.ctrl.RefuseAll(ctx))

	html, err := f.doc.Html()
	require.NoError(t, err)
	assert.Contains(t, html, `window["ga-disable-GA_MEASUREMENT_ID"] = true;`)
	assert.Contains(t, html, `{"essential":true,"analytics":false,"stripe":false}`)
}
