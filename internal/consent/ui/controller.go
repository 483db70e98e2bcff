// Package ui drives the consent banner and the customize dialog.
//
// The Controller is a three-state machine (Hidden, BannerShown, ModalShown) over two
// independent overlays. Page elements are reached through the Renderer port and delays
// through the Scheduler port, so the same machine runs against a goquery document on the
// server and against in-memory fakes in tests.
package ui

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"classifieds/internal/consent/metrics"
	"classifieds/internal/consent/models"
	dErrors "classifieds/pkg/domain-errors"
)

// State is the visible consent UI state.
type State string

const (
	StateHidden      State = "hidden"
	StateBannerShown State = "banner_shown"
	StateModalShown  State = "modal_shown"
)

// Target identifies what a click inside the modal landed on.
type Target string

const (
	// TargetBackdrop is the modal root outside the dialog content.
	TargetBackdrop Target = "backdrop"
	// TargetContent is anything inside the dialog content.
	TargetContent Target = "content"
)

// Toggle categories accepted by SetToggle.
const (
	CategoryAnalytics = "analytics"
	CategoryStripe    = "stripe"
)

const (
	DefaultEnterDelay = 100 * time.Millisecond
	DefaultExitDelay  = 400 * time.Millisecond
)

type Option func(*Controller)

// Controller owns the banner and modal overlays of one page.
type Controller struct {
	mu sync.Mutex

	recorder  Recorder
	effects   Effects
	renderer  Renderer
	scheduler Scheduler

	enterDelay time.Duration
	exitDelay  time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics

	banner        Overlay
	bannerLeaving bool
	stopEnter     func() bool
	stopRemoval   func() bool

	modal      ToggleOverlay
	modalShown bool
}

func NewController(recorder Recorder, effects Effects, renderer Renderer, opts ...Option) *Controller {
	c := &Controller{
		recorder:   recorder,
		effects:    effects,
		renderer:   renderer,
		scheduler:  RealScheduler{},
		enterDelay: DefaultEnterDelay,
		exitDelay:  DefaultExitDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithDelays overrides the banner enter and exit delays. Zero or negative values keep
// the defaults.
func WithDelays(enter, exit time.Duration) Option {
	return func(c *Controller) {
		if enter > 0 {
			c.enterDelay = enter
		}
		if exit > 0 {
			c.exitDelay = exit
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// Init applies a valid stored decision, or shows the banner when there is none.
func (c *Controller) Init(ctx context.Context) {
	if prefs, ok := c.recorder.Load(ctx); ok {
		c.effects.Apply(ctx, prefs)
		c.logDebug(ctx, "consent record found, banner not shown")
		return
	}
	c.Show()
}

// Show displays the banner. Only one banner exists at a time: a pending removal is
// cancelled and any existing banner is replaced by a fresh one.
func (c *Controller) Show() {
	c.mu.Lock()
	c.renderer.InjectStyles()
	if c.stopRemoval != nil {
		c.stopRemoval()
		c.stopRemoval = nil
	}
	if c.stopEnter != nil {
		c.stopEnter()
		c.stopEnter = nil
	}
	if c.banner != nil {
		c.banner.Remove()
	}
	banner := c.renderer.MountBanner()
	c.banner = banner
	c.bannerLeaving = false
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.IncrementBannersShown()
	}

	stop := c.scheduler.AfterFunc(c.enterDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.banner == banner && !c.bannerLeaving {
			banner.SetShown(true)
		}
	})
	c.mu.Lock()
	if c.banner == banner && !c.bannerLeaving {
		c.stopEnter = stop
	}
	c.mu.Unlock()
}

// AcceptAll saves a decision granting every category and hides both overlays.
func (c *Controller) AcceptAll(ctx context.Context) error {
	return c.decide(ctx, models.AcceptAll())
}

// RefuseAll saves a decision refusing every optional category and hides both overlays.
func (c *Controller) RefuseAll(ctx context.Context) error {
	return c.decide(ctx, models.RefuseAll())
}

// Customize opens the modal, creating it on first use. Toggles reflect the stored
// record, expired or not, falling back to analytics off and stripe on.
func (c *Controller) Customize(ctx context.Context) {
	prefs, ok := c.recorder.Peek(ctx)
	if !ok {
		prefs = models.ModalDefaults()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderer.InjectStyles()
	if c.modal == nil {
		c.modal = c.renderer.MountModal()
	}
	c.modal.SetToggles(prefs.Analytics, prefs.Stripe)
	c.modal.SetShown(true)
	c.modalShown = true
}

// SetToggle flips one category toggle inside the open modal.
func (c *Controller) SetToggle(category string, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modal == nil || !c.modalShown {
		return dErrors.New(dErrors.CodeBadRequest, "customize dialog is not open")
	}
	analytics, stripe := c.modal.Toggles()
	switch category {
	case CategoryAnalytics:
		analytics = on
	case CategoryStripe:
		stripe = on
	default:
		return dErrors.New(dErrors.CodeValidation, "unknown consent category: "+category)
	}
	c.modal.SetToggles(analytics, stripe)
	return nil
}

// SavePreferences saves the toggle states of the open modal and hides both overlays.
func (c *Controller) SavePreferences(ctx context.Context) error {
	c.mu.Lock()
	if c.modal == nil || !c.modalShown {
		c.mu.Unlock()
		return dErrors.New(dErrors.CodeBadRequest, "customize dialog is not open")
	}
	analytics, stripe := c.modal.Toggles()
	c.mu.Unlock()

	return c.decide(ctx, models.Preferences{Essential: true, Analytics: analytics, Stripe: stripe})
}

// Cancel closes the modal without saving. The banner is left as it is.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hideModalLocked()
}

// ClickOutside closes the modal when the click landed on its backdrop.
func (c *Controller) ClickOutside(target Target) {
	if target != TargetBackdrop {
		return
	}
	c.Cancel()
}

// Revoke deletes the stored decision and shows the banner again.
func (c *Controller) Revoke(ctx context.Context) {
	c.recorder.Clear(ctx)
	c.Show()
}

// GetPreferences returns the current valid decision, if any.
func (c *Controller) GetPreferences(ctx context.Context) (models.Preferences, bool) {
	return c.recorder.Load(ctx)
}

// State reports the current state. The modal takes precedence over the banner.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.modalShown:
		return StateModalShown
	case c.banner != nil && !c.bannerLeaving:
		return StateBannerShown
	default:
		return StateHidden
	}
}

// BannerVisible reports whether a banner is mounted and not on its way out.
func (c *Controller) BannerVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banner != nil && !c.bannerLeaving
}

func (c *Controller) ModalVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modalShown
}

func (c *Controller) decide(ctx context.Context, prefs models.Preferences) error {
	if err := c.recorder.Save(ctx, prefs); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent")
	}

	c.mu.Lock()
	c.hideModalLocked()
	banner := c.beginBannerExitLocked()
	c.mu.Unlock()

	if banner == nil {
		return nil
	}
	stop := c.scheduler.AfterFunc(c.exitDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.banner == banner && c.bannerLeaving {
			banner.Remove()
			c.banner = nil
			c.bannerLeaving = false
			c.stopRemoval = nil
		}
	})
	c.mu.Lock()
	if c.banner == banner && c.bannerLeaving {
		c.stopRemoval = stop
	}
	c.mu.Unlock()
	return nil
}

// beginBannerExitLocked drops the "show" state and returns the banner awaiting
// removal, or nil when there is nothing to remove.
func (c *Controller) beginBannerExitLocked() Overlay {
	if c.banner == nil || c.bannerLeaving {
		return nil
	}
	if c.stopEnter != nil {
		c.stopEnter()
		c.stopEnter = nil
	}
	c.banner.SetShown(false)
	c.bannerLeaving = true
	return c.banner
}

func (c *Controller) hideModalLocked() {
	if c.modal == nil {
		return
	}
	c.modal.SetShown(false)
	c.modalShown = false
}

func (c *Controller) logDebug(ctx context.Context, msg string) {
	if c.logger == nil {
		return
	}
	c.logger.DebugContext(ctx, msg)
}
