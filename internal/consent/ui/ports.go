package ui

import (
	"context"
	"time"

	"classifieds/internal/consent/models"
)

// Overlay is a handle to a mounted banner or modal element.
type Overlay interface {
	// SetShown adds or removes the "show" state that drives the CSS transition.
	SetShown(shown bool)
	// Remove detaches the element from the page.
	Remove()
}

// ToggleOverlay is the modal overlay, which carries the category toggles.
type ToggleOverlay interface {
	Overlay
	SetToggles(analytics, stripe bool)
	Toggles() (analytics, stripe bool)
}

// Renderer creates overlay elements on the page.
type Renderer interface {
	// InjectStyles adds the overlay stylesheet once per page.
	InjectStyles()
	MountBanner() Overlay
	MountModal() ToggleOverlay
}

// Scheduler runs f after d. The returned stop function cancels a pending run and
// reports whether it did.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// Recorder persists and reads the consent record.
type Recorder interface {
	Save(ctx context.Context, prefs models.Preferences) error
	Load(ctx context.Context) (models.Preferences, bool)
	Peek(ctx context.Context) (models.Preferences, bool)
	Clear(ctx context.Context)
}

// Effects applies a preference set.
type Effects interface {
	Apply(ctx context.Context, prefs models.Preferences)
}
