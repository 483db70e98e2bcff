package ui

import "sync"

// MemoryOverlay is an overlay that only records its state.
type MemoryOverlay struct {
	mu        sync.Mutex
	kind      string
	shown     bool
	removed   bool
	analytics bool
	stripe    bool
}

func (o *MemoryOverlay) SetShown(shown bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.shown = shown
}

func (o *MemoryOverlay) Remove() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.removed = true
}

func (o *MemoryOverlay) SetToggles(analytics, stripe bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.analytics, o.stripe = analytics, stripe
}

func (o *MemoryOverlay) Toggles() (bool, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.analytics, o.stripe
}

func (o *MemoryOverlay) Kind() string { return o.kind }

func (o *MemoryOverlay) Shown() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.shown
}

func (o *MemoryOverlay) Removed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.removed
}

// MemoryRenderer keeps every overlay it mounted, in mount order.
type MemoryRenderer struct {
	mu             sync.Mutex
	stylesInjected int
	overlays       []*MemoryOverlay
}

func (r *MemoryRenderer) InjectStyles() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stylesInjected == 0 {
		r.stylesInjected = 1
	}
}

func (r *MemoryRenderer) MountBanner() Overlay {
	return r.mount("banner")
}

func (r *MemoryRenderer) MountModal() ToggleOverlay {
	return r.mount("modal")
}

func (r *MemoryRenderer) mount(kind string) *MemoryOverlay {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := &MemoryOverlay{kind: kind}
	r.overlays = append(r.overlays, o)
	return o
}

// Mounted returns the overlays of the given kind that have not been removed.
func (r *MemoryRenderer) Mounted(kind string) []*MemoryOverlay {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*MemoryOverlay
	for _, o := range r.overlays {
		if o.kind == kind && !o.Removed() {
			out = append(out, o)
		}
	}
	return out
}

// Created counts every overlay of kind ever mounted.
func (r *MemoryRenderer) Created(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.overlays {
		if o.kind == kind {
			n++
		}
	}
	return n
}

func (r *MemoryRenderer) StylesInjected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stylesInjected > 0
}

var (
	_ Renderer      = (*MemoryRenderer)(nil)
	_ ToggleOverlay = (*MemoryOverlay)(nil)
)
