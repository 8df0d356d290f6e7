// Package selection coalesces high-frequency selection-change signals from
// the host editor into debounced menu-anchor state.
package selection

import (
	"sync"
	"time"

	"github.com/blogwriter/margins/internal/geometry"
	"github.com/blogwriter/margins/internal/model"
)

// Snapshot is the host's view of the current selection at evaluation time.
type Snapshot struct {
	Rect     *geometry.Rect // bounding rect of the selection range
	Text     string         // selected text
	Fallback *geometry.Rect // bounding rect of the host element, for degraded geometry
	Viewport geometry.Viewport
}

// Provider returns the current selection, or ok=false when the selection is
// absent or collapsed.
type Provider func() (Snapshot, bool)

// Observer listens for selection-change signals, debounces them, and
// maintains the current menu anchor. Selection-change fires at very high
// frequency during drag-select; only the last signal inside the debounce
// window is evaluated.
type Observer struct {
	provider Provider
	resolver *geometry.Resolver
	debounce time.Duration
	onChange func(*model.SelectionAnchor)

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	closed bool
	anchor *model.SelectionAnchor
}

// NewObserver creates an observer. onChange, if non-nil, is invoked after
// every anchor update (including clears) outside the observer's lock.
func NewObserver(cfg model.SelectionConfig, provider Provider, onChange func(*model.SelectionAnchor)) *Observer {
	return &Observer{
		provider: provider,
		resolver: geometry.NewResolver(cfg),
		debounce: cfg.Debounce,
		onChange: onChange,
	}
}

// SelectionChanged is the zero-argument signal the host invokes whenever the
// document's selection may have changed. Each call cancels any pending
// evaluation and schedules a new one.
func (o *Observer) SelectionChanged() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	if o.timer != nil {
		o.timer.Stop()
	}
	o.gen++
	gen := o.gen
	o.timer = time.AfterFunc(o.debounce, func() { o.evaluate(gen) })
}

func (o *Observer) evaluate(gen uint64) {
	// Read the host's selection before taking the lock; the provider may
	// call back into the host.
	snap, ok := o.provider()

	var anchor *model.SelectionAnchor
	if ok {
		anchor = o.resolver.Resolve(snap.Rect, snap.Text, snap.Fallback, snap.Viewport)
	}

	o.mu.Lock()
	if o.closed || gen != o.gen {
		o.mu.Unlock()
		return
	}
	o.anchor = anchor
	cb := o.onChange
	o.mu.Unlock()

	if cb != nil {
		cb(anchor)
	}
}

// Anchor returns the current menu anchor, or nil when no usable selection
// exists.
func (o *Observer) Anchor() *model.SelectionAnchor {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.anchor
}

// Clear drops the current anchor and cancels any pending evaluation. The
// dispatcher uses this to close the menu after an edit is applied.
func (o *Observer) Clear() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	if o.timer != nil {
		o.timer.Stop()
	}
	o.gen++
	o.anchor = nil
	cb := o.onChange
	o.mu.Unlock()

	if cb != nil {
		cb(nil)
	}
}

// Close tears the observer down. Pending evaluations are cancelled and no
// state mutation is possible afterward.
func (o *Observer) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.gen++
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.anchor = nil
}
