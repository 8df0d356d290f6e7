// Package assist is the stateful controller behind the selection menu. It
// wires the selection observer, the fact-check orchestrator and the edit
// dispatcher together and exposes their combined state and callbacks to the
// view layer. The view renders the state and invokes the callbacks; it is
// an external collaborator, not part of this package.
package assist

import (
	"math/rand"

	"github.com/blogwriter/margins/internal/bus"
	"github.com/blogwriter/margins/internal/dispatch"
	"github.com/blogwriter/margins/internal/factcheck"
	"github.com/blogwriter/margins/internal/model"
	"github.com/blogwriter/margins/internal/selection"
	"github.com/blogwriter/margins/internal/transform"
	"github.com/blogwriter/margins/internal/verify"
)

// State is the combined snapshot the menu view renders from.
type State struct {
	Anchor     *model.SelectionAnchor
	Result     *model.FactCheckResult
	InProgress bool
	Progress   *model.ProgressStep
}

// Options configures optional collaborators of the controller.
type Options struct {
	Bus      bus.Bus    // broadcast target for quick edits; nil disables broadcasts
	Rand     *rand.Rand // transition-phrase source; nil means time-seeded
	OnUpdate func()     // invoked after every observable state change
}

// Controller owns one selection-menu instance. Each controller owns its own
// timers and state in isolation; there is no cross-instance shared state.
type Controller struct {
	observer   *selection.Observer
	checker    *factcheck.Orchestrator
	dispatcher *dispatch.Dispatcher
}

// New creates a controller for one editor surface. provider supplies the
// host's current selection; verifier is the claim-verification boundary.
func New(cfg *model.Config, provider selection.Provider, verifier verify.Verifier, opts Options) *Controller {
	c := &Controller{}

	notifyAnchor := func(*model.SelectionAnchor) {
		if opts.OnUpdate != nil {
			opts.OnUpdate()
		}
	}

	c.observer = selection.NewObserver(cfg.Selection, provider, notifyAnchor)
	c.checker = factcheck.NewOrchestrator(verifier, cfg.FactCheck, cfg.Verifier.MaxClaims, opts.OnUpdate)
	c.dispatcher = dispatch.NewDispatcher(transform.NewEngine(opts.Rand), opts.Bus, c.observer.Clear)

	return c
}

// SelectionChanged is the host's zero-argument selection signal.
func (c *Controller) SelectionChanged() {
	c.observer.SelectionChanged()
}

// State returns the current combined snapshot.
func (c *Controller) State() State {
	return State{
		Anchor:     c.observer.Anchor(),
		Result:     c.checker.Result(),
		InProgress: c.checker.InProgress(),
		Progress:   c.checker.Progress(),
	}
}

// CheckFacts starts a fact-check of the currently anchored selection. With
// no anchored selection it is a no-op.
func (c *Controller) CheckFacts() {
	if anchor := c.observer.Anchor(); anchor != nil {
		c.checker.StartCheck(anchor.Text)
	}
}

// CheckText starts a fact-check of explicit text, bypassing the anchor.
func (c *Controller) CheckText(text string) {
	c.checker.StartCheck(text)
}

// DismissResult clears the displayed fact-check result.
func (c *Controller) DismissResult() {
	c.checker.Dismiss()
}

// ApplyQuickEdit applies a deterministic rewrite to the anchored selection
// and closes the menu. replace may be nil; the edit is still broadcast.
func (c *Controller) ApplyQuickEdit(editType model.EditType, replace dispatch.ReplaceFunc) {
	anchor := c.observer.Anchor()
	if anchor == nil {
		return
	}
	c.dispatcher.Dispatch(editType, anchor.Text, replace)
}

// Close tears the controller down. All pending timers are cancelled; no
// state mutation is observable afterward.
func (c *Controller) Close() {
	c.observer.Close()
	c.checker.Close()
}
