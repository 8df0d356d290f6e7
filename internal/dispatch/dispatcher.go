// Package dispatch applies quick-edit results: it invokes the caller's
// replacement callback, broadcasts the edit for decoupled consumers, and
// closes the selection menu.
package dispatch

import (
	"github.com/blogwriter/margins/internal/bus"
	"github.com/blogwriter/margins/internal/model"
	"github.com/blogwriter/margins/internal/transform"
)

// ReplaceFunc is the caller-supplied replacement callback. It may be nil,
// in which case replacement is the caller's responsibility via the
// broadcast.
type ReplaceFunc func(originalText, editedText string, editType model.EditType)

// Dispatcher routes quick-edit requests through the transform engine.
type Dispatcher struct {
	engine    *transform.Engine
	bus       bus.Bus
	closeMenu func()
}

// NewDispatcher creates a dispatcher. closeMenu clears the active selection
// anchor after an edit; it may be nil.
func NewDispatcher(engine *transform.Engine, b bus.Bus, closeMenu func()) *Dispatcher {
	return &Dispatcher{engine: engine, bus: b, closeMenu: closeMenu}
}

// Dispatch applies the edit to the selected text. Unrecognized edit types
// return without side effects. Otherwise the replacement callback (if any)
// runs, the edit is always broadcast, and the menu is always closed.
func (d *Dispatcher) Dispatch(editType model.EditType, selectedText string, replace ReplaceFunc) {
	editedText, ok := d.engine.Apply(editType, selectedText)
	if !ok {
		return
	}

	if replace != nil {
		replace(selectedText, editedText, editType)
	}

	if d.bus != nil {
		d.bus.Publish(bus.EventReplaceSelectedText, bus.ReplaceSelectedText{
			OriginalText: selectedText,
			EditedText:   editedText,
			EditType:     editType,
		})
	}

	if d.closeMenu != nil {
		d.closeMenu()
	}
}
