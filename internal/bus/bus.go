// Package bus models the host's global event channel as an explicit,
// injectable port, so collaborators can observe broadcasts without
// environment coupling.
package bus

import (
	"sync"

	"github.com/blogwriter/margins/internal/model"
)

// EventReplaceSelectedText is broadcast after every quick edit so that
// decoupled consumers (the document editor among them) can react without
// direct wiring.
const EventReplaceSelectedText = "blogwriter:replaceSelectedText"

// ReplaceSelectedText is the payload of EventReplaceSelectedText.
type ReplaceSelectedText struct {
	OriginalText string         `json:"originalText"`
	EditedText   string         `json:"editedText"`
	EditType     model.EditType `json:"editType"`
}

// Bus publishes named events to interested collaborators. Publication is
// fire-and-forget; handlers must tolerate being called more than once for
// equivalent payloads.
type Bus interface {
	Publish(event string, payload interface{})
}

// Handler receives a published payload.
type Handler func(payload interface{})

// Memory is an in-process Bus for the CLI and tests.
type Memory struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewMemory creates an empty in-process bus.
func NewMemory() *Memory {
	return &Memory{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for an event name.
func (b *Memory) Subscribe(event string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], fn)
}

// Publish delivers the payload to every handler of the event, in
// subscription order, on the caller's goroutine.
func (b *Memory) Publish(event string, payload interface{}) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event]...)
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(payload)
	}
}
