// Package input tracks pointer and viewport events for interaction
// controllers.
package input

import (
	"sync"

	"github.com/Faultbox/midgard-mmd/internal/engine/interaction"
	"github.com/Faultbox/midgard-mmd/pkg/math"
)

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventWindowResize
	EventMouseMove
)

// Event is a host window event in client coordinates (pixels, origin top
// left).
type Event struct {
	Type   EventType
	X      float32 // pointer position for EventMouseMove
	Y      float32
	Width  int // viewport size for EventWindowResize
	Height int
}

// Tracker keeps only the latest pointer offset and viewport size. Events
// may arrive from any goroutine; the last value wins.
type Tracker struct {
	mu       sync.Mutex
	halfW    float32
	halfH    float32
	pointer  math.Vec2
	detached bool
}

var _ interaction.InputSource = (*Tracker)(nil)

// NewTracker creates a tracker for a viewport of the given size.
func NewTracker(width, height int) *Tracker {
	return &Tracker{
		halfW: float32(width) / 2,
		halfH: float32(height) / 2,
	}
}

// Handle records one event. Events after Detach are ignored.
func (t *Tracker) Handle(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.detached {
		return
	}

	switch e.Type {
	case EventMouseMove:
		// Offset from the viewport center, halved.
		t.pointer = math.Vec2{
			X: (e.X - t.halfW) / 2,
			Y: (e.Y - t.halfH) / 2,
		}.Sanitize()
	case EventWindowResize:
		t.halfW = float32(e.Width) / 2
		t.halfH = float32(e.Height) / 2
	}
}

// HandleAll records a batch of events in order.
func (t *Tracker) HandleAll(events []Event) {
	for _, e := range events {
		t.Handle(e)
	}
}

// State returns the latest snapshot for interaction controllers.
func (t *Tracker) State() interaction.InputState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return interaction.InputState{
		Pointer:    t.pointer,
		HalfWidth:  t.halfW,
		HalfHeight: t.halfH,
	}
}

// Detach stops the tracker from accepting events.
func (t *Tracker) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.detached = true
}

// Detached reports whether Detach was called.
func (t *Tracker) Detached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.detached
}
