package maskedit

import "time"

// EventType tags a normalized stroke lifecycle event.
type EventType uint8

const (
	// StrokeStart begins a gesture.
	StrokeStart EventType = iota

	// StrokeMove extends the active gesture.
	StrokeMove

	// StrokeEnd finalizes the gesture.
	StrokeEnd

	// StrokeCancel discards the gesture without a history checkpoint.
	StrokeCancel
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case StrokeStart:
		return "start"
	case StrokeMove:
		return "move"
	case StrokeEnd:
		return "end"
	case StrokeCancel:
		return "cancel"
	}
	return "unknown"
}

// priority orders batched events within one frame: a delayed start must
// replay before the moves that followed it. End and cancel share the
// lowest priority.
func (t EventType) priority() int {
	switch t {
	case StrokeStart:
		return 0
	case StrokeMove:
		return 1
	default:
		return 2
	}
}

// StrokeEvent is one normalized stroke lifecycle event in image-space
// coordinates. The input engine produces a single ordered logical stream
// of these regardless of the pointer device mix.
type StrokeEvent struct {
	Type EventType
	X, Y int
	Time time.Time
}

// StrokeEventOrder is the batch ordering for the stroke channel: type
// priority first (start > move > end = cancel), then timestamp ascending.
func StrokeEventOrder(a, b StrokeEvent) bool {
	pa, pb := a.Type.priority(), b.Type.priority()
	if pa != pb {
		return pa < pb
	}
	return a.Time.Before(b.Time)
}

// Device identifies the pointer hardware class. The engine treats all
// devices uniformly for stroke purposes; the distinction is kept for
// diagnostics and future gesture use.
type Device uint8

const (
	// Mouse input.
	Mouse Device = iota

	// Touch input (finger).
	Touch

	// Pen input (stylus, may report pressure).
	Pen
)

// PointerAction is the raw device-event kind before normalization.
type PointerAction uint8

const (
	// PointerDown: contact or button press.
	PointerDown PointerAction = iota

	// PointerMove: position change, contact or hover.
	PointerMove

	// PointerUp: contact or button release.
	PointerUp

	// PointerCancel: the device or host aborted the interaction.
	PointerCancel
)

// PointerEvent is one raw pointer-device event in screen coordinates.
type PointerEvent struct {
	Action PointerAction
	Device Device

	// ID distinguishes simultaneous pointers (touch contacts).
	ID int

	// SX, SY are screen-space coordinates in the container box.
	SX, SY float64

	Time time.Time
}

// noPointer marks the primary slot as unclaimed.
const noPointer = -1

// Pointers normalizes heterogeneous pointer input (mouse, touch, pen,
// possibly several at once) into the single ordered stroke-event stream
// the coordinator consumes. Only the first active pointer drives drawing;
// additional simultaneous pointers are ignored for stroke purposes.
//
// Coordinate conversion and hit-testing go through the Viewport; stroke
// events and cursor-overlay updates are scheduled, never dispatched
// synchronously.
type Pointers struct {
	vp      *Viewport
	strokes *Channel[StrokeEvent]
	cursor  *CursorOverlay

	primary int
	inside  bool
	now     func() time.Time
}

// NewPointers creates an input engine feeding the given stroke channel.
// cursor may be nil when no overlay is displayed.
func NewPointers(vp *Viewport, strokes *Channel[StrokeEvent], cursor *CursorOverlay) *Pointers {
	return &Pointers{
		vp:      vp,
		strokes: strokes,
		cursor:  cursor,
		primary: noPointer,
		now:     time.Now,
	}
}

// Handle normalizes one raw pointer event. Events from non-primary
// pointers only affect the cursor overlay; off-surface positions are "no
// target" and hide the cursor, and leaving the surface mid-gesture cancels
// the stroke.
func (p *Pointers) Handle(ev PointerEvent) {
	if ev.Time.IsZero() {
		ev.Time = p.now()
	}

	x, y, ok := p.vp.ScreenToImage(ev.SX, ev.SY)
	if p.cursor != nil {
		p.cursor.Track(ev.SX, ev.SY, ok)
	}

	switch ev.Action {
	case PointerDown:
		if p.primary != noPointer {
			// A second simultaneous pointer; reserved for future
			// gestures, ignored for strokes.
			return
		}
		if !ok {
			return
		}
		p.primary = ev.ID
		p.inside = true
		p.emit(StrokeStart, x, y, ev.Time)

	case PointerMove:
		if p.primary == noPointer || ev.ID != p.primary {
			return
		}
		if !ok {
			// Left the drawing surface mid-gesture.
			if p.inside {
				p.inside = false
				p.primary = noPointer
				p.emit(StrokeCancel, 0, 0, ev.Time)
			}
			return
		}
		p.emit(StrokeMove, x, y, ev.Time)

	case PointerUp:
		if p.primary == noPointer || ev.ID != p.primary {
			return
		}
		p.primary = noPointer
		p.inside = false
		if ok {
			p.emit(StrokeEnd, x, y, ev.Time)
		} else {
			p.emit(StrokeCancel, 0, 0, ev.Time)
		}

	case PointerCancel:
		if p.primary == noPointer || ev.ID != p.primary {
			return
		}
		p.primary = noPointer
		p.inside = false
		p.emit(StrokeCancel, 0, 0, ev.Time)
	}
}

// Dragging reports whether a primary pointer currently owns a gesture.
func (p *Pointers) Dragging() bool { return p.primary != noPointer }

func (p *Pointers) emit(t EventType, x, y int, at time.Time) {
	p.strokes.Schedule(StrokeEvent{Type: t, X: x, Y: y, Time: at})
}
