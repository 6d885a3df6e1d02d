package maskedit

import (
	"errors"
	"image"
	"math"
	"time"
)

// SpacingFactor is the fixed stamp spacing along a stroke segment,
// expressed as a fraction of the brush diameter. Stamps placed every
// 0.35*diameter pixels keep the painted band continuous at any pointer
// speed without redundant overdraw.
const SpacingFactor = 0.35

// MinBrushSize is the smallest usable brush diameter: a single pixel.
// The engine has no upper bound; oversized brushes simply clip against
// the buffer.
const MinBrushSize = 1

// ErrNoActiveStroke is returned when ContinueStroke or EndStroke is called
// with no stroke in progress. This is a caller error: the coordinator is
// responsible for guarding stroke lifecycle order and must never let a
// stray move event reach the engine.
var ErrNoActiveStroke = errors.New("maskedit: no active stroke")

// ErrStrokeActive is the sentinel returned by StartStroke while another
// stroke is still in progress. The caller must end or cancel it first.
var ErrStrokeActive = errors.New("maskedit: stroke already active")

// ApplyStamp paints or erases a filled disc of radius size/2 centered at
// (cx, cy). A pixel (px, py) is inside the disc iff
//
//	(px-cx)^2 + (py-cy)^2 <= r^2
//
// evaluated over the disc's bounding box intersected with the buffer
// bounds; pixels outside the buffer are silently skipped. Returns true iff
// at least one pixel value actually changed, which is the idempotence
// signal the dirty-rect and history paths rely on.
func ApplyStamp(m *Mask, cx, cy, size int, mode Mode) bool {
	if size < MinBrushSize {
		return false
	}
	r := size / 2
	value := mode.Value()

	x0, y0 := max(cx-r, 0), max(cy-r, 0)
	x1, y1 := min(cx+r, m.width-1), min(cy+r, m.height-1)

	changed := false
	r2 := r * r
	for py := y0; py <= y1; py++ {
		dy := py - cy
		row := py * m.width
		for px := x0; px <= x1; px++ {
			dx := px - cx
			if dx*dx+dy*dy > r2 {
				continue
			}
			if m.data[row+px] != value {
				m.data[row+px] = value
				changed = true
			}
		}
	}
	return changed
}

// StampRect returns the dirty rectangle a stamp at (cx, cy) touches,
// clipped to the mask bounds. The rectangle is empty when the stamp falls
// entirely outside the buffer.
func StampRect(m *Mask, cx, cy, size int) image.Rectangle {
	r := size / 2
	return image.Rect(cx-r, cy-r, cx+r+1, cy+r+1).Intersect(m.Bounds())
}

// StampSpacing returns the image-space distance between consecutive stamps
// for the given brush size, never less than one pixel.
func StampSpacing(size int) float64 {
	s := math.Floor(float64(size) * SpacingFactor)
	if s < 1 {
		return 1
	}
	return s
}

// StampSegment places stamps from just after `from` up to and including
// `to`, spaced by StampSpacing(size), so a fast pointer movement still
// produces a continuous painted band. `from` itself is assumed to be
// already stamped by the previous call. Returns the combined dirty
// rectangle and whether any pixel changed.
func StampSegment(m *Mask, from, to Point, size int, mode Mode) (image.Rectangle, bool) {
	spacing := StampSpacing(size)
	dist := from.Distance(to)

	dirty := image.Rectangle{}
	changed := false

	stamp := func(p Point) {
		cx := int(math.Round(p.X))
		cy := int(math.Round(p.Y))
		if ApplyStamp(m, cx, cy, size, mode) {
			changed = true
		}
		dirty = dirty.Union(StampRect(m, cx, cy, size))
	}

	for d := spacing; d < dist; d += spacing {
		stamp(from.Lerp(to, d/dist))
	}
	stamp(to)

	return dirty, changed
}

// BrushEngine performs the pixel math of brush gestures. It is stateless
// with respect to the mask buffer (all stamping operates on the buffer
// passed in) and holds only the in-progress stroke plus the segment
// stamper used for interpolation.
//
// BrushEngine is not safe for concurrent use; it belongs to the editing
// loop that owns the mask.
type BrushEngine struct {
	active  *Stroke
	stamper Stamper
	now     func() time.Time
}

// NewBrushEngine creates a brush engine using the given segment stamper.
// A nil stamper selects the serial implementation.
func NewBrushEngine(stamper Stamper) *BrushEngine {
	if stamper == nil {
		stamper = SerialStamper{}
	}
	return &BrushEngine{stamper: stamper, now: time.Now}
}

// Active reports whether a stroke is currently in progress.
func (b *BrushEngine) Active() bool { return b.active != nil }

// StartStroke establishes a new active stroke at p and applies the initial
// stamp to m. Returns the stamp's dirty rectangle and whether any pixel
// changed. Returns ErrStrokeActive (a sentinel no-op, nothing is stamped)
// if a stroke is already in progress.
func (b *BrushEngine) StartStroke(m *Mask, p Point, size int, mode Mode) (image.Rectangle, bool, error) {
	if b.active != nil {
		return image.Rectangle{}, false, ErrStrokeActive
	}
	if size < MinBrushSize {
		size = MinBrushSize
	}
	b.active = &Stroke{
		Points:    []Point{p},
		Size:      size,
		Mode:      mode,
		StartedAt: b.now(),
	}
	cx := int(math.Round(p.X))
	cy := int(math.Round(p.Y))
	changed := ApplyStamp(m, cx, cy, size, mode)
	return StampRect(m, cx, cy, size), changed, nil
}

// ContinueStroke extends the active stroke to p, stamping the segment from
// the previous sample. Calling it with no active stroke is a caller error
// and returns ErrNoActiveStroke without touching the mask.
func (b *BrushEngine) ContinueStroke(m *Mask, p Point) (image.Rectangle, bool, error) {
	if b.active == nil {
		return image.Rectangle{}, false, ErrNoActiveStroke
	}
	from := b.active.Last()
	b.active.Append(p)

	dirty, changed, err := b.stamper.StampSegment(m, from, p, b.active.Size, b.active.Mode)
	if err != nil {
		// Offload stampers may opt out per segment; the serial path is
		// always available and always succeeds.
		Logger().Warn("maskedit: stamper fell back to serial path",
			"stamper", b.stamper.Name(), "err", err)
		dirty, changed = StampSegment(m, from, p, b.active.Size, b.active.Mode)
	}
	return dirty, changed, nil
}

// EndStroke finalizes the active stroke and returns it for history
// bookkeeping. Returns ErrNoActiveStroke if none is in progress.
func (b *BrushEngine) EndStroke() (*Stroke, error) {
	if b.active == nil {
		return nil, ErrNoActiveStroke
	}
	s := b.active
	b.active = nil
	s.EndedAt = b.now()
	return s, nil
}

// CancelStroke discards the active stroke, if any, and returns it.
// Already-applied stamps stay in the mask; cancellation only stops further
// accumulation.
func (b *BrushEngine) CancelStroke() *Stroke {
	s := b.active
	b.active = nil
	return s
}
