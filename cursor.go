package maskedit

// CursorState describes the brush cursor preview overlay for one frame:
// where it sits in screen space, how large the brush appears under the
// current zoom, and which mode styling to use.
type CursorState struct {
	SX, SY float64

	// Diameter is the on-screen brush diameter (brush size x view scale).
	Diameter float64

	// Mode selects the visual treatment (paint vs erase).
	Mode Mode

	// Visible is false while the pointer is off the drawing surface.
	Visible bool
}

// CursorOverlay maintains the cursor preview state and schedules updates
// through the render scheduler's cursor channel, one delivery per frame at
// most. Consumers take the last state of each batch; earlier positions
// within a frame are stale by definition.
type CursorOverlay struct {
	ch    *Channel[CursorState]
	vp    *Viewport
	size  int
	mode  Mode
	state CursorState
}

// NewCursorOverlay creates an overlay publishing on ch.
func NewCursorOverlay(vp *Viewport, ch *Channel[CursorState]) *CursorOverlay {
	return &CursorOverlay{ch: ch, vp: vp, size: MinBrushSize}
}

// SetBrush updates the brush size and mode the cursor previews.
func (c *CursorOverlay) SetBrush(size int, mode Mode) {
	if size < MinBrushSize {
		size = MinBrushSize
	}
	c.size = size
	c.mode = mode
	c.publish()
}

// Track moves the cursor to a screen position. onSurface false hides the
// cursor (pointer left the valid drawing surface); it re-shows on
// re-entry.
func (c *CursorOverlay) Track(sx, sy float64, onSurface bool) {
	c.state.SX = sx
	c.state.SY = sy
	c.state.Visible = onSurface
	c.publish()
}

// Refresh republishes the cursor after a transform change so the preview
// diameter follows the zoom level.
func (c *CursorOverlay) Refresh() {
	c.publish()
}

// State returns the most recently published state.
func (c *CursorOverlay) State() CursorState { return c.state }

func (c *CursorOverlay) publish() {
	c.state.Diameter = float64(c.size) * c.vp.Transform().Scale
	c.state.Mode = c.mode
	if c.ch != nil {
		c.ch.Schedule(c.state)
	}
}

// LastCursorState returns the effective state of a cursor batch: the last
// entry wins.
func LastCursorState(batch []CursorState) (CursorState, bool) {
	if len(batch) == 0 {
		return CursorState{}, false
	}
	return batch[len(batch)-1], true
}
