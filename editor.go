package maskedit

import (
	"errors"
	"image"
)

// ErrNotLoaded is returned by operations requiring a loaded mask.
var ErrNotLoaded = errors.New("maskedit: no image loaded")

// strokeState is the coordinator's gesture state machine:
// Idle -> Drawing -> Idle, with the cancel path landing back in Idle.
type strokeState int

const (
	stateIdle strokeState = iota
	stateDrawing
)

// Editor is the top-level coordinator of an editing session. It owns the
// mask buffer exclusively and composes the brush engine, viewport, history
// manager, render scheduler and input engine into the stroke, undo/redo
// and export operations a frontend consumes.
//
// All mutation happens on the goroutine driving the scheduler; the Editor
// relies on that single-threaded event-loop discipline plus the explicit
// stroke state machine instead of locks.
type Editor struct {
	mask *Mask
	base image.Image // optional backdrop for preview rendering

	vp       *Viewport
	engine   *BrushEngine
	history  *History
	sched    *Scheduler
	strokes  *Channel[StrokeEvent]
	paints   *Channel[image.Rectangle]
	cursorCh *Channel[CursorState]
	cursor   *CursorOverlay
	pointers *Pointers
	dirty    *DirtyTracker

	paintFn  func(image.Rectangle)
	cursorFn func(CursorState)

	state         strokeState
	strokeDirty   image.Rectangle
	strokeChanged bool

	brushSize     int
	brushMode     Mode
	historyBudget int
	ownSched      bool
}

// NewEditor creates an editor with no mask loaded. Call Load or LoadImage
// before drawing.
func NewEditor(opts ...EditorOption) *Editor {
	o := defaultEditorOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Editor{
		vp:            NewViewport(),
		dirty:         NewDirtyTracker(),
		brushSize:     16,
		brushMode:     Paint,
		historyBudget: o.historyBudget,
	}
	e.vp.SetZoomRange(o.minZoom, o.maxZoom)

	stamper := o.stamper
	if stamper == nil {
		stamper = RegisteredStamper()
	}
	e.engine = NewBrushEngine(stamper)

	e.sched = o.scheduler
	if e.sched == nil {
		e.sched = NewScheduler()
		e.ownSched = true
	}

	e.strokes = NewChannel(e.sched, "stroke", e.applyStrokeBatch)
	e.strokes.SortBatch(StrokeEventOrder)
	e.paints = NewChannel(e.sched, "paint", e.deliverPaint)
	e.cursorCh = NewChannel(e.sched, "cursor", e.deliverCursor)

	e.cursor = NewCursorOverlay(e.vp, e.cursorCh)
	e.cursor.SetBrush(e.brushSize, e.brushMode)
	e.pointers = NewPointers(e.vp, e.strokes, e.cursor)

	e.vp.OnChange(func(Transform) {
		e.cursor.Refresh()
		if e.mask != nil {
			e.markDirty(e.mask.Bounds())
		}
	})

	return e
}

// Load allocates a zero-filled (fully unmasked) mask at the given pixel
// dimensions and resets history. Dimensions are fixed for the session.
func (e *Editor) Load(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("maskedit: mask dimensions must be positive")
	}
	e.mask = NewMask(width, height)
	e.base = nil
	e.history = NewHistory(width, height, e.historyBudget)
	e.history.Reset(e.mask.Data())
	e.state = stateIdle
	e.engine.CancelStroke()

	e.vp.SetImageSize(width, height)
	e.vp.FitContain()
	e.markDirty(e.mask.Bounds())
	return nil
}

// LoadImage loads a base image: the mask is allocated zero-filled at the
// image's exact pixel dimensions and the image becomes the preview
// backdrop.
func (e *Editor) LoadImage(img image.Image) error {
	b := img.Bounds()
	if err := e.Load(b.Dx(), b.Dy()); err != nil {
		return err
	}
	e.base = img
	return nil
}

// Loaded reports whether a mask is allocated.
func (e *Editor) Loaded() bool { return e.mask != nil }

// Mask returns the mask buffer. The editor remains its only writer.
func (e *Editor) Mask() *Mask { return e.mask }

// Base returns the preview backdrop image, or nil.
func (e *Editor) Base() image.Image { return e.base }

// Viewport returns the zoom/pan controller.
func (e *Editor) Viewport() *Viewport { return e.vp }

// Pointers returns the input engine feeding this editor.
func (e *Editor) Pointers() *Pointers { return e.pointers }

// Scheduler returns the render scheduler. Frontends drive frames through
// it (RunFrame per display tick).
func (e *Editor) Scheduler() *Scheduler { return e.sched }

// Cursor returns the brush cursor overlay.
func (e *Editor) Cursor() *CursorOverlay { return e.cursor }

// HistoryState returns the current undo/redo affordances.
// UI enablement is driven by this and nothing else.
func (e *Editor) HistoryState() HistoryState {
	if e.history == nil {
		return HistoryState{}
	}
	return e.history.State()
}

// OnPaint registers the redraw callback receiving each frame's combined
// dirty rectangle in image space.
func (e *Editor) OnPaint(fn func(image.Rectangle)) { e.paintFn = fn }

// OnCursor registers the cursor overlay callback receiving the effective
// cursor state once per frame.
func (e *Editor) OnCursor(fn func(CursorState)) { e.cursorFn = fn }

// SetContainerSize updates the display container and refits the view.
func (e *Editor) SetContainerSize(w, h float64) {
	e.vp.SetContainerSize(w, h)
	if e.mask != nil {
		e.vp.FitContain()
	}
}

// BrushSize returns the current brush diameter.
func (e *Editor) BrushSize() int { return e.brushSize }

// BrushMode returns the current paint/erase mode.
func (e *Editor) BrushMode() Mode { return e.brushMode }

// SetBrushSize sets the brush diameter, clamped to [MinBrushSize,
// MaxBrushSize].
func (e *Editor) SetBrushSize(size int) {
	if size < MinBrushSize {
		size = MinBrushSize
	}
	if size > MaxBrushSize {
		size = MaxBrushSize
	}
	e.brushSize = size
	e.cursor.SetBrush(e.brushSize, e.brushMode)
}

// AdjustBrushSize changes the brush diameter by delta, clamped.
// Keyboard size shortcuts land here.
func (e *Editor) AdjustBrushSize(delta int) {
	e.SetBrushSize(e.brushSize + delta)
}

// SetBrushMode selects the paint or erase tool.
func (e *Editor) SetBrushMode(m Mode) {
	e.brushMode = m
	e.cursor.SetBrush(e.brushSize, e.brushMode)
}

// StartBrushStroke begins a gesture at image point (x, y). Valid only from
// Idle; a start arriving while another gesture is active is logged and
// dropped.
func (e *Editor) StartBrushStroke(x, y, size int, mode Mode) bool {
	if e.mask == nil {
		return false
	}
	if e.state != stateIdle {
		Logger().Warn("maskedit: stroke start while drawing, dropped", "x", x, "y", y)
		return false
	}

	rect, changed, err := e.engine.StartStroke(e.mask, Pt(float64(x), float64(y)), size, mode)
	if err != nil {
		// Engine and coordinator state diverged; resync to Idle.
		Logger().Warn("maskedit: brush engine rejected stroke start", "err", err)
		e.engine.CancelStroke()
		e.state = stateIdle
		return false
	}
	e.state = stateDrawing
	e.strokeDirty = rect
	e.strokeChanged = changed
	e.markDirty(rect)
	return true
}

// ContinueBrushStroke extends the active gesture. A move event delivered
// while Idle — the input pipeline can reorder a move ahead of its start —
// is an expected race, logged as a warning and discarded without touching
// the mask.
func (e *Editor) ContinueBrushStroke(x, y int) bool {
	if e.state != stateDrawing {
		Logger().Warn("maskedit: stroke move while idle, dropped", "x", x, "y", y)
		return false
	}

	rect, changed, err := e.engine.ContinueStroke(e.mask, Pt(float64(x), float64(y)))
	if err != nil {
		Logger().Warn("maskedit: brush engine rejected stroke move", "err", err)
		e.state = stateIdle
		return false
	}
	e.strokeDirty = e.strokeDirty.Union(rect)
	if changed {
		e.strokeChanged = true
	}
	e.markDirty(rect)
	return true
}

// EndBrushStroke finalizes the active gesture, pushes a history checkpoint
// for it and returns to Idle. An end without a matching start is the same
// tolerated race as in ContinueBrushStroke.
func (e *Editor) EndBrushStroke() bool {
	if e.state != stateDrawing {
		Logger().Warn("maskedit: stroke end while idle, dropped")
		return false
	}

	s, err := e.engine.EndStroke()
	if err != nil {
		Logger().Warn("maskedit: brush engine rejected stroke end", "err", err)
		e.state = stateIdle
		return false
	}
	e.state = stateIdle

	if e.strokeChanged {
		e.history.Push(e.mask.Data(), e.strokeDirty)
	}
	e.markDirty(e.strokeDirty)
	Logger().Debug("maskedit: stroke committed",
		"points", len(s.Points), "mode", s.Mode.String(), "size", s.Size,
		"changed", e.strokeChanged)
	return true
}

// CancelBrushStroke discards the active gesture without a history
// checkpoint. Stamps already applied stay in the mask: stamping is eager,
// cancellation only stops further accumulation. Cancelling while Idle is a
// benign no-op.
func (e *Editor) CancelBrushStroke() bool {
	if e.state != stateDrawing {
		return false
	}
	e.engine.CancelStroke()
	e.state = stateIdle
	e.markDirty(e.strokeDirty)
	return true
}

// Undo restores the previous committed state by swapping in a fresh
// buffer. No-op while a gesture is active or when nothing is undoable.
func (e *Editor) Undo() bool {
	if e.mask == nil || e.state != stateIdle {
		return false
	}
	data, ok := e.history.Undo(e.mask.Data())
	if !ok {
		return false
	}
	e.mask.setData(data)
	e.markDirty(e.mask.Bounds())
	return true
}

// Redo restores the most recently undone state.
func (e *Editor) Redo() bool {
	if e.mask == nil || e.state != stateIdle {
		return false
	}
	data, ok := e.history.Redo(e.mask.Data())
	if !ok {
		return false
	}
	e.mask.setData(data)
	e.markDirty(e.mask.Bounds())
	return true
}

// ClearMask returns every pixel to Protected, checkpointing the previous
// state so the clear itself is undoable.
func (e *Editor) ClearMask() bool {
	if e.mask == nil || e.state != stateIdle {
		return false
	}
	e.mask.Clear()
	pushed := e.history.Push(e.mask.Data(), image.Rectangle{})
	e.markDirty(e.mask.Bounds())
	return pushed
}

// ClearHistory drops all undo/redo entries without touching the mask.
func (e *Editor) ClearHistory() {
	if e.history != nil {
		e.history.Clear()
	}
}

// markDirty queues an image-space region for the next frame's redraw.
func (e *Editor) markDirty(r image.Rectangle) {
	if r.Empty() {
		return
	}
	e.paints.Schedule(r)
}

// applyStrokeBatch replays one frame's stroke events in type-priority then
// timestamp order. The variant switch is exhaustive; unknown types cannot
// be constructed.
func (e *Editor) applyStrokeBatch(batch []StrokeEvent) {
	for _, ev := range batch {
		switch ev.Type {
		case StrokeStart:
			e.StartBrushStroke(ev.X, ev.Y, e.brushSize, e.brushMode)
		case StrokeMove:
			e.ContinueBrushStroke(ev.X, ev.Y)
		case StrokeEnd:
			e.EndBrushStroke()
		case StrokeCancel:
			e.CancelBrushStroke()
		}
	}
}

// deliverPaint merges the frame's dirty rectangles and hands the combined
// region to the registered paint callback.
func (e *Editor) deliverPaint(rects []image.Rectangle) {
	for _, r := range rects {
		e.dirty.Add(r)
	}
	combined, ok := e.dirty.Take()
	if !ok {
		return
	}
	if e.paintFn != nil {
		e.paintFn(combined)
	}
}

// deliverCursor forwards the frame's effective cursor state.
func (e *Editor) deliverCursor(batch []CursorState) {
	state, ok := LastCursorState(batch)
	if !ok || e.cursorFn == nil {
		return
	}
	e.cursorFn(state)
}
