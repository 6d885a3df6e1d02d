package maskedit

import (
	"image"
	"testing"
)

func newLoadedEditor(t *testing.T, w, h int) *Editor {
	t.Helper()
	e := NewEditor()
	if err := e.Load(w, h); err != nil {
		t.Fatalf("load: %v", err)
	}
	e.SetContainerSize(float64(w), float64(h))
	return e
}

func TestEditorLoad(t *testing.T) {
	e := NewEditor()
	if e.Loaded() {
		t.Fatal("fresh editor should have no mask")
	}
	if err := e.Load(0, 10); err == nil {
		t.Error("zero width should be rejected")
	}
	if err := e.Load(300, 200); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !e.Loaded() || e.Mask().Width() != 300 || e.Mask().Height() != 200 {
		t.Errorf("mask = %dx%d", e.Mask().Width(), e.Mask().Height())
	}
	if st := e.HistoryState(); st.CanUndo || st.CanRedo {
		t.Errorf("fresh history state = %+v", st)
	}
}

func TestEditorLoadImage(t *testing.T) {
	e := NewEditor()
	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	if err := e.LoadImage(img); err != nil {
		t.Fatalf("load image: %v", err)
	}
	if e.Mask().Width() != 120 || e.Mask().Height() != 80 {
		t.Errorf("mask = %dx%d, want image dimensions", e.Mask().Width(), e.Mask().Height())
	}
	if e.Base() == nil {
		t.Error("base image should be retained for preview")
	}
}

func TestEditorStrokeFlow(t *testing.T) {
	e := newLoadedEditor(t, 200, 200)

	if !e.StartBrushStroke(50, 50, 20, Paint) {
		t.Fatal("start should succeed from idle")
	}
	if !e.ContinueBrushStroke(80, 50) {
		t.Fatal("continue should succeed while drawing")
	}
	if !e.EndBrushStroke() {
		t.Fatal("end should succeed while drawing")
	}

	if e.Mask().At(50, 50) != Masked || e.Mask().At(80, 50) != Masked {
		t.Error("stroke endpoints should be painted")
	}
	st := e.HistoryState()
	if !st.CanUndo || st.StrokeCount != 1 {
		t.Errorf("history after stroke = %+v", st)
	}
}

func TestEditorRaceGuards(t *testing.T) {
	e := newLoadedEditor(t, 100, 100)

	// Move and end with no active gesture: logged, dropped, no mutation.
	if e.ContinueBrushStroke(10, 10) {
		t.Error("move while idle must be dropped")
	}
	if e.EndBrushStroke() {
		t.Error("end while idle must be dropped")
	}
	if e.Mask().MaskedPixels() != 0 {
		t.Error("dropped events must not touch the mask")
	}

	e.StartBrushStroke(50, 50, 10, Paint)
	if e.StartBrushStroke(20, 20, 10, Paint) {
		t.Error("start while drawing must be dropped")
	}
	if e.Mask().At(20, 20) == Masked {
		t.Error("dropped start must not stamp")
	}
	e.EndBrushStroke()
}

func TestEditorCancelKeepsStamps(t *testing.T) {
	e := newLoadedEditor(t, 100, 100)

	if e.CancelBrushStroke() {
		t.Error("cancel while idle is a benign no-op returning false")
	}

	e.StartBrushStroke(50, 50, 10, Paint)
	e.ContinueBrushStroke(60, 50)
	if !e.CancelBrushStroke() {
		t.Fatal("cancel while drawing should succeed")
	}

	if e.Mask().At(50, 50) != Masked {
		t.Error("stamps applied before cancel stay in the mask")
	}
	if e.HistoryState().CanUndo {
		t.Error("a cancelled gesture must not checkpoint")
	}
	// The editor is back in Idle and a new gesture works.
	if !e.StartBrushStroke(10, 10, 10, Paint) {
		t.Error("new stroke should start after cancel")
	}
	e.EndBrushStroke()
}

func TestEditorUndoRedoSwap(t *testing.T) {
	e := newLoadedEditor(t, 100, 100)

	e.StartBrushStroke(30, 30, 16, Paint)
	e.EndBrushStroke()
	if e.Mask().At(30, 30) != Masked {
		t.Fatal("stroke should paint")
	}

	if !e.Undo() {
		t.Fatal("undo should succeed")
	}
	if e.Mask().At(30, 30) != Protected {
		t.Error("undo should restore the empty mask")
	}
	if !e.HistoryState().CanRedo {
		t.Error("undo enables redo")
	}

	if !e.Redo() {
		t.Fatal("redo should succeed")
	}
	if e.Mask().At(30, 30) != Masked {
		t.Error("redo should reapply the stroke")
	}

	if e.Undo() && e.Undo() {
		t.Error("undo past the bottom should report false")
	}
}

func TestEditorUndoBlockedWhileDrawing(t *testing.T) {
	e := newLoadedEditor(t, 100, 100)

	e.StartBrushStroke(30, 30, 16, Paint)
	e.EndBrushStroke()

	e.StartBrushStroke(60, 60, 16, Paint)
	if e.Undo() {
		t.Error("undo during an active gesture must be a no-op")
	}
	if e.Redo() {
		t.Error("redo during an active gesture must be a no-op")
	}
	e.EndBrushStroke()
}

func TestEditorClearMask(t *testing.T) {
	e := newLoadedEditor(t, 100, 100)

	e.StartBrushStroke(50, 50, 30, Paint)
	e.EndBrushStroke()

	if !e.ClearMask() {
		t.Fatal("clear of a painted mask should checkpoint")
	}
	if e.Mask().MaskedPixels() != 0 {
		t.Error("clear should zero the mask")
	}
	if !e.Undo() {
		t.Fatal("the clear itself should be undoable")
	}
	if e.Mask().MaskedPixels() == 0 {
		t.Error("undoing the clear should restore the stroke")
	}

	// Clearing an already-empty mask changes nothing.
	e2 := newLoadedEditor(t, 50, 50)
	if e2.ClearMask() {
		t.Error("clearing an empty mask should not checkpoint")
	}
}

func TestEditorBrushSizeClamp(t *testing.T) {
	e := NewEditor()
	e.SetBrushSize(0)
	if e.BrushSize() != MinBrushSize {
		t.Errorf("size = %d, want clamp to %d", e.BrushSize(), MinBrushSize)
	}
	e.SetBrushSize(10_000)
	if e.BrushSize() != MaxBrushSize {
		t.Errorf("size = %d, want clamp to %d", e.BrushSize(), MaxBrushSize)
	}
	e.SetBrushSize(40)
	e.AdjustBrushSize(-5)
	if e.BrushSize() != 35 {
		t.Errorf("size = %d, want 35", e.BrushSize())
	}
	e.SetBrushMode(Erase)
	if e.BrushMode() != Erase {
		t.Errorf("mode = %v, want Erase", e.BrushMode())
	}
}

func TestEditorSchedulerPipeline(t *testing.T) {
	e := newLoadedEditor(t, 100, 100)

	var painted []image.Rectangle
	e.OnPaint(func(r image.Rectangle) { painted = append(painted, r) })

	var cursorStates []CursorState
	e.OnCursor(func(s CursorState) { cursorStates = append(cursorStates, s) })

	// Drain the load-time dirty region first.
	e.Scheduler().RunFrame()
	painted = painted[:0]

	// Raw pointer events flow through input -> stroke channel -> brush.
	e.Pointers().Handle(PointerEvent{Action: PointerDown, ID: 1, SX: 20, SY: 20})
	e.Pointers().Handle(PointerEvent{Action: PointerMove, ID: 1, SX: 40, SY: 20})
	e.Pointers().Handle(PointerEvent{Action: PointerUp, ID: 1, SX: 40, SY: 20})

	if e.Mask().MaskedPixels() != 0 {
		t.Fatal("nothing may mutate before the frame flush")
	}

	// One frame applies the stroke batch; the paint channel flushes after
	// the stroke channel, so the combined region is delivered in the same
	// frame.
	e.Scheduler().RunFrame()
	if e.Mask().MaskedPixels() == 0 {
		t.Fatal("frame flush should apply the stroke")
	}

	if len(painted) != 1 {
		t.Fatalf("paint deliveries = %d, want 1 combined region", len(painted))
	}
	if painted[0].Empty() {
		t.Error("combined dirty region should not be empty")
	}
	if len(cursorStates) == 0 {
		t.Error("cursor channel should have delivered a state")
	}
	if st := e.HistoryState(); st.StrokeCount != 1 {
		t.Errorf("stroke count = %d, want 1", st.StrokeCount)
	}
}

func TestEditorZoomInvalidatesView(t *testing.T) {
	e := newLoadedEditor(t, 100, 100)

	var painted int
	e.OnPaint(func(image.Rectangle) { painted++ })
	e.Scheduler().RunFrame()
	painted = 0

	e.Viewport().ZoomAt(50, 50, 1.5)
	e.Scheduler().RunFrame()
	if painted != 1 {
		t.Errorf("transform change should schedule one full repaint, got %d", painted)
	}
}
