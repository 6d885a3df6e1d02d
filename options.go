package maskedit

// MaxBrushSize is the upper end of the brush size range offered to users.
// The engine itself has no upper bound (oversized brushes simply clip);
// this limit is enforced where sizes enter from UI controls.
const MaxBrushSize = 200

// EditorOption configures an Editor during creation.
// Use functional options to customize Editor behavior.
//
// Example:
//
//	// Defaults: serial stamping, 32 MiB history, zoom 0.1..10.
//	ed := maskedit.NewEditor()
//
//	// Parallel stamping and a tighter history budget.
//	ed := maskedit.NewEditor(
//		maskedit.WithStamper(maskedit.NewParallelStamper(0)),
//		maskedit.WithHistoryBudget(8<<20),
//	)
type EditorOption func(*editorOptions)

// editorOptions holds optional configuration for Editor creation.
type editorOptions struct {
	minZoom       float64
	maxZoom       float64
	historyBudget int
	stamper       Stamper
	scheduler     *Scheduler
}

// defaultEditorOptions returns the default editor options.
func defaultEditorOptions() editorOptions {
	return editorOptions{
		minZoom:       DefaultMinZoom,
		maxZoom:       DefaultMaxZoom,
		historyBudget: DefaultHistoryBudget,
		stamper:       nil, // Resolved to RegisteredStamper in NewEditor
		scheduler:     nil, // Created if nil
	}
}

// WithZoomRange sets the allowed viewport scale range.
func WithZoomRange(minZoom, maxZoom float64) EditorOption {
	return func(o *editorOptions) {
		if minZoom > 0 && maxZoom >= minZoom {
			o.minZoom = minZoom
			o.maxZoom = maxZoom
		}
	}
}

// WithHistoryBudget bounds the resident undo/redo checkpoint bytes.
func WithHistoryBudget(bytes int) EditorOption {
	return func(o *editorOptions) {
		if bytes > 0 {
			o.historyBudget = bytes
		}
	}
}

// WithStamper injects the segment stamper used for brush interpolation.
// Use this to opt a single editor in or out of parallel stamping without
// touching the package-level registration.
func WithStamper(s Stamper) EditorOption {
	return func(o *editorOptions) {
		o.stamper = s
	}
}

// WithScheduler shares an externally owned scheduler instead of creating
// one per editor. Useful when several views batch onto the same frame tick.
func WithScheduler(s *Scheduler) EditorOption {
	return func(o *editorOptions) {
		o.scheduler = s
	}
}
