// Package maskedit implements an interactive binary mask editing core for
// preparing inpainting masks.
//
// # Overview
//
// maskedit operates on a strict binary single-channel mask (every committed
// pixel is exactly 0 or 255) and provides the pieces an interactive editor
// needs around it: a brush-stamping engine, a zoom/pan viewport, a
// frame-batched render scheduler, a memory-bounded undo/redo history and a
// pointer-input normalizer. The Editor type ties them together.
//
// # Quick Start
//
//	ed := maskedit.NewEditor()
//	if err := ed.Load(1024, 768); err != nil {
//		log.Fatal(err)
//	}
//
//	// One brush gesture: start, move, end.
//	ed.StartBrushStroke(100, 100, 32, maskedit.Paint)
//	ed.ContinueBrushStroke(200, 140)
//	ed.EndBrushStroke()
//
//	// Undo it again.
//	ed.Undo()
//
//	// Export at the exact image resolution.
//	res, err := ed.ExportPNG()
//
// # Architecture
//
// The library is organized into:
//   - Public API: Editor, Mask, BrushEngine, Viewport, Scheduler, History,
//     Pointers, FileStore
//   - Internal: tile (checkpoint diffing), parallel (stamp worker pool)
//   - Frontend: cmd/maskterm (terminal demo driving the input engine)
//
// # Coordinate Spaces
//
// Two coordinate spaces exist. Image space is integer pixels of the mask,
// origin top-left. Screen space is the container the mask is displayed in;
// the Viewport owns the affine map between them (scale + translation, no
// rotation). Brush math always runs in image space.
//
// # Concurrency
//
// The editing path is single-threaded and cooperative: pointer events are
// queued on the Scheduler and delivered in batches, at most once per display
// frame per channel. The mask has exactly one writer, the Editor. The
// optional stamp offload pool is synchronous from the caller's point of view,
// so no worker result ever lands after a redraw or history checkpoint.
package maskedit

// Version is the current version of the library.
const Version = "0.1.0"
