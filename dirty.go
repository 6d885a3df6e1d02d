package maskedit

import (
	"image"
	"sync"
)

// DirtyTracker accumulates image-space regions needing redraw within one
// scheduling frame. Rectangles are merged into their running bounding
// union: redrawing the merged rectangle is cheaper than tracking disjoint
// regions at interactive stroke rates.
//
// DirtyTracker is safe for concurrent use; input handling and the frame
// flush may run on different goroutines.
type DirtyTracker struct {
	mu    sync.Mutex
	rect  image.Rectangle
	dirty bool
}

// NewDirtyTracker creates an empty tracker.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{}
}

// Add merges r into the pending dirty region. Empty rectangles are ignored.
func (d *DirtyTracker) Add(r image.Rectangle) {
	if r.Empty() {
		return
	}
	d.mu.Lock()
	if d.dirty {
		d.rect = d.rect.Union(r)
	} else {
		d.rect = r
		d.dirty = true
	}
	d.mu.Unlock()
}

// Combined returns the pending bounding union without consuming it.
func (d *DirtyTracker) Combined() (image.Rectangle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rect, d.dirty
}

// Take returns the pending bounding union and resets the tracker.
// The paint callback consumes the region through this.
func (d *DirtyTracker) Take() (image.Rectangle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.rect, d.dirty
	d.rect = image.Rectangle{}
	d.dirty = false
	return r, ok
}
