package maskedit

import (
	"errors"
	"image"
	"math"
	"sync"
	"sync/atomic"

	"github.com/maskedit/maskedit/internal/parallel"
)

// ErrFallbackToSerial indicates a stamper cannot handle this segment.
// The caller transparently falls back to the serial stamping path.
var ErrFallbackToSerial = errors.New("maskedit: falling back to serial stamping")

// Stamper performs segment stamping for the brush engine. It is the
// offload seam: the serial implementation runs inline, the parallel one
// fans disc rows out to a worker pool. Either way the call is synchronous;
// all pixel writes are visible when StampSegment returns, so no result
// ever lands after a redraw or a history checkpoint.
type Stamper interface {
	// Name returns the stamper name (e.g., "serial", "parallel").
	Name() string

	// StampSegment stamps the brush along (from, to], returning the
	// combined dirty rectangle and whether any pixel changed.
	// Returns ErrFallbackToSerial if the segment should be stamped
	// serially instead; any error degrades to the serial path.
	StampSegment(m *Mask, from, to Point, size int, mode Mode) (image.Rectangle, bool, error)
}

// SerialStamper is the default stamper: plain inline stamping.
type SerialStamper struct{}

// Name implements Stamper.
func (SerialStamper) Name() string { return "serial" }

// StampSegment implements Stamper. It never fails.
func (SerialStamper) StampSegment(m *Mask, from, to Point, size int, mode Mode) (image.Rectangle, bool, error) {
	dirty, changed := StampSegment(m, from, to, size, mode)
	return dirty, changed, nil
}

var (
	stamperMu sync.RWMutex
	stamper   Stamper = SerialStamper{}
)

// RegisterStamper registers the stamper new editors pick up by default.
// Only one stamper is registered at a time; a later call replaces the
// earlier one. Registration is idempotent and safe for concurrent use.
// Passing nil restores the serial default.
func RegisterStamper(s Stamper) {
	if s == nil {
		s = SerialStamper{}
	}
	stamperMu.Lock()
	stamper = s
	stamperMu.Unlock()
}

// RegisteredStamper returns the currently registered stamper.
func RegisteredStamper() Stamper {
	stamperMu.RLock()
	s := stamper
	stamperMu.RUnlock()
	return s
}

// parallelMinRows is the segment height below which parallel stamping is
// not worth the fan-out overhead and the segment is handed back to the
// serial path.
const parallelMinRows = 96

// ParallelStamper stamps segments by splitting the affected rows across a
// worker pool. Each worker owns a disjoint row band, so no two goroutines
// ever write the same pixel. Small segments opt out via
// ErrFallbackToSerial.
type ParallelStamper struct {
	pool *parallel.Pool
}

// NewParallelStamper creates a parallel stamper with the given worker
// count. A count of 0 or less uses GOMAXPROCS.
func NewParallelStamper(workers int) *ParallelStamper {
	return &ParallelStamper{pool: parallel.NewPool(workers)}
}

// Name implements Stamper.
func (p *ParallelStamper) Name() string { return "parallel" }

// Close releases the worker pool.
func (p *ParallelStamper) Close() { p.pool.Close() }

// StampSegment implements Stamper.
func (p *ParallelStamper) StampSegment(m *Mask, from, to Point, size int, mode Mode) (image.Rectangle, bool, error) {
	centers, dirty := segmentStamps(m, from, to, size)
	if dirty.Empty() || dirty.Dy() < parallelMinRows {
		return image.Rectangle{}, false, ErrFallbackToSerial
	}

	bands := p.pool.Workers()
	rows := dirty.Dy()
	bandH := (rows + bands - 1) / bands

	var changed atomic.Bool
	work := make([]func(), 0, bands)
	for i := 0; i < bands; i++ {
		y0 := dirty.Min.Y + i*bandH
		y1 := min(y0+bandH, dirty.Max.Y)
		if y0 >= y1 {
			break
		}
		work = append(work, func() {
			for _, c := range centers {
				if applyStampRows(m, c.X, c.Y, size, mode, y0, y1) {
					changed.Store(true)
				}
			}
		})
	}
	p.pool.ExecuteAll(work)

	return dirty, changed.Load(), nil
}

// segmentStamps returns the stamp centers StampSegment would use for the
// segment, plus their combined clipped bounding rectangle.
func segmentStamps(m *Mask, from, to Point, size int) ([]image.Point, image.Rectangle) {
	spacing := StampSpacing(size)
	dist := from.Distance(to)

	var centers []image.Point
	dirty := image.Rectangle{}
	add := func(p Point) {
		cx := int(math.Round(p.X))
		cy := int(math.Round(p.Y))
		centers = append(centers, image.Pt(cx, cy))
		dirty = dirty.Union(StampRect(m, cx, cy, size))
	}

	for d := spacing; d < dist; d += spacing {
		add(from.Lerp(to, d/dist))
	}
	add(to)

	return centers, dirty
}

// applyStampRows stamps the disc rows intersecting [y0, y1).
// The row restriction keeps concurrent band writes disjoint.
func applyStampRows(m *Mask, cx, cy, size int, mode Mode, y0, y1 int) bool {
	r := size / 2
	value := mode.Value()

	ry0 := max(max(cy-r, 0), y0)
	ry1 := min(min(cy+r, m.height-1), y1-1)
	x0, x1 := max(cx-r, 0), min(cx+r, m.width-1)

	changed := false
	r2 := r * r
	for py := ry0; py <= ry1; py++ {
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
