// Package tile implements the tile decomposition history checkpoints are
// built from.
//
// A mask buffer is divided into 64x64 single-channel tiles. A checkpoint
// stores, for every tile that changed, the tile's byte contents both before
// and after the change. Storing both directions makes every checkpoint
// reversible on its own: undo applies the before side, redo the after side,
// and evicting old checkpoints never breaks a reconstruction chain.
package tile

import "image"

// Tile size constants. 64x64 single-channel tiles are 4KB each, small
// enough that a typical stroke touches a handful of them.
const (
	// Width is the width of a tile in pixels.
	Width = 64

	// Height is the height of a tile in pixels.
	Height = 64
)

// Side selects which side of a patch to apply.
type Side int

const (
	// Before is the tile contents prior to the change (undo direction).
	Before Side = iota

	// After is the tile contents following the change (redo direction).
	After
)

// Patch holds one changed tile of a checkpoint.
// Edge tiles may be smaller than Width x Height when the buffer is not
// evenly divisible by the tile size.
type Patch struct {
	// TX, TY are the tile grid coordinates (0-based).
	TX, TY int

	// Rect is the tile's pixel bounds in buffer space, clipped to the
	// buffer at the right and bottom edges.
	Rect image.Rectangle

	// BeforeData and AfterData are the tile's byte contents on each side
	// of the change, row-major, Rect.Dx() bytes per row.
	BeforeData []uint8
	AfterData  []uint8
}

// Bytes returns the resident size of the patch payload.
func (p *Patch) Bytes() int {
	return len(p.BeforeData) + len(p.AfterData)
}

// Grid describes the tile decomposition of a w x h buffer.
type Grid struct {
	W, H   int
	TilesX int
	TilesY int
}

// NewGrid creates the tile grid for a buffer of the given pixel size.
func NewGrid(w, h int) Grid {
	return Grid{
		W:      w,
		H:      h,
		TilesX: (w + Width - 1) / Width,
		TilesY: (h + Height - 1) / Height,
	}
}

// Tiles returns the total number of tiles in the grid.
func (g Grid) Tiles() int { return g.TilesX * g.TilesY }

// TileRect returns the pixel bounds of tile (tx, ty), clipped to the
// buffer at the edges.
func (g Grid) TileRect(tx, ty int) image.Rectangle {
	return image.Rect(tx*Width, ty*Height, (tx+1)*Width, (ty+1)*Height).
		Intersect(image.Rect(0, 0, g.W, g.H))
}

// CoveringTiles returns the tile coordinate bounds intersecting the pixel
// rectangle r, clipped to the grid. ok is false when r misses the grid
// entirely.
func (g Grid) CoveringTiles(r image.Rectangle) (tx0, ty0, tx1, ty1 int, ok bool) {
	r = r.Intersect(image.Rect(0, 0, g.W, g.H))
	if r.Empty() {
		return 0, 0, 0, 0, false
	}
	return r.Min.X / Width, r.Min.Y / Height,
		(r.Max.X - 1) / Width, (r.Max.Y - 1) / Height, true
}

// Diff compares two equal-length buffers tile by tile and returns a patch
// for every tile whose contents differ. Both buffers must be len(g.W*g.H).
func Diff(g Grid, before, after []uint8) []Patch {
	var patches []Patch
	for ty := 0; ty < g.TilesY; ty++ {
		for tx := 0; tx < g.TilesX; tx++ {
			r := g.TileRect(tx, ty)
			if tileEqual(g, before, after, r) {
				continue
			}
			patches = append(patches, Patch{
				TX:         tx,
				TY:         ty,
				Rect:       r,
				BeforeData: extract(g, before, r),
				AfterData:  extract(g, after, r),
			})
		}
	}
	return patches
}

// DiffRect is Diff restricted to tiles intersecting the pixel rectangle r.
// Callers that tracked the dirty region of a stroke use it to skip the
// untouched remainder of the buffer.
func DiffRect(g Grid, before, after []uint8, r image.Rectangle) []Patch {
	tx0, ty0, tx1, ty1, ok := g.CoveringTiles(r)
	if !ok {
		return nil
	}
	var patches []Patch
	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			tr := g.TileRect(tx, ty)
			if tileEqual(g, before, after, tr) {
				continue
			}
			patches = append(patches, Patch{
				TX:         tx,
				TY:         ty,
				Rect:       tr,
				BeforeData: extract(g, before, tr),
				AfterData:  extract(g, after, tr),
			})
		}
	}
	return patches
}

// Apply writes the selected side of every patch into dst.
// dst must be len(g.W*g.H).
func Apply(g Grid, dst []uint8, patches []Patch, side Side) {
	for i := range patches {
		p := &patches[i]
		data := p.AfterData
		if side == Before {
			data = p.BeforeData
		}
		insert(g, dst, p.Rect, data)
	}
}

// Bounds returns the combined pixel bounds of the patches.
func Bounds(patches []Patch) image.Rectangle {
	var r image.Rectangle
	for i := range patches {
		r = r.Union(patches[i].Rect)
	}
	return r
}

// BytesOf returns the total resident size of the patches.
func BytesOf(patches []Patch) int {
	n := 0
	for i := range patches {
		n += patches[i].Bytes()
	}
	return n
}

func tileEqual(g Grid, a, b []uint8, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * g.W
		for x := r.Min.X; x < r.Max.X; x++ {
			if a[row+x] != b[row+x] {
				return false
			}
		}
	}
	return true
}

func extract(g Grid, src []uint8, r image.Rectangle) []uint8 {
	out := make([]uint8, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * g.W
		out = append(out, src[row+r.Min.X:row+r.Max.X]...)
	}
	return out
}

func insert(g Grid, dst []uint8, r image.Rectangle, data []uint8) {
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * g.W
		copy(dst[row+r.Min.X:row+r.Max.X], data[(y-r.Min.Y)*w:(y-r.Min.Y)*w+w])
	}
}
