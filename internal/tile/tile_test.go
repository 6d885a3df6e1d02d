package tile

import (
	"bytes"
	"image"
	"testing"
)

func TestNewGrid(t *testing.T) {
	cases := []struct {
		w, h           int
		tilesX, tilesY int
	}{
		{64, 64, 1, 1},
		{65, 64, 2, 1},
		{128, 128, 2, 2},
		{100, 50, 2, 1},
		{1, 1, 1, 1},
	}
	for _, tc := range cases {
		g := NewGrid(tc.w, tc.h)
		if g.TilesX != tc.tilesX || g.TilesY != tc.tilesY {
			t.Errorf("NewGrid(%d,%d) = %dx%d tiles, want %dx%d",
				tc.w, tc.h, g.TilesX, g.TilesY, tc.tilesX, tc.tilesY)
		}
	}
}

func TestTileRectClipsEdges(t *testing.T) {
	g := NewGrid(100, 70)
	if got := g.TileRect(0, 0); got != image.Rect(0, 0, 64, 64) {
		t.Errorf("interior tile = %v", got)
	}
	if got := g.TileRect(1, 0); got != image.Rect(64, 0, 100, 64) {
		t.Errorf("right edge tile = %v", got)
	}
	if got := g.TileRect(1, 1); got != image.Rect(64, 64, 100, 70) {
		t.Errorf("corner tile = %v", got)
	}
}

func TestCoveringTiles(t *testing.T) {
	g := NewGrid(200, 200)

	tx0, ty0, tx1, ty1, ok := g.CoveringTiles(image.Rect(60, 60, 70, 70))
	if !ok || tx0 != 0 || ty0 != 0 || tx1 != 1 || ty1 != 1 {
		t.Errorf("straddling rect covers (%d,%d)-(%d,%d), ok=%v", tx0, ty0, tx1, ty1, ok)
	}

	tx0, ty0, tx1, ty1, ok = g.CoveringTiles(image.Rect(0, 0, 64, 64))
	if !ok || tx0 != 0 || tx1 != 0 || ty0 != 0 || ty1 != 0 {
		t.Errorf("exact tile covers (%d,%d)-(%d,%d)", tx0, ty0, tx1, ty1)
	}

	if _, _, _, _, ok := g.CoveringTiles(image.Rect(300, 300, 400, 400)); ok {
		t.Error("rect outside the grid should report no coverage")
	}
}

func TestDiffAndApply(t *testing.T) {
	g := NewGrid(130, 130) // 3x3 tiles with clipped edges
	before := make([]uint8, g.W*g.H)
	after := make([]uint8, g.W*g.H)
	copy(after, before)

	// Change pixels in two tiles: (0,0) and the clipped corner (2,2).
	after[10*g.W+10] = 255
	after[129*g.W+129] = 255

	patches := Diff(g, before, after)
	if len(patches) != 2 {
		t.Fatalf("patches = %d, want 2", len(patches))
	}

	// Undo: apply Before onto a copy of after.
	undone := make([]uint8, len(after))
	copy(undone, after)
	Apply(g, undone, patches, Before)
	if !bytes.Equal(undone, before) {
		t.Error("applying the before side should reproduce the original")
	}

	// Redo: apply After onto a copy of before.
	redone := make([]uint8, len(before))
	copy(redone, before)
	Apply(g, redone, patches, After)
	if !bytes.Equal(redone, after) {
		t.Error("applying the after side should reproduce the change")
	}
}

func TestDiffNoChange(t *testing.T) {
	g := NewGrid(64, 64)
	buf := make([]uint8, g.W*g.H)
	if patches := Diff(g, buf, buf); len(patches) != 0 {
		t.Errorf("identical buffers produced %d patches", len(patches))
	}
}

func TestDiffRectSkipsOutsideTiles(t *testing.T) {
	g := NewGrid(256, 256)
	before := make([]uint8, g.W*g.H)
	after := make([]uint8, g.W*g.H)

	after[10] = 255          // tile (0,0)
	after[200*g.W+200] = 255 // tile (3,3)

	// Hint only covers the first tile; the far change is missed by design.
	patches := DiffRect(g, before, after, image.Rect(0, 0, 30, 30))
	if len(patches) != 1 {
		t.Fatalf("patches = %d, want 1", len(patches))
	}
	if patches[0].TX != 0 || patches[0].TY != 0 {
		t.Errorf("patch tile = (%d,%d)", patches[0].TX, patches[0].TY)
	}

	if patches := DiffRect(g, before, after, image.Rectangle{}); len(patches) != 0 {
		t.Error("empty hint yields no patches")
	}
}

func TestPatchBytesAndBounds(t *testing.T) {
	g := NewGrid(100, 100)
	before := make([]uint8, g.W*g.H)
	after := make([]uint8, g.W*g.H)
	after[0] = 255
	after[99*g.W+99] = 255

	patches := Diff(g, before, after)
	if len(patches) != 2 {
		t.Fatalf("patches = %d, want 2", len(patches))
	}

	// Tile (0,0) is 64x64, the corner tile is 36x36.
	want := 2 * (64*64 + 36*36)
	if got := BytesOf(patches); got != want {
		t.Errorf("BytesOf = %d, want %d", got, want)
	}
	if b := Bounds(patches); b != image.Rect(0, 0, 100, 100) {
		t.Errorf("Bounds = %v", b)
	}
}
