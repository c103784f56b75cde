package pixelgrid

import "iter"

// PixelGrid is an exclusive, temporary write view over a CellStore. It is
// valid from Lease until Release; using it or any Pixel taken from it after
// Release panics.
type PixelGrid struct {
	store *CellStore
	cs    CoordSystem
	live  bool
}

// Release ends the lease. It is safe to call more than once.
func (g *PixelGrid) Release() {
	if !g.live {
		return
	}
	g.live = false
	g.store.release()
}

func (g *PixelGrid) mustBeLive() {
	if !g.live {
		panic("pixelgrid: use of released PixelGrid")
	}
}

// Size returns the grid dimensions in cells.
func (g *PixelGrid) Size() Size { return g.cs.Size() }

// Width returns the number of columns.
func (g *PixelGrid) Width() int { return g.cs.Width() }

// Height returns the number of rows.
func (g *PixelGrid) Height() int { return g.cs.Height() }

// Len returns the number of cells.
func (g *PixelGrid) Len() int { return g.cs.Count() }

// IndexOf returns the linear index of c, or false if c is outside the grid.
func (g *PixelGrid) IndexOf(c Coord) (int, bool) { return g.cs.IndexOf(c) }

// Get returns the pixel at c, or false if c is outside the grid.
func (g *PixelGrid) Get(c Coord) (Pixel, bool) {
	g.mustBeLive()
	i, ok := g.cs.IndexOf(c)
	if !ok {
		return Pixel{}, false
	}
	return g.pixel(i), true
}

// GetChecked returns the pixel at c and panics if c is outside the grid.
func (g *PixelGrid) GetChecked(c Coord) Pixel {
	g.mustBeLive()
	return g.pixel(g.cs.IndexOfChecked(c))
}

// GetIndex returns the pixel at linear index i. The index must be valid;
// an out-of-range index panics.
func (g *PixelGrid) GetIndex(i int) Pixel {
	g.mustBeLive()
	return g.pixel(i)
}

func (g *PixelGrid) pixel(i int) Pixel {
	return Pixel{cell: &g.store.cells[i], grid: g}
}

// Coords yields every coordinate in index order.
func (g *PixelGrid) Coords() iter.Seq[Coord] { return g.cs.Coords() }

// Pixels yields every pixel in index order.
func (g *PixelGrid) Pixels() iter.Seq[Pixel] {
	g.mustBeLive()
	return func(yield func(Pixel) bool) {
		for i := range g.store.cells {
			if !yield(g.pixel(i)) {
				return
			}
		}
	}
}

// Enumerate yields each coordinate paired with the pixel stored at that
// coordinate's index. Exactly Len pairs are produced, in index order.
func (g *PixelGrid) Enumerate() iter.Seq2[Coord, Pixel] {
	g.mustBeLive()
	return func(yield func(Coord, Pixel) bool) {
		i := 0
		for c := range g.cs.Coords() {
			if !yield(c, g.pixel(i)) {
				return
			}
			i++
		}
	}
}

// Fill sets every pixel to the same normalized color.
func (g *PixelGrid) Fill(r, gr, b float32) {
	for p := range g.Pixels() {
		p.SetColorRGB(r, gr, b)
	}
}
