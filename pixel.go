package pixelgrid

import (
	"image/color"

	pgcolor "github.com/gogpu/pixelgrid/internal/color"
)

// Pixel is a write handle to one cell's color. It is only usable while the
// PixelGrid it came from is leased. The zero Pixel, returned by a failed
// PixelGrid.Get, has no cell and its setters panic.
type Pixel struct {
	cell *Cell
	grid *PixelGrid
}

// SetColorRGB sets normalized channels in linear light. The render target
// is sRGB, so the device encodes them when the frame is written. Values are
// expected in [0,1] and are not clamped.
func (p Pixel) SetColorRGB(r, g, b float32) {
	p.mustBeLive()
	p.cell.Color = [3]float32{r, g, b}
}

// SetColorBytes sets channels in [0,255], converted as channel/255.
func (p Pixel) SetColorBytes(r, g, b uint8) {
	rgb := pgcolor.FromBytes(r, g, b)
	p.SetColorRGB(rgb.R, rgb.G, rgb.B)
}

// SetColor sets the pixel from any color.Color. Go colors are sRGB-encoded,
// so they are decoded to linear light first. Alpha is dropped; the
// fragment stage always writes full opacity.
func (p Pixel) SetColor(c color.Color) {
	rgb := pgcolor.SRGBToLinearColor(pgcolor.FromColor(c))
	p.SetColorRGB(rgb.R, rgb.G, rgb.B)
}

func (p Pixel) mustBeLive() {
	if p.grid == nil {
		panic("pixelgrid: use of zero Pixel")
	}
	p.grid.mustBeLive()
}
