// Package color provides the color conversions used by pixelgrid cells and
// frame readback.
package color

import stdcolor "image/color"

// RGB is a color with float32 channels, normally in [0,1].
type RGB struct {
	R, G, B float32
}

// FromBytes maps channels in [0,255] to [0,1] as channel/255.
func FromBytes(r, g, b uint8) RGB {
	return RGB{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
	}
}

// FromColor converts any color.Color to non-premultiplied RGB. Alpha is
// discarded.
func FromColor(c stdcolor.Color) RGB {
	n := stdcolor.NRGBA64Model.Convert(c).(stdcolor.NRGBA64)
	return RGB{
		R: float32(n.R) / 65535.0,
		G: float32(n.G) / 65535.0,
		B: float32(n.B) / 65535.0,
	}
}

// SwizzleBGRA copies n pixels from BGRA-ordered src into RGBA-ordered dst.
// src and dst may be the same slice.
func SwizzleBGRA(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		o := i * 4
		b, g, r, a := src[o], src[o+1], src[o+2], src[o+3]
		dst[o], dst[o+1], dst[o+2], dst[o+3] = r, g, b, a
	}
}
