package color

import "math"

// SRGBToLinear decodes an sRGB-encoded channel to linear light.
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return float32(math.Pow(float64((s+0.055)/1.055), 2.4))
}

// SRGBToLinearColor decodes all three channels.
func SRGBToLinearColor(c RGB) RGB {
	return RGB{R: SRGBToLinear(c.R), G: SRGBToLinear(c.G), B: SRGBToLinear(c.B)}
}
