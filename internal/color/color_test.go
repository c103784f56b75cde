package color

import (
	stdcolor "image/color"
	"math"
	"testing"
)

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestFromBytes(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    RGB
	}{
		{0, 0, 0, RGB{0, 0, 0}},
		{255, 0, 0, RGB{1, 0, 0}},
		{255, 255, 255, RGB{1, 1, 1}},
		{51, 102, 153, RGB{0.2, 0.4, 0.6}},
	}
	for _, tt := range tests {
		got := FromBytes(tt.r, tt.g, tt.b)
		if !approx(got.R, tt.want.R, 1e-6) || !approx(got.G, tt.want.G, 1e-6) || !approx(got.B, tt.want.B, 1e-6) {
			t.Errorf("FromBytes(%d, %d, %d) = %+v, want %+v", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestFromColorDropsPremultiplication(t *testing.T) {
	// Half-transparent red: premultiplied R is half, non-premultiplied is full.
	got := FromColor(stdcolor.NRGBA{R: 255, G: 0, B: 0, A: 128})
	if !approx(got.R, 1, 1e-3) || got.G != 0 || got.B != 0 {
		t.Errorf("FromColor(half red) = %+v, want {1 0 0}", got)
	}

	got = FromColor(stdcolor.RGBA{R: 0, G: 255, B: 0, A: 255})
	if got.R != 0 || !approx(got.G, 1, 1e-6) || got.B != 0 {
		t.Errorf("FromColor(opaque green) = %+v, want {0 1 0}", got)
	}
}

func TestSRGBToLinearKnownValues(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{1, 1},
		{0.04045, 0.0031308},
		{0.5, 0.2140411},
		{0.7353569, 0.5},
	}
	for _, tt := range tests {
		if got := SRGBToLinear(tt.in); !approx(got, tt.want, 1e-4) {
			t.Errorf("SRGBToLinear(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestSRGBToLinearMonotonic(t *testing.T) {
	prev := float32(-1)
	for i := 0; i <= 255; i++ {
		got := SRGBToLinear(float32(i) / 255)
		if got <= prev {
			t.Fatalf("SRGBToLinear not increasing at %d: %f <= %f", i, got, prev)
		}
		prev = got
	}
}

func TestSRGBToLinearColor(t *testing.T) {
	got := SRGBToLinearColor(RGB{R: 1, G: 0, B: 0.5})
	if !approx(got.R, 1, 1e-6) || got.G != 0 || !approx(got.B, 0.2140411, 1e-4) {
		t.Errorf("SRGBToLinearColor = %+v", got)
	}
}

func TestSwizzleBGRA(t *testing.T) {
	src := []byte{1, 2, 3, 4, 10, 20, 30, 40}
	dst := make([]byte, len(src))
	SwizzleBGRA(dst, src, 2)
	want := []byte{3, 2, 1, 4, 30, 20, 10, 40}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}

	// In place.
	SwizzleBGRA(src, src, 2)
	for i := range want {
		if src[i] != want[i] {
			t.Fatalf("in-place = %v, want %v", src, want)
		}
	}
}
