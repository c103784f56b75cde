package pixelgrid

import (
	"strings"
	"testing"
)

func TestCoordSystemIndexOf(t *testing.T) {
	cs := NewCoordSystem(Size{Width: 3, Height: 2})

	tests := []struct {
		c      Coord
		want   int
		wantOK bool
	}{
		{Coord{0, 0}, 0, true},
		{Coord{2, 0}, 2, true},
		{Coord{0, 1}, 3, true},
		{Coord{2, 1}, 5, true},
		{Coord{3, 0}, 0, false},
		{Coord{0, 2}, 0, false},
		{Coord{-1, 0}, 0, false},
		{Coord{0, -1}, 0, false},
	}
	for _, tt := range tests {
		got, ok := cs.IndexOf(tt.c)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("IndexOf(%v) = (%d, %v), want (%d, %v)", tt.c, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCoordSystemRoundTrip(t *testing.T) {
	for _, size := range []Size{{1, 1}, {1, 7}, {7, 1}, {20, 20}, {5, 3}} {
		cs := NewCoordSystem(size)
		for i := 0; i < cs.Count(); i++ {
			c := cs.CoordOf(i)
			if !size.Contains(c) {
				t.Fatalf("%s: CoordOf(%d) = %v is outside the grid", size, i, c)
			}
			got, ok := cs.IndexOf(c)
			if !ok || got != i {
				t.Fatalf("%s: IndexOf(CoordOf(%d)) = (%d, %v)", size, i, got, ok)
			}
		}
	}
}

func TestCoordSystemCoordsOrder(t *testing.T) {
	cs := NewCoordSystem(Size{Width: 2, Height: 3})
	var got []Coord
	for c := range cs.Coords() {
		got = append(got, c)
	}
	want := []Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}, {1, 2}}
	if len(got) != len(want) {
		t.Fatalf("Coords yielded %d coords, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Coords[%d] = %v, want %v", i, got[i], want[i])
		}
		if idx, _ := cs.IndexOf(got[i]); idx != i {
			t.Errorf("Coords[%d] maps to index %d", i, idx)
		}
	}
}

func TestCoordSystemCoordsEarlyStop(t *testing.T) {
	cs := NewCoordSystem(Size{Width: 4, Height: 4})
	n := 0
	for range cs.Coords() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("iterated %d times, want 3", n)
	}
}

func TestCoordSystemIndexOfCheckedPanics(t *testing.T) {
	cs := NewCoordSystem(Size{Width: 2, Height: 2})
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("IndexOfChecked did not panic")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "out of bounds") {
			t.Errorf("panic = %v, want out of bounds message", r)
		}
	}()
	cs.IndexOfChecked(Coord{2, 0})
}

func TestSize(t *testing.T) {
	s := Size{Width: 20, Height: 20}
	if got := s.Count(); got != 400 {
		t.Errorf("Count() = %d, want 400", got)
	}
	if got := s.Mul(Size{Width: 8, Height: 16}); got != (Size{Width: 160, Height: 320}) {
		t.Errorf("Mul() = %v, want 160x320", got)
	}
	if got := s.String(); got != "20x20" {
		t.Errorf("String() = %q, want %q", got, "20x20")
	}
}
