package pixelgrid

import (
	"errors"
	"testing"
)

func TestNewCellStoreDefaults(t *testing.T) {
	s := NewCellStore(Size{Width: 3, Height: 2})
	if s.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", s.Len())
	}
	for i, cell := range s.All() {
		c := s.CoordSystem().CoordOf(i)
		if cell.Coord != [2]float32{float32(c.X), float32(c.Y)} {
			t.Errorf("cell %d coord = %v, want %v", i, cell.Coord, c)
		}
		if cell.Color != defaultColor {
			t.Errorf("cell %d color = %v, want blue", i, cell.Color)
		}
	}
}

func TestCellStoreCellAt(t *testing.T) {
	s := NewCellStore(Size{Width: 2, Height: 2})
	cell, ok := s.CellAt(Coord{1, 1})
	if !ok {
		t.Fatal("CellAt(1,1) not found")
	}
	if cell.Coord != [2]float32{1, 1} {
		t.Errorf("CellAt(1,1).Coord = %v", cell.Coord)
	}
	if _, ok := s.CellAt(Coord{2, 0}); ok {
		t.Error("CellAt(2,0) should be out of bounds")
	}
}

func TestCellStoreLeaseExclusive(t *testing.T) {
	s := NewCellStore(Size{Width: 2, Height: 2})
	g, err := s.Lease()
	if err != nil {
		t.Fatalf("first Lease failed: %v", err)
	}
	if !s.Leased() {
		t.Error("Leased() = false during lease")
	}
	if _, err := s.Lease(); !errors.Is(err, ErrGridLeased) {
		t.Errorf("second Lease error = %v, want ErrGridLeased", err)
	}

	g.Release()
	g.Release() // idempotent
	if s.Leased() {
		t.Error("Leased() = true after Release")
	}
	g2, err := s.Lease()
	if err != nil {
		t.Fatalf("Lease after Release failed: %v", err)
	}
	g2.Release()
}

func TestCellStoreEncode(t *testing.T) {
	s := NewCellStore(Size{Width: 2, Height: 2})
	g, err := s.Lease()
	if err != nil {
		t.Fatal(err)
	}
	g.GetChecked(Coord{1, 0}).SetColorRGB(0.25, 0.5, 0.75)
	g.Release()

	data := s.encode()
	if uint64(len(data)) != s.byteSize() {
		t.Fatalf("encode() length = %d, want %d", len(data), s.byteSize())
	}
	cells := decodeCells(data)
	for i, cell := range s.All() {
		if cells[i] != cell {
			t.Errorf("decoded cell %d = %+v, want %+v", i, cells[i], cell)
		}
	}
	if cells[1].Color != [3]float32{0.25, 0.5, 0.75} {
		t.Errorf("cell 1 color = %v", cells[1].Color)
	}

	// The staging slice is reused across frames.
	again := s.encode()
	if &again[0] != &data[0] {
		t.Error("encode() reallocated the staging slice")
	}
}

func TestPutCellLayout(t *testing.T) {
	buf := make([]byte, cellStride*2+3)
	putCell(buf, &Cell{Coord: [2]float32{4, 5}, Color: [3]float32{1, 0, 0}})
	cells := decodeCells(buf)
	if len(cells) != 2 {
		t.Fatalf("decodeCells returned %d cells, want 2", len(cells))
	}
	if cells[0].Coord != [2]float32{4, 5} || cells[0].Color != [3]float32{1, 0, 0} {
		t.Errorf("cells[0] = %+v", cells[0])
	}
}

func BenchmarkCellStoreEncode(b *testing.B) {
	s := NewCellStore(Size{Width: 256, Height: 256})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.encode()
	}
}
