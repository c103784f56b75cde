package pixelgrid

import (
	"iter"
	"sync"
)

// CellStore is the host-side copy of every cell, laid out by CoordSystem.
// It is the upload source for the device instance buffer.
//
// CellStore does not guard individual accesses. Mutation goes through a
// PixelGrid lease, of which at most one exists at a time.
type CellStore struct {
	cs    CoordSystem
	cells []Cell

	mu     sync.Mutex
	leased bool

	// staging holds the encoded upload, reused across frames.
	staging []byte
}

// NewCellStore allocates a store for the given grid size. Every cell starts
// with its coordinate filled in and the default blue color.
func NewCellStore(size Size) *CellStore {
	cs := NewCoordSystem(size)
	s := &CellStore{
		cs:    cs,
		cells: make([]Cell, cs.Count()),
	}
	i := 0
	for c := range cs.Coords() {
		s.cells[i] = Cell{
			Coord:  [2]float32{float32(c.X), float32(c.Y)},
			Color: defaultColor,
		}
		i++
	}
	return s
}

// CoordSystem returns the store's coordinate mapping.
func (s *CellStore) CoordSystem() CoordSystem { return s.cs }

// Len returns the number of cells.
func (s *CellStore) Len() int { return len(s.cells) }

// Cell returns a copy of the cell at index i. It panics if i is out of range.
func (s *CellStore) Cell(i int) Cell { return s.cells[i] }

// CellAt returns a copy of the cell at c, or false if c is outside the grid.
func (s *CellStore) CellAt(c Coord) (Cell, bool) {
	i, ok := s.cs.IndexOf(c)
	if !ok {
		return Cell{}, false
	}
	return s.cells[i], true
}

// All yields every cell in index order.
func (s *CellStore) All() iter.Seq2[int, Cell] {
	return func(yield func(int, Cell) bool) {
		for i := range s.cells {
			if !yield(i, s.cells[i]) {
				return
			}
		}
	}
}

// Lease grants exclusive write access to the store. It returns ErrGridLeased
// if another lease is outstanding. The caller must call Release on the
// returned grid, typically with defer.
func (s *CellStore) Lease() (*PixelGrid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.leased {
		return nil, ErrGridLeased
	}
	s.leased = true
	return &PixelGrid{store: s, cs: s.cs, live: true}, nil
}

// Leased reports whether a PixelGrid is currently outstanding.
func (s *CellStore) Leased() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leased
}

func (s *CellStore) release() {
	s.mu.Lock()
	s.leased = false
	s.mu.Unlock()
}

// encode serializes every cell into the reusable staging slice and returns
// it. The whole store is encoded on every call.
func (s *CellStore) encode() []byte {
	needed := len(s.cells) * cellStride
	if cap(s.staging) < needed {
		s.staging = make([]byte, needed)
	} else {
		s.staging = s.staging[:needed]
	}
	for i := range s.cells {
		putCell(s.staging[i*cellStride:], &s.cells[i])
	}
	return s.staging
}

// byteSize returns the size of the encoded store.
func (s *CellStore) byteSize() uint64 {
	return uint64(len(s.cells)) * cellStride
}
