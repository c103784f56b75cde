package pixelgrid

import (
	"encoding/binary"
	"math"
	"sync"
	"testing"

	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// decodeCells reads mirrored buffer bytes back into cells. Trailing bytes
// that do not form a whole record are ignored.
func decodeCells(data []byte) []Cell {
	f := func(rec []byte, off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(rec[off : off+4]))
	}
	cells := make([]Cell, len(data)/cellStride)
	for i := range cells {
		rec := data[i*cellStride:]
		cells[i] = Cell{
			Coord: [2]float32{f(rec, 0), f(rec, 4)},
			Color: [3]float32{f(rec, 8), f(rec, 12), f(rec, 16)},
		}
	}
	return cells
}

func nopAPI() InstanceFactory { return &noop.API{} }

// newNoopContext opens a context on the noop backend and closes it when the
// test ends.
func newNoopContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := OpenContext(nopAPI())
	if err != nil {
		t.Fatalf("OpenContext(noop) failed: %v", err)
	}
	t.Cleanup(ctx.Close)
	return ctx
}

// shadowMemory mirrors what queue writes and encoder copies put into each
// buffer, since noop buffers do not keep their contents.
type shadowMemory struct {
	mu      sync.Mutex
	buffers map[hal.Buffer][]byte
	copies  int
}

func newShadowMemory() *shadowMemory {
	return &shadowMemory{buffers: make(map[hal.Buffer][]byte)}
}

func (m *shadowMemory) write(buf hal.Buffer, offset uint64, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dst := m.grow(buf, offset+uint64(len(data)))
	copy(dst[offset:], data)
}

func (m *shadowMemory) copyRegion(src, dst hal.Buffer, r hal.BufferCopy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.copies++
	from := m.grow(src, r.SrcOffset+r.Size)
	to := m.grow(dst, r.DstOffset+r.Size)
	copy(to[r.DstOffset:r.DstOffset+r.Size], from[r.SrcOffset:r.SrcOffset+r.Size])
}

// grow must be called with mu held.
func (m *shadowMemory) grow(buf hal.Buffer, size uint64) []byte {
	b := m.buffers[buf]
	if uint64(len(b)) < size {
		nb := make([]byte, size)
		copy(nb, b)
		b = nb
		m.buffers[buf] = b
	}
	return b
}

func (m *shadowMemory) contents(buf hal.Buffer) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.buffers[buf]...)
}

func (m *shadowMemory) copyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copies
}

type recordingQueue struct {
	hal.Queue
	mem *shadowMemory
}

func (q *recordingQueue) WriteBuffer(buf hal.Buffer, offset uint64, data []byte) {
	q.mem.write(buf, offset, data)
	q.Queue.WriteBuffer(buf, offset, data)
}

type recordingDevice struct {
	hal.Device
	mem *shadowMemory
}

func (d *recordingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &recordingEncoder{CommandEncoder: enc, mem: d.mem}, nil
}

type recordingEncoder struct {
	hal.CommandEncoder
	mem *shadowMemory
}

func (e *recordingEncoder) CopyBufferToBuffer(src, dst hal.Buffer, regions []hal.BufferCopy) {
	for _, r := range regions {
		e.mem.copyRegion(src, dst, r)
	}
	e.CommandEncoder.CopyBufferToBuffer(src, dst, regions)
}

// newRecordingContext returns a noop context whose queue and encoders
// record into shadow memory.
func newRecordingContext(t *testing.T) (*Context, *shadowMemory) {
	t.Helper()
	base := newNoopContext(t)
	mem := newShadowMemory()
	ctx := NewContextFromDevice(
		&recordingDevice{Device: base.Device(), mem: mem},
		&recordingQueue{Queue: base.Queue(), mem: mem},
	)
	return ctx, mem
}

// newTestWindow creates a headless window on a noop context.
func newTestWindow(t *testing.T, ctx *Context, grid, cell Size, opts ...Option) *Window {
	t.Helper()
	opts = append([]Option{WithContext(ctx)}, opts...)
	w, err := New(WindowSpec{Title: t.Name(), GridSize: grid, CellSize: cell}, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(w.Destroy)
	return w
}
