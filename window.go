package pixelgrid

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// backgroundColor clears every frame before the cells are drawn.
var backgroundColor = gputypes.Color{R: 0, G: 1, B: 0, A: 0}

// WindowSpec describes a window: a title and a grid of GridSize cells, each
// CellSize pixels. The window size follows from both and never changes.
type WindowSpec struct {
	Title    string
	GridSize Size
	CellSize Size
}

// Validate reports ErrInvalidSize unless both sizes are at least 1x1.
func (s WindowSpec) Validate() error {
	if s.GridSize.Width < 1 || s.GridSize.Height < 1 {
		return fmt.Errorf("%w: grid %s", ErrInvalidSize, s.GridSize)
	}
	if s.CellSize.Width < 1 || s.CellSize.Height < 1 {
		return fmt.Errorf("%w: cell %s", ErrInvalidSize, s.CellSize)
	}
	return nil
}

// WindowSize returns the window size in pixels.
func (s WindowSpec) WindowSize() Size { return s.GridSize.Mul(s.CellSize) }

// Window is a grid of colored cells drawn on the GPU, one instanced draw
// per frame. The caller drives it:
//
//	for !w.IsClosed() {
//	    w.WithPixelGrid(func(g *pixelgrid.PixelGrid) { ... })
//	    if err := w.Draw(); err != nil { ... }
//	}
//
// Window is not safe for concurrent use.
type Window struct {
	spec WindowSpec

	ctx        *Context
	ownsCtx    bool
	surface    Surface
	store      *CellStore
	resources  *RenderResources
	closed     bool
	destroyed  bool
	frame      uint64
	fatalError error
}

// New creates a window and all of its GPU resources. Without options it
// opens its own Vulkan device and renders headless.
func New(spec WindowSpec, opts ...Option) (*Window, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	var o windowOptions
	for _, opt := range opts {
		opt(&o)
	}

	w := &Window{spec: spec, ctx: o.ctx, surface: o.surface}
	if w.ctx == nil {
		ctx, err := NewContext()
		if err != nil {
			return nil, err
		}
		w.ctx = ctx
		w.ownsCtx = true
	}
	if w.surface == nil {
		w.surface = NewHeadlessSurface()
	}

	w.store = NewCellStore(spec.GridSize)
	resources, err := newRenderResources(w.ctx, spec.GridSize, spec.CellSize)
	if err != nil {
		w.Destroy()
		return nil, err
	}
	w.resources = resources

	ws := spec.WindowSize()
	if err := w.surface.Configure(w.ctx, spec.Title, ws.Width, ws.Height); err != nil {
		w.Destroy()
		return nil, fmt.Errorf("configure surface: %w", err)
	}
	Logger().Info("pixelgrid: window opened",
		"title", spec.Title, "grid", spec.GridSize.String(), "window", ws.String())
	return w, nil
}

// MustNew is like New but panics on error.
func MustNew(spec WindowSpec, opts ...Option) *Window {
	w, err := New(spec, opts...)
	if err != nil {
		panic(err)
	}
	return w
}

// Spec returns the window description.
func (w *Window) Spec() WindowSpec { return w.spec }

// Frame returns the number of frames drawn so far.
func (w *Window) Frame() uint64 { return w.frame }

// Store returns the host cell store, for reading.
func (w *Window) Store() *CellStore { return w.store }

// Resources returns the window's GPU resources.
func (w *Window) Resources() *RenderResources { return w.resources }

// Surface returns the presentation surface.
func (w *Window) Surface() Surface { return w.surface }

// IsClosed reports whether a close request has been observed. Once true it
// stays true.
func (w *Window) IsClosed() bool { return w.closed }

// WithPixelGrid leases the pixel grid for the duration of f. The lease is
// released when f returns or panics. Mutations on a closed window are
// allowed but never drawn.
func (w *Window) WithPixelGrid(f func(*PixelGrid)) error {
	if w.destroyed {
		return ErrWindowDestroyed
	}
	g, err := w.store.Lease()
	if err != nil {
		return err
	}
	defer g.Release()
	f(g)
	return nil
}

// Draw polls events and, unless the window has been closed, renders and
// presents one frame from the current cell store.
//
// Draw on a closed window does nothing and returns nil. A GPU failure is
// returned and latched: every later Draw returns the same error.
func (w *Window) Draw() error {
	if w.destroyed {
		return ErrWindowDestroyed
	}
	if w.fatalError != nil {
		return w.fatalError
	}
	if !w.closed {
		w.surface.PollEvents(w.handleEvent)
	}
	if w.closed {
		return nil
	}
	if w.store.Leased() {
		return ErrGridLeased
	}
	if err := w.drawFrame(); err != nil {
		w.fatalError = err
		Logger().Warn("pixelgrid: frame failed", "frame", w.frame, "err", err)
		return err
	}
	w.frame++
	return nil
}

func (w *Window) handleEvent(ev Event) {
	if ev.Kind == EventCloseRequested && !w.closed {
		w.closed = true
		Logger().Info("pixelgrid: close requested", "title", w.spec.Title)
	}
}

// drawFrame uploads the whole store, draws every cell over the cleared
// background, waits for the GPU and presents.
func (w *Window) drawFrame() error {
	view, err := w.surface.AcquireTarget()
	if err != nil {
		return fmt.Errorf("acquire target: %w", err)
	}

	w.resources.upload(w.store.encode())

	device := w.ctx.Device()
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "pixel_grid_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pixel_grid_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	w.resources.recordSync(encoder)

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pixel_grid_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: backgroundColor,
		}},
	})
	w.resources.RecordDraw(rp)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	if err := submitAndWait(device, w.ctx.Queue(), cmdBuf); err != nil {
		return err
	}
	if err := w.surface.SwapBuffers(); err != nil {
		return fmt.Errorf("swap buffers: %w", err)
	}
	Logger().Debug("pixelgrid: frame drawn", "frame", w.frame, "instances", w.resources.CellCount())
	return nil
}

// Destroy releases the surface, the GPU resources and, if the window
// opened it, the device context. Safe to call multiple times.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	if w.surface != nil {
		w.surface.Destroy()
	}
	if w.resources != nil {
		w.resources.Destroy()
		w.resources = nil
	}
	if w.ownsCtx && w.ctx != nil {
		w.ctx.Close()
	}
	Logger().Info("pixelgrid: window destroyed", "title", w.spec.Title, "frames", w.frame)
}
