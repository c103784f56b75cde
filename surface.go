package pixelgrid

import "github.com/gogpu/wgpu/hal"

// EventKind identifies a windowing event.
type EventKind uint8

const (
	// EventNone is the zero value and is never delivered.
	EventNone EventKind = iota

	// EventCloseRequested is delivered when the user asks to close the
	// window. The window latches it: IsClosed reports true from then on.
	EventCloseRequested
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventCloseRequested:
		return "CloseRequested"
	default:
		return "None"
	}
}

// Event is a windowing event delivered by Surface.PollEvents.
type Event struct {
	Kind EventKind
}

// Surface is the windowing service a Window presents through. The window
// drives it from a single goroutine, in this order per frame: PollEvents,
// AcquireTarget, SwapBuffers.
type Surface interface {
	// Configure creates the presentation target. It is called once, before
	// any other method, with the fixed window size in pixels.
	Configure(ctx *Context, title string, width, height int) error

	// PollEvents delivers every pending event to fn without blocking.
	PollEvents(fn func(Event))

	// AcquireTarget returns the texture view the next frame renders into.
	// Its format must match ctx.Format().
	AcquireTarget() (hal.TextureView, error)

	// SwapBuffers presents the frame rendered into the acquired target.
	// The frame's GPU work has completed when it is called.
	SwapBuffers() error

	// Destroy releases the surface. Safe to call multiple times.
	Destroy()
}
