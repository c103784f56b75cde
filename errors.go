package pixelgrid

import "errors"

var (
	// ErrInvalidSize is returned when a grid or cell size is smaller than 1x1.
	ErrInvalidSize = errors.New("pixelgrid: invalid size")

	// ErrGridLeased is returned when a PixelGrid is requested, or a frame is
	// drawn, while another PixelGrid lease is still outstanding.
	ErrGridLeased = errors.New("pixelgrid: pixel grid already leased")

	// ErrUnsupportedFormat is returned when a render target format cannot be
	// read back to host memory.
	ErrUnsupportedFormat = errors.New("pixelgrid: unsupported render target format")

	// ErrWindowDestroyed is returned by operations on a destroyed window.
	ErrWindowDestroyed = errors.New("pixelgrid: window destroyed")

	// ErrNilProvider is returned when a nil device provider is passed.
	ErrNilProvider = errors.New("pixelgrid: nil device provider")

	// ErrNoAdapter is returned when a HAL instance exposes no adapters.
	ErrNoAdapter = errors.New("pixelgrid: no GPU adapters found")

	// ErrBackendUnavailable is returned when the requested HAL backend is
	// not registered.
	ErrBackendUnavailable = errors.New("pixelgrid: GPU backend not available")
)
