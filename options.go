package pixelgrid

// Option configures a Window during creation.
//
// Example:
//
//	// Headless window on its own Vulkan device
//	w, err := pixelgrid.New(spec)
//
//	// On-screen window sharing a device
//	w, err := pixelgrid.New(spec, pixelgrid.WithContext(ctx), pixelgrid.WithSurface(sdl.NewSurface()))
type Option func(*windowOptions)

// windowOptions holds optional configuration for Window creation.
type windowOptions struct {
	ctx     *Context
	surface Surface
}

// WithContext renders on an existing device context. The window does not
// close it on Destroy.
func WithContext(ctx *Context) Option {
	return func(o *windowOptions) {
		o.ctx = ctx
	}
}

// WithSurface presents through s instead of a HeadlessSurface. The window
// configures s and destroys it on Destroy.
func WithSurface(s Surface) Option {
	return func(o *windowOptions) {
		o.surface = s
	}
}
