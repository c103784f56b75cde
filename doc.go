// Package pixelgrid draws a fixed-size grid of independently colored cells
// as a window of GPU rectangles.
//
// # Overview
//
// A [Window] owns a host [CellStore] with one [Cell] per grid position and
// the [RenderResources] that mirror it on the device. Cells are addressed
// by [Coord] through a [CoordSystem]: index = x + y*width, row-major from
// the top-left corner.
//
// The caller drives the loop explicitly:
//
//	w, err := pixelgrid.New(pixelgrid.WindowSpec{
//	    Title:    "gradient",
//	    GridSize: pixelgrid.Size{Width: 20, Height: 20},
//	    CellSize: pixelgrid.Size{Width: 8, Height: 16},
//	}, pixelgrid.WithSurface(sdl.NewSurface()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Destroy()
//
//	for !w.IsClosed() {
//	    w.WithPixelGrid(func(g *pixelgrid.PixelGrid) {
//	        for c, p := range g.Enumerate() {
//	            p.SetColorRGB(float32(c.X)/20, float32(c.Y)/20, 1)
//	        }
//	    })
//	    if err := w.Draw(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Frames
//
// Every [Window.Draw] polls the surface for events, then uploads the whole
// cell store to the device instance buffer and records one instanced draw
// of a shared quad with one instance per cell. There is no dirty tracking.
// After a close request the window stays closed and Draw does nothing.
//
// # Leases
//
// A [PixelGrid] is an exclusive write lease over the store. At most one is
// outstanding; a second Lease, or a Draw during a lease, fails with
// [ErrGridLeased]. [Window.WithPixelGrid] releases the lease on every exit
// path.
//
// # Devices and surfaces
//
// By default a window opens its own Vulkan device ([NewContext]) and renders
// into a [HeadlessSurface]. Use [WithContext] to share a device, including
// one borrowed from a host application via [NewContextFromProvider], and
// [WithSurface] to present on screen (see package pixelgrid/sdl).
//
// # Logging
//
// pixelgrid is silent by default. Call [SetLogger] to route its log/slog
// output to a handler.
package pixelgrid
