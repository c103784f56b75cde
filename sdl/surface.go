// Package sdl presents pixelgrid windows on screen through SDL2.
//
// Frames are rendered into an offscreen GPU target, read back, and streamed
// into an SDL texture that a vsync renderer presents. The window is not
// resizable.
//
//	w, err := pixelgrid.New(spec, pixelgrid.WithSurface(sdl.NewSurface()))
//
// SDL must be driven from the main OS thread. Call runtime.LockOSThread in
// an init function of package main.
package sdl

import (
	"fmt"
	"image"

	"github.com/gogpu/wgpu/hal"
	sdl2 "github.com/veandco/go-sdl2/sdl"

	"github.com/gogpu/pixelgrid"
)

// Surface is a pixelgrid.Surface backed by an SDL window.
type Surface struct {
	window   *sdl2.Window
	renderer *sdl2.Renderer
	texture  *sdl2.Texture

	target *pixelgrid.OffscreenTarget
	frame  *image.RGBA

	initialized bool
}

var _ pixelgrid.Surface = (*Surface)(nil)

// NewSurface returns an unconfigured SDL surface. The window appears when
// pixelgrid.New configures it.
func NewSurface() *Surface {
	return &Surface{}
}

// Configure initializes SDL video and opens a fixed-size window with a
// streaming texture of the same size.
func (s *Surface) Configure(ctx *pixelgrid.Context, title string, width, height int) error {
	if err := sdl2.Init(uint32(sdl2.INIT_VIDEO)); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	s.initialized = true

	window, err := sdl2.CreateWindow(title, sdl2.WINDOWPOS_UNDEFINED, sdl2.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), uint32(sdl2.WINDOW_SHOWN)) //nolint:gosec // window sizes are small
	if err != nil {
		s.Destroy()
		return fmt.Errorf("sdl create window: %w", err)
	}
	s.window = window

	renderer, err := sdl2.CreateRenderer(window, -1,
		uint32(sdl2.RENDERER_ACCELERATED|sdl2.RENDERER_PRESENTVSYNC))
	if err != nil {
		s.Destroy()
		return fmt.Errorf("sdl create renderer: %w", err)
	}
	s.renderer = renderer

	// ABGR8888 is R,G,B,A in memory on little-endian hosts, matching
	// image.RGBA.
	texture, err := renderer.CreateTexture(uint32(sdl2.PIXELFORMAT_ABGR8888), sdl2.TEXTUREACCESS_STREAMING,
		int32(width), int32(height)) //nolint:gosec // window sizes are small
	if err != nil {
		s.Destroy()
		return fmt.Errorf("sdl create texture: %w", err)
	}
	s.texture = texture

	target, err := pixelgrid.NewOffscreenTarget(ctx, width, height)
	if err != nil {
		s.Destroy()
		return err
	}
	s.target = target
	s.frame = image.NewRGBA(target.Bounds())

	pixelgrid.Logger().Info("pixelgrid/sdl: window created", "title", title, "width", width, "height", height)
	return nil
}

// PollEvents drains the SDL event queue. Quit and window-close events are
// reported as close requests; everything else is dropped.
func (s *Surface) PollEvents(fn func(pixelgrid.Event)) {
	for ev := sdl2.PollEvent(); ev != nil; ev = sdl2.PollEvent() {
		switch e := ev.(type) {
		case *sdl2.QuitEvent:
			fn(pixelgrid.Event{Kind: pixelgrid.EventCloseRequested})
		case *sdl2.WindowEvent:
			if e.Event == sdl2.WINDOWEVENT_CLOSE {
				fn(pixelgrid.Event{Kind: pixelgrid.EventCloseRequested})
			}
		}
	}
}

// AcquireTarget returns the offscreen render target.
func (s *Surface) AcquireTarget() (hal.TextureView, error) {
	if s.target == nil {
		return nil, pixelgrid.ErrWindowDestroyed
	}
	return s.target.View(), nil
}

// SwapBuffers reads the frame back from the GPU, streams it into the SDL
// texture and presents it.
func (s *Surface) SwapBuffers() error {
	if s.target == nil {
		return pixelgrid.ErrWindowDestroyed
	}
	if err := s.target.ReadInto(s.frame); err != nil {
		return err
	}

	pixels, pitch, err := s.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("sdl lock texture: %w", err)
	}
	rowBytes := s.frame.Rect.Dx() * 4
	for y := 0; y < s.frame.Rect.Dy(); y++ {
		copy(pixels[y*pitch:y*pitch+rowBytes], s.frame.Pix[y*s.frame.Stride:])
	}
	s.texture.Unlock()

	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return fmt.Errorf("sdl copy texture: %w", err)
	}
	s.renderer.Present()
	return nil
}

// Destroy closes the window and shuts SDL down. Safe to call multiple
// times.
func (s *Surface) Destroy() {
	if s.target != nil {
		s.target.Destroy()
		s.target = nil
	}
	if s.texture != nil {
		if err := s.texture.Destroy(); err != nil {
			pixelgrid.Logger().Warn("pixelgrid/sdl: destroy texture", "err", err)
		}
		s.texture = nil
	}
	if s.renderer != nil {
		if err := s.renderer.Destroy(); err != nil {
			pixelgrid.Logger().Warn("pixelgrid/sdl: destroy renderer", "err", err)
		}
		s.renderer = nil
	}
	if s.window != nil {
		if err := s.window.Destroy(); err != nil {
			pixelgrid.Logger().Warn("pixelgrid/sdl: destroy window", "err", err)
		}
		s.window = nil
	}
	if s.initialized {
		sdl2.Quit()
		s.initialized = false
	}
}
