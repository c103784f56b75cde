package pixelgrid

import (
	"image"

	"github.com/gogpu/wgpu/hal"
)

// HeadlessSurface renders into an OffscreenTarget and never shows anything.
// Close requests are raised programmatically with RequestClose. It is the
// default surface of New.
type HeadlessSurface struct {
	target  *OffscreenTarget
	pending []Event
	frames  uint64
}

// NewHeadlessSurface returns an unconfigured headless surface.
func NewHeadlessSurface() *HeadlessSurface {
	return &HeadlessSurface{}
}

// Configure creates the offscreen target.
func (s *HeadlessSurface) Configure(ctx *Context, _ string, width, height int) error {
	target, err := NewOffscreenTarget(ctx, width, height)
	if err != nil {
		return err
	}
	s.target = target
	return nil
}

// RequestClose queues a close request for the next PollEvents.
func (s *HeadlessSurface) RequestClose() {
	s.pending = append(s.pending, Event{Kind: EventCloseRequested})
}

// PollEvents delivers and clears the queued events.
func (s *HeadlessSurface) PollEvents(fn func(Event)) {
	events := s.pending
	s.pending = nil
	for _, ev := range events {
		fn(ev)
	}
}

// AcquireTarget returns the offscreen view.
func (s *HeadlessSurface) AcquireTarget() (hal.TextureView, error) {
	if s.target == nil || s.target.View() == nil {
		return nil, ErrWindowDestroyed
	}
	return s.target.View(), nil
}

// SwapBuffers counts the frame. Pixels stay on the device until Snapshot.
func (s *HeadlessSurface) SwapBuffers() error {
	s.frames++
	return nil
}

// Frames returns the number of presented frames.
func (s *HeadlessSurface) Frames() uint64 { return s.frames }

// Snapshot reads back the most recently presented frame.
func (s *HeadlessSurface) Snapshot() (*image.RGBA, error) {
	if s.target == nil {
		return nil, ErrWindowDestroyed
	}
	return s.target.Image()
}

// Destroy releases the offscreen target.
func (s *HeadlessSurface) Destroy() {
	if s.target != nil {
		s.target.Destroy()
		s.target = nil
	}
}
