package pixelgrid

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	pgcolor "github.com/gogpu/pixelgrid/internal/color"
)

// copyPitchAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// gpuWaitTimeout bounds every fence wait.
const gpuWaitTimeout = 5 * time.Second

// OffscreenTarget is a render-attachment texture that can be read back to
// host memory. Surfaces without a swapchain render into one.
type OffscreenTarget struct {
	device hal.Device
	queue  hal.Queue
	format  gputypes.TextureFormat
	swizzle bool

	width, height uint32

	tex  hal.Texture
	view hal.TextureView
}

// readbackSwizzle reports whether rows of format need a BGRA to RGBA swap
// on readback. Formats other than the 8-bit RGBA and BGRA ones, linear or
// sRGB, return ErrUnsupportedFormat.
func readbackSwizzle(format gputypes.TextureFormat) (bool, error) {
	switch format {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return true, nil
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

// NewOffscreenTarget creates a width x height target in the context format.
// The format must be an 8-bit RGBA or BGRA one so it can be read back.
func NewOffscreenTarget(ctx *Context, width, height int) (*OffscreenTarget, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: offscreen target %dx%d", ErrInvalidSize, width, height)
	}
	swizzle, err := readbackSwizzle(ctx.Format())
	if err != nil {
		return nil, err
	}
	t := &OffscreenTarget{
		device:  ctx.Device(),
		queue:   ctx.Queue(),
		format:  ctx.Format(),
		swizzle: swizzle,
		width:   uint32(width),  //nolint:gosec // checked above
		height:  uint32(height), //nolint:gosec // checked above
	}
	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "pixel_grid_target",
		Size:          hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create offscreen texture: %w", err)
	}
	t.tex = tex
	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "pixel_grid_target_view",
	})
	if err != nil {
		t.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create offscreen texture view: %w", err)
	}
	t.view = view
	Logger().Debug("pixelgrid: offscreen target created", "width", width, "height", height)
	return t, nil
}

// View returns the render attachment.
func (t *OffscreenTarget) View() hal.TextureView { return t.view }

// Bounds returns the target rectangle.
func (t *OffscreenTarget) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(t.width), int(t.height))
}

// ReadInto copies the last rendered frame into dst, which must have the
// target's bounds. Rows are de-padded and converted to RGBA.
func (t *OffscreenTarget) ReadInto(dst *image.RGBA) error {
	if t.tex == nil {
		return ErrWindowDestroyed
	}
	if dst.Rect.Dx() != int(t.width) || dst.Rect.Dy() != int(t.height) {
		return fmt.Errorf("%w: readback into %v, target is %v", ErrInvalidSize, dst.Rect, t.Bounds())
	}

	bytesPerRow := t.width * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(t.height)

	staging, err := t.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pixel_grid_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create readback buffer: %w", err)
	}
	defer t.device.DestroyBuffer(staging)

	encoder, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "pixel_grid_readback_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pixel_grid_readback"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: t.height},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	}})
	// Back to RenderAttachment for the next frame's pass.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer t.device.FreeCommandBuffer(cmdBuf)

	if err := submitAndWait(t.device, t.queue, cmdBuf); err != nil {
		return err
	}

	readback := make([]byte, stagingSize)
	if err := t.queue.ReadBuffer(staging, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}

	for row := 0; row < int(t.height); row++ {
		src := readback[row*int(alignedBytesPerRow) : row*int(alignedBytesPerRow)+int(bytesPerRow)]
		out := dst.Pix[row*dst.Stride : row*dst.Stride+int(bytesPerRow)]
		if t.swizzle {
			pgcolor.SwizzleBGRA(out, src, int(t.width))
		} else {
			copy(out, src)
		}
	}
	return nil
}

// Image reads back the last rendered frame into a new image.
func (t *OffscreenTarget) Image() (*image.RGBA, error) {
	img := image.NewRGBA(t.Bounds())
	if err := t.ReadInto(img); err != nil {
		return nil, err
	}
	return img, nil
}

// Destroy releases the texture and view. Safe to call multiple times.
func (t *OffscreenTarget) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// submitAndWait submits one command buffer and blocks until the GPU has
// finished it.
func submitAndWait(device hal.Device, queue hal.Queue, cmdBuf hal.CommandBuffer) error {
	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := device.Wait(fence, 1, gpuWaitTimeout)
	if err != nil || !ok {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}
