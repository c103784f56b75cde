// Command gradient draws a color gradient across a pixel grid.
//
// Each cell gets (x/width, y/height, 1), so the window fades from blue in
// the top-left corner to white in the bottom-right.
//
// Usage:
//
//	gradient                                  # SDL window until closed
//	gradient -headless -snapshot out.png      # one offscreen frame to PNG
//	gradient -headless -frames 600 -profile cpu
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/pkg/profile"
	"golang.org/x/image/draw"

	"github.com/gogpu/pixelgrid"
	"github.com/gogpu/pixelgrid/sdl"
)

func init() {
	// SDL calls must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	cfg := NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if cfg.Verbose {
		pixelgrid.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	stop, err := startProfile(cfg.Profile)
	if err != nil {
		log.Fatal(err)
	}
	err = run(cfg)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// startProfile starts the requested profile and returns its stop function.
func startProfile(kind string) (func(), error) {
	switch kind {
	case "":
		return func() {}, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop, nil
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop, nil
	default:
		return nil, fmt.Errorf("unknown profile %q (want cpu or mem)", kind)
	}
}

func run(cfg *Config) error {
	spec := pixelgrid.WindowSpec{
		Title:    "gradient",
		GridSize: pixelgrid.Size{Width: cfg.GridWidth, Height: cfg.GridHeight},
		CellSize: pixelgrid.Size{Width: cfg.CellWidth, Height: cfg.CellHeight},
	}

	var headless *pixelgrid.HeadlessSurface
	var surface pixelgrid.Surface
	frames := cfg.Frames
	if cfg.Headless {
		headless = pixelgrid.NewHeadlessSurface()
		surface = headless
		if frames == 0 {
			frames = 1
		}
	} else {
		surface = sdl.NewSurface()
	}

	w, err := pixelgrid.New(spec, pixelgrid.WithSurface(surface))
	if err != nil {
		return err
	}
	defer w.Destroy()

	for !w.IsClosed() {
		if err := w.WithPixelGrid(paintGradient); err != nil {
			return err
		}
		if err := w.Draw(); err != nil {
			return err
		}
		if frames > 0 && w.Frame() >= uint64(frames) {
			break
		}
	}
	log.Printf("drew %d frames of %s cells", w.Frame(), spec.GridSize)

	if cfg.Snapshot != "" {
		if headless == nil {
			return fmt.Errorf("-snapshot requires -headless")
		}
		img, err := headless.Snapshot()
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		if err := savePNG(cfg.Snapshot, scale(img, cfg.SnapshotScale)); err != nil {
			return err
		}
		log.Printf("snapshot saved to %s", cfg.Snapshot)
	}
	return nil
}

func paintGradient(g *pixelgrid.PixelGrid) {
	width := float32(g.Width())
	height := float32(g.Height())
	for c, p := range g.Enumerate() {
		p.SetColorRGB(float32(c.X)/width, float32(c.Y)/height, 1)
	}
}

// scale upscales img by an integer factor without smoothing, so cell edges
// stay sharp.
func scale(img *image.RGBA, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
