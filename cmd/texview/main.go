// Command texview renders an image through a texview.View off screen.
//
// It opens a render backend, fits the image into a drawable of the given
// size with the chosen content mode, draws a number of frames and can save
// the last frame as PNG when the backend keeps a CPU framebuffer.
//
//	texview -in photo.jpg -mode aspect-fit -width 640 -height 480 -out fit.png
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texview"
	"github.com/gogpu/texview/backend"
	"github.com/gogpu/texview/backend/halgpu"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type config struct {
	backend string
	mode    texview.ContentMode
	width   int
	height  int
	frames  int
	input   string
	output  string
}

func main() {
	var (
		backendName = flag.String("backend", "", "render backend, one of "+fmt.Sprint(backend.Available())+" (default: best available)")
		modeName    = flag.String("mode", "aspect-fit", "content mode: resize, aspect-fill or aspect-fit")
		width       = flag.Int("width", 800, "drawable width in pixels")
		height      = flag.Int("height", 600, "drawable height in pixels")
		frames      = flag.Int("frames", 1, "number of frames to draw")
		input       = flag.String("in", "", "input image (png, jpeg, gif, bmp, tiff, webp); a checkerboard if empty")
		output      = flag.String("out", "", "write the last frame to this PNG file")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		texview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	mode, err := texview.ParseContentMode(*modeName)
	if err != nil {
		log.Fatal(err)
	}
	if *width <= 0 || *height <= 0 || *frames <= 0 {
		log.Fatal("texview: width, height and frames must be positive")
	}

	cfg := config{
		backend: *backendName,
		mode:    mode,
		width:   *width,
		height:  *height,
		frames:  *frames,
		input:   *input,
		output:  *output,
	}
	if err := run(cfg); err != nil {
		log.Fatalf("texview: %v", err)
	}
}

func run(cfg config) error {
	b, err := backend.Open(cfg.backend)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, err := halgpu.NewContextFromProvider(b)
	if err != nil {
		return err
	}
	defer ctx.Destroy()

	raw, err := b.CreateSurface(0, 0)
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}
	surface, err := halgpu.NewSurface(ctx, raw)
	if err != nil {
		return err
	}
	defer surface.Destroy()

	view, err := texview.New(ctx, surface,
		texview.WithContentMode(cfg.mode),
		texview.WithPixelFormat(gputypes.TextureFormatRGBA8Unorm),
	)
	if err != nil {
		return err
	}
	view.Layout(texview.Size{Width: float64(cfg.width), Height: float64(cfg.height)}, 1)

	img, err := loadImage(cfg.input)
	if err != nil {
		return err
	}
	tex, err := ctx.NewTextureFromImage(img)
	if err != nil {
		return err
	}
	defer tex.Destroy()

	for i := range cfg.frames {
		cb, err := ctx.NewCommandBuffer()
		if err != nil {
			return err
		}
		view.Draw(tex, nil, cb, nil)
		if err := cb.Commit(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	log.Print(summary(b.Name(), cfg, tex.Width(), tex.Height(), view.Projection()))

	if cfg.output == "" {
		return nil
	}
	return savePNG(surface, cfg.width, cfg.height, cfg.output)
}

// summary describes how a texW x texH texture was fitted into the drawable.
func summary(backendName string, cfg config, texW, texH int, p texview.Projection) string {
	drawable := texview.Size{Width: float64(cfg.width), Height: float64(cfg.height)}
	nw, nh := texview.NormalizedTextureSize(drawable, texW, texH)
	return fmt.Sprintf("%s: %dx%d texture in %dx%d drawable, relative extent (%.3f, %.3f), %s scale (%.3f, %.3f)",
		backendName, texW, texH, cfg.width, cfg.height, nw, nh, cfg.mode, p.SX, p.SY)
}

func loadImage(path string) (image.Image, error) {
	if path == "" {
		return checkerboard(256, 128, 32), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	texview.Logger().Debug("texview: image loaded", "path", path, "format", format, "size", img.Bounds().Size())
	return img, nil
}

// checkerboard returns a two-tone w x h test pattern with a red top-left
// tile, so orientation mistakes are visible.
func checkerboard(w, h, tile int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	light := color.RGBA{R: 230, G: 230, B: 230, A: 255}
	dark := color.RGBA{R: 40, G: 60, B: 90, A: 255}
	red := color.RGBA{R: 220, G: 40, B: 40, A: 255}
	for y := range h {
		for x := range w {
			c := dark
			if (x/tile+y/tile)%2 == 0 {
				c = light
			}
			if x < tile && y < tile {
				c = red
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func savePNG(surface *halgpu.Surface, w, h int, path string) error {
	fb, ok := surface.Raw().(interface{ GetFramebuffer() []byte })
	if !ok {
		return fmt.Errorf("backend surface %T has no CPU framebuffer", surface.Raw())
	}
	pix := fb.GetFramebuffer()
	if len(pix) != w*h*4 {
		return fmt.Errorf("framebuffer holds %d bytes, want %d", len(pix), w*h*4)
	}

	img := &image.RGBA{Pix: pix, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("Frame saved to %s (%dx%d)", path, w, h)
	return nil
}
