package collage

import (
	"context"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	ioutils "github.com/handiism/disk-collage/internal/io"
	"github.com/handiism/disk-collage/internal/model"
)

// Options configures a Builder.
type Options struct {
	// Background fills the canvas before any image is pasted.
	// Default: white
	Background color.Color

	// Workers is how many images are decoded and resized at once.
	// Values <= 1 process images strictly one after another. Pasting is
	// always done in file order, so the result does not depend on Workers.
	// Default: 1
	Workers int

	// OnPlaced is called after each paste with (placed, total). May be nil.
	OnPlaced func(placed, total int)
}

// Builder renders a file list onto a grid canvas.
type Builder struct {
	layout Layout
	images *ioutils.ImageService
	opts   Options
}

// NewBuilder creates a Builder for layout using images to decode and scale.
func NewBuilder(layout Layout, images *ioutils.ImageService, opts Options) *Builder {
	if opts.Background == nil {
		opts.Background = color.White
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Builder{
		layout: layout,
		images: images,
		opts:   opts,
	}
}

// Layout returns the grid the builder renders.
func (b *Builder) Layout() Layout {
	return b.layout
}

// Build creates the canvas for files and pastes every image into its cell.
//
// The first image that cannot be loaded aborts the build and its error is
// returned; no partial canvas is handed out.
func (b *Builder) Build(ctx context.Context, files model.FileList) (*image.RGBA, error) {
	canvas := image.NewRGBA(b.layout.Bounds(files.Len()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(b.opts.Background), image.Point{}, draw.Src)

	if b.opts.Workers == 1 {
		for i, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			cell, err := b.loadCell(path)
			if err != nil {
				return nil, err
			}
			b.place(canvas, i, cell, files.Len())
		}
		return canvas, nil
	}

	// Decode one batch concurrently, then paste it in order. Batching keeps
	// at most Workers resized cells in memory.
	for start := 0; start < files.Len(); start += b.opts.Workers {
		end := min(start+b.opts.Workers, files.Len())
		cells := make([]*image.NRGBA, end-start)

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				cell, err := b.loadCell(files[i])
				if err != nil {
					return err
				}
				cells[i-start] = cell
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for j, cell := range cells {
			b.place(canvas, start+j, cell, files.Len())
		}
	}

	return canvas, nil
}

// Save writes the canvas to path in the format implied by its extension.
func (b *Builder) Save(canvas image.Image, path string) error {
	return b.images.Save(canvas, path)
}

func (b *Builder) loadCell(path string) (*image.NRGBA, error) {
	img, err := b.images.Load(path)
	if err != nil {
		return nil, err
	}
	return b.images.Resize(img, b.layout.CellWidth, b.layout.CellHeight), nil
}

func (b *Builder) place(canvas *image.RGBA, i int, cell *image.NRGBA, total int) {
	Paste(canvas, cell, b.layout.Cell(i).Origin)
	if b.opts.OnPlaced != nil {
		b.opts.OnPlaced(i+1, total)
	}
}

// Paste copies src onto dst with its top-left corner at at, overwriting the
// destination pixels. Source alpha is dropped, so the result is opaque.
// Pixels falling outside dst are clipped.
func Paste(dst *image.RGBA, src *image.NRGBA, at image.Point) {
	sb := src.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(sb.Size())}.Intersect(dst.Bounds())

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := src.NRGBAAt(sb.Min.X+x-at.X, sb.Min.Y+y-at.Y)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
}
