// Package collage lays images out on a fixed grid and renders the result.
//
// # Layout
//
// Every image occupies one cell of CellWidth x CellHeight pixels. Cells are
// separated, and surrounded, by Padding pixels:
//
//	rows   = ceil(n / cols)
//	width  = cols*(cellW+padding) + padding
//	height = rows*(cellH+padding) + padding
//
// Image i goes to column i mod cols, row i div cols, with its top-left corner
// at (col*(cellW+padding)+padding, row*(cellH+padding)+padding).
//
// # Building
//
//	builder := collage.NewBuilder(layout, ioutils.NewImageService(), collage.Options{
//	    Background: color.White,
//	})
//	canvas, err := builder.Build(ctx, files)
//	err = builder.Save(canvas, "collage_final.tif")
//
// Images are stretched to the cell size without keeping their aspect ratio
// and pasted opaquely: alpha in the source is dropped, nothing is blended.
// An empty file list still produces a canvas (the padding border).
package collage
