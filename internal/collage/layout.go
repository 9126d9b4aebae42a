package collage

import (
	"image"

	"github.com/handiism/disk-collage/internal/model"
)

// Layout describes the collage grid.
type Layout struct {
	CellWidth  int
	CellHeight int
	Padding    int
	Columns    int
}

// Rows returns ceil(n / Columns). It is 0 for n <= 0.
func (l Layout) Rows(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + l.Columns - 1) / l.Columns
}

// CanvasSize returns the canvas dimensions needed for n images.
func (l Layout) CanvasSize(n int) image.Point {
	return image.Point{
		X: l.Columns*(l.CellWidth+l.Padding) + l.Padding,
		Y: l.Rows(n)*(l.CellHeight+l.Padding) + l.Padding,
	}
}

// Bounds returns the canvas rectangle for n images, anchored at the origin.
func (l Layout) Bounds(n int) image.Rectangle {
	return image.Rectangle{Max: l.CanvasSize(n)}
}

// Cell returns the grid slot of the image at index i.
func (l Layout) Cell(i int) model.Cell {
	col, row := i%l.Columns, i/l.Columns
	return model.Cell{
		Index: i,
		Col:   col,
		Row:   row,
		Origin: image.Point{
			X: col*(l.CellWidth+l.Padding) + l.Padding,
			Y: row*(l.CellHeight+l.Padding) + l.Padding,
		},
	}
}

// Rect returns the canvas area covered by the image at index i.
func (l Layout) Rect(i int) image.Rectangle {
	o := l.Cell(i).Origin
	return image.Rect(o.X, o.Y, o.X+l.CellWidth, o.Y+l.CellHeight)
}
