package model

import "image"

// FileList is the ordered list of image file paths found in the extracted tree.
//
// It is populated once by the collector and consumed once by the collage
// builder. Order is the traversal order and duplicates are kept.
type FileList []string

// Append adds path to the end of the list.
func (fl *FileList) Append(path string) {
	*fl = append(*fl, path)
}

// Len returns the number of collected files.
func (fl FileList) Len() int {
	return len(fl)
}

// Cell is a single grid slot of the collage.
type Cell struct {
	// Index is the position of the source file in the FileList.
	Index int

	// Col and Row are the grid coordinates of the slot.
	Col, Row int

	// Origin is the top-left pixel of the slot on the canvas.
	Origin image.Point
}

// Result summarizes a finished pipeline run.
type Result struct {
	// Archive is the downloaded archive. Archive.URL is empty when the share
	// link could not be resolved and the run continued anyway.
	Archive *Archive

	// Files is the list of images placed on the collage.
	Files FileList

	// Bounds is the size of the written canvas.
	Bounds image.Rectangle

	// OutputPath is where the collage was written.
	OutputPath string

	// PublishedURL is the bucket URL of the uploaded collage, if any.
	PublishedURL string
}
