// Package ioutils provides file system, archive and image utilities.
//
// This package contains functions for:
//   - Directory creation
//   - Zip extraction
//   - Collecting image files from a directory tree
//   - Image type sniffing, loading, resizing and saving
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("download")
//
//	// Extract every entry of an archive
//	n, err := ioutils.ExtractZip("download/archive.zip", "all_files")
//
//	// Collect *.png files in walk order
//	files, err := ioutils.CollectFiles("all_files", ".png")
//
// # Image Processing
//
// The ImageService loads, scales and encodes collage images:
//
//	svc := ioutils.NewImageService()
//
//	img, _ := svc.Load("all_files/cat.png")
//	cell := svc.Resize(img, 800, 800) // exact size, aspect ratio not kept
//	err := svc.Save(canvas, "collage_final.tif")
//
// The output format follows the file extension: .png, .jpg, .jpeg, .gif,
// .tif, .tiff and .bmp are supported.
package ioutils
