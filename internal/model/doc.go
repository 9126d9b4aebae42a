// Package model defines the core data structures used throughout
// the disk-collage application.
//
// # Archive
//
// Archive describes the downloaded zip and where it is unpacked:
//
//	archive := model.NewArchive(href, pathConfig)
//	fmt.Println(archive.Path)       // <local_folder>/archive.zip
//	fmt.Println(archive.ExtractDir) // <extracted_folder>
//
// # FileList
//
// FileList is the ordered list of image paths found in the extracted tree.
// Order is the walk order; entries are never deduplicated.
//
// # Path Configuration
//
// PathConfig controls where the pipeline writes its files:
//
//	cfg := &model.PathConfig{
//	    LocalFolder:     "download",
//	    ArchiveName:     "archive.zip",
//	    ExtractedFolder: "all_files",
//	    OutputPath:      "collage_final.tif",
//	}
package model
