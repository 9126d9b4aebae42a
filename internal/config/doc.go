// Package config provides configuration management for disk-collage.
//
// This package handles:
//   - Default configuration values (the original hard-coded constants)
//   - Loading settings from JSON or YAML files
//   - Overriding settings from COLLAGE_* environment variables
//   - Validation of user supplied values
//   - Conversion to PathConfig, Layout and client options for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get the defaults:
//
//	settings := config.DefaultSettings()
//	// Resolves the share link through the Yandex Disk public API
//	// Downloads to download/archive.zip, extracts to all_files
//	// Lays out *.png files in 4 columns of 800x800 cells, 10px padding
//	// Writes collage_final.tif
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/collage.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
// Keys missing from the file keep their default values.
//
// # Environment
//
//	if err := settings.LoadFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Validation
//
//	if err := settings.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
