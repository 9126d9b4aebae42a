package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvPrefix is the prefix of every environment variable read by LoadFromEnv.
const EnvPrefix = "COLLAGE_"

// LoadFromEnv overrides settings from COLLAGE_* environment variables.
// Unset variables leave the current value untouched.
func (s *Settings) LoadFromEnv() error {
	strs := map[string]*string{
		"API_URL":          &s.APIURL,
		"PUBLIC_KEY":       &s.PublicKey,
		"LOCAL_FOLDER":     &s.LocalFolder,
		"ARCHIVE_NAME":     &s.ArchiveName,
		"EXTRACTED_FOLDER": &s.ExtractedFolder,
		"OUTPUT_FILE":      &s.OutputFile,
		"IMAGE_SUFFIX":     &s.ImageSuffix,
		"BACKGROUND":       &s.Background,
		"USER_AGENT":       &s.UserAgent,
		"PUBLISH_BUCKET":   &s.PublishBucket,
		"PUBLISH_KEY":      &s.PublishKey,
	}
	for name, dst := range strs {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CELL_WIDTH":     &s.CellWidth,
		"CELL_HEIGHT":    &s.CellHeight,
		"PADDING":        &s.Padding,
		"COLUMNS":        &s.Columns,
		"DECODE_WORKERS": &s.DecodeWorkers,
		"CHUNK_SIZE":     &s.ChunkSize,
	}
	for name, dst := range ints {
		v := os.Getenv(EnvPrefix + name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
	}

	if v := os.Getenv(EnvPrefix + "HTTP_TIMEOUT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse %sHTTP_TIMEOUT: %w", EnvPrefix, err)
		}
		s.HTTPTimeout = f
	}
	if v := os.Getenv(EnvPrefix + "ABORT_ON_RESOLVE_ERROR"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %sABORT_ON_RESOLVE_ERROR: %w", EnvPrefix, err)
		}
		s.AbortOnResolveError = b
	}

	return nil
}
