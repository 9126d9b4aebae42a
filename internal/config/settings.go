package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/handiism/disk-collage/internal/collage"
	"github.com/handiism/disk-collage/internal/http"
	"github.com/handiism/disk-collage/internal/model"
)

// DefaultAPIURL is the Yandex Disk endpoint that turns a public link into a
// direct download URL.
const DefaultAPIURL = "https://cloud-api.yandex.net/v1/disk/public/resources/download"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Settings holds all configuration options.
type Settings struct {
	// Source
	APIURL    string `json:"api_url" yaml:"api_url" validate:"required,url"`
	PublicKey string `json:"public_key" yaml:"public_key" validate:"required"`

	// Local paths
	LocalFolder     string `json:"local_folder" yaml:"local_folder" validate:"required"`
	ArchiveName     string `json:"archive_name" yaml:"archive_name" validate:"required"`
	ExtractedFolder string `json:"extracted_folder" yaml:"extracted_folder" validate:"required"`
	OutputFile      string `json:"output_file" yaml:"output_file" validate:"required"`
	ImageSuffix     string `json:"image_suffix" yaml:"image_suffix" validate:"required"`

	// Layout
	CellWidth     int    `json:"cell_width" yaml:"cell_width" validate:"gt=0"`
	CellHeight    int    `json:"cell_height" yaml:"cell_height" validate:"gt=0"`
	Padding       int    `json:"padding" yaml:"padding" validate:"gte=0"`
	Columns       int    `json:"columns" yaml:"columns" validate:"gt=0"`
	Background    string `json:"background" yaml:"background" validate:"hexcolor"`
	DecodeWorkers int    `json:"decode_workers" yaml:"decode_workers" validate:"gte=1"`

	// Transport
	ChunkSize   int     `json:"chunk_size" yaml:"chunk_size" validate:"gt=0"`
	HTTPTimeout float64 `json:"http_timeout" yaml:"http_timeout" validate:"gte=0"` // seconds, 0 disables
	UserAgent   string  `json:"user_agent" yaml:"user_agent"`

	// Stop the run when the share link cannot be resolved instead of
	// continuing with whatever is already on disk.
	AbortOnResolveError bool `json:"abort_on_resolve_error" yaml:"abort_on_resolve_error"`

	// Publishing (optional)
	PublishBucket string `json:"publish_bucket" yaml:"publish_bucket"` // e.g. file:///srv/collages, s3://bucket
	PublishKey    string `json:"publish_key" yaml:"publish_key"`       // generated when empty
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		APIURL:    DefaultAPIURL,
		PublicKey: "https://disk.yandex.ru/d/V47MEP5hZ3U1kg",

		LocalFolder:     "download",
		ArchiveName:     model.DefaultArchiveName,
		ExtractedFolder: "all_files",
		OutputFile:      "collage_final.tif",
		ImageSuffix:     ".png",

		CellWidth:     800,
		CellHeight:    800,
		Padding:       10,
		Columns:       4,
		Background:    "#ffffff",
		DecodeWorkers: 1,

		ChunkSize:   1024,
		HTTPTimeout: 60,
		UserAgent:   "disk-collage",
	}
}

// Load reads settings from a JSON or YAML file.
//
// The format is chosen by extension: .yaml and .yml are YAML, anything else
// is JSON. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings against their constraints.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := s.BackgroundColor(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// BackgroundColor returns the canvas background as an opaque color.
func (s *Settings) BackgroundColor() (color.RGBA, error) {
	c, err := colorful.Hex(s.Background)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse background %q: %w", s.Background, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		LocalFolder:     s.LocalFolder,
		ArchiveName:     s.ArchiveName,
		ExtractedFolder: s.ExtractedFolder,
		OutputPath:      s.OutputFile,
	}
}

// ToLayout converts settings to a collage grid layout.
func (s *Settings) ToLayout() collage.Layout {
	return collage.Layout{
		CellWidth:  s.CellWidth,
		CellHeight: s.CellHeight,
		Padding:    s.Padding,
		Columns:    s.Columns,
	}
}

// ToClientOptions converts settings to HTTP client options.
func (s *Settings) ToClientOptions() http.Options {
	opts := http.DefaultOptions()
	opts.Timeout = time.Duration(s.HTTPTimeout * float64(time.Second))
	opts.ChunkSize = s.ChunkSize
	if s.UserAgent != "" {
		opts.UserAgent = s.UserAgent
	}
	return opts
}
