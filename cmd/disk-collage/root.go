package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/handiism/disk-collage/internal/config"
	"github.com/handiism/disk-collage/internal/pipeline"
)

type options struct {
	configPath string
	verbose    bool
	dryRun     bool

	apiURL          string
	localFolder     string
	archiveName     string
	extractedFolder string
	output          string
	suffix          string
	cellWidth       int
	cellHeight      int
	padding         int
	columns         int
	background      string
	workers         int
	chunkSize       int
	timeout         float64
	userAgent       string
	abortOnResolve  bool
	publishBucket   string
	publishKey      string
}

func newRootCmd(opts *options) *cobra.Command {
	defaults := config.DefaultSettings()

	cmd := &cobra.Command{
		Use:   "disk-collage [share-link]",
		Short: "disk-collage - build an image collage from a public disk share",
		Long: "disk-collage resolves a public Yandex Disk share link, downloads and extracts\n" +
			"the archive behind it and lays every image out on a fixed grid.\n\n" +
			"Settings come from defaults, then --config, then COLLAGE_* variables, then flags.\n" +
			"For interactive mode, use: disk-collage-tui",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, opts, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), settings, opts)
		},
	}
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "path to a JSON or YAML config file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "show verbose output")
	f.BoolVar(&opts.dryRun, "dry-run", false, "resolve the share link and stop")

	f.StringVar(&opts.apiURL, "api-url", defaults.APIURL, "public download API endpoint")
	f.StringVar(&opts.localFolder, "local-folder", defaults.LocalFolder, "directory the archive is downloaded into")
	f.StringVar(&opts.archiveName, "archive-name", defaults.ArchiveName, "file name of the downloaded archive")
	f.StringVar(&opts.extractedFolder, "extracted-folder", defaults.ExtractedFolder, "directory the archive is extracted into")
	f.StringVarP(&opts.output, "output", "o", defaults.OutputFile, "collage output file, extension selects the format")
	f.StringVar(&opts.suffix, "suffix", defaults.ImageSuffix, "file name suffix of collected images (case-sensitive)")
	f.IntVar(&opts.cellWidth, "cell-width", defaults.CellWidth, "cell width in pixels")
	f.IntVar(&opts.cellHeight, "cell-height", defaults.CellHeight, "cell height in pixels")
	f.IntVar(&opts.padding, "padding", defaults.Padding, "gap between cells and around the grid in pixels")
	f.IntVar(&opts.columns, "columns", defaults.Columns, "number of grid columns")
	f.StringVar(&opts.background, "background", defaults.Background, "canvas background as #rrggbb")
	f.IntVar(&opts.workers, "workers", defaults.DecodeWorkers, "images decoded concurrently")
	f.IntVar(&opts.chunkSize, "chunk-size", defaults.ChunkSize, "download chunk size in bytes")
	f.Float64Var(&opts.timeout, "timeout", defaults.HTTPTimeout, "HTTP timeout in seconds, 0 disables")
	f.StringVar(&opts.userAgent, "user-agent", defaults.UserAgent, "User-Agent header")
	f.BoolVar(&opts.abortOnResolve, "abort-on-resolve-error", false, "stop when the share link cannot be resolved")
	f.StringVar(&opts.publishBucket, "publish-bucket", "", "bucket URL to upload the collage to (file://, s3://, gs://)")
	f.StringVar(&opts.publishKey, "publish-key", "", "object key of the uploaded collage (generated when empty)")

	return cmd
}

// loadSettings layers config file, environment and explicitly set flags.
func loadSettings(cmd *cobra.Command, opts *options, args []string) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if opts.configPath != "" {
		var err error
		settings, err = config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if err := settings.LoadFromEnv(); err != nil {
		return nil, err
	}

	f := cmd.Flags()
	strs := []struct {
		name string
		dst  *string
		val  string
	}{
		{"api-url", &settings.APIURL, opts.apiURL},
		{"local-folder", &settings.LocalFolder, opts.localFolder},
		{"archive-name", &settings.ArchiveName, opts.archiveName},
		{"extracted-folder", &settings.ExtractedFolder, opts.extractedFolder},
		{"output", &settings.OutputFile, opts.output},
		{"suffix", &settings.ImageSuffix, opts.suffix},
		{"background", &settings.Background, opts.background},
		{"user-agent", &settings.UserAgent, opts.userAgent},
		{"publish-bucket", &settings.PublishBucket, opts.publishBucket},
		{"publish-key", &settings.PublishKey, opts.publishKey},
	}
	for _, s := range strs {
		if f.Changed(s.name) {
			*s.dst = s.val
		}
	}

	ints := []struct {
		name string
		dst  *int
		val  int
	}{
		{"cell-width", &settings.CellWidth, opts.cellWidth},
		{"cell-height", &settings.CellHeight, opts.cellHeight},
		{"padding", &settings.Padding, opts.padding},
		{"columns", &settings.Columns, opts.columns},
		{"workers", &settings.DecodeWorkers, opts.workers},
		{"chunk-size", &settings.ChunkSize, opts.chunkSize},
	}
	for _, i := range ints {
		if f.Changed(i.name) {
			*i.dst = i.val
		}
	}

	if f.Changed("timeout") {
		settings.HTTPTimeout = opts.timeout
	}
	if f.Changed("abort-on-resolve-error") {
		settings.AbortOnResolveError = opts.abortOnResolve
	}
	if len(args) > 0 {
		settings.PublicKey = args[0]
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func run(ctx context.Context, out io.Writer, settings *config.Settings, opts *options) error {
	p := newPrinter(out, opts.verbose)

	runner, err := pipeline.NewRunner(settings, p.event)
	if err != nil {
		return err
	}

	p.header("Disk Collage")

	if opts.dryRun {
		href, err := runner.Resolve(ctx)
		if err != nil {
			return err
		}
		p.event(pipeline.ProgressEvent{Message: "Download URL: " + href, Level: pipeline.LevelSuccess})
		p.line("[Dry run - not downloading]")
		return nil
	}

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	p.rule()
	p.line(fmt.Sprintf("Complete! %d images, %dx%d canvas -> %s",
		result.Files.Len(), result.Bounds.Dx(), result.Bounds.Dy(), result.OutputPath))
	if result.PublishedURL != "" {
		p.line("Published: " + result.PublishedURL)
	}
	return nil
}

// execute runs the root command and maps the outcome to an exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(&options{})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(stderr, "Cancelled.")
			return ExitCancelled
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
