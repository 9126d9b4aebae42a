package pipeline

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/handiism/disk-collage/internal/collage"
	"github.com/handiism/disk-collage/internal/config"
	"github.com/handiism/disk-collage/internal/http"
	ioutils "github.com/handiism/disk-collage/internal/io"
	"github.com/handiism/disk-collage/internal/model"
	"github.com/handiism/disk-collage/internal/publish"
	"github.com/handiism/disk-collage/internal/yadisk"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// progressStep is the download progress granularity reported as events, in
// percent of Content-Length.
const progressStep = 10

// unknownSizeStep is the reporting interval when Content-Length is missing.
const unknownSizeStep = 1 << 20

// Runner coordinates one collage run.
type Runner struct {
	settings   *config.Settings
	pathCfg    *model.PathConfig
	httpClient *http.Client
	resolver   *yadisk.Resolver
	builder    *collage.Builder

	receivedBytes int64
	totalBytes    int64
	placedImages  int32
	totalImages   int32

	onProgress func(ProgressEvent)
}

// NewRunner creates a Runner from validated settings.
func NewRunner(settings *config.Settings, onProgress func(ProgressEvent)) (*Runner, error) {
	background, err := settings.BackgroundColor()
	if err != nil {
		return nil, err
	}

	client := http.NewClient(settings.ToClientOptions())

	r := &Runner{
		settings:   settings,
		pathCfg:    settings.ToPathConfig(),
		httpClient: client,
		resolver:   yadisk.NewResolver(client, settings.APIURL),
		onProgress: onProgress,
	}

	r.builder = collage.NewBuilder(settings.ToLayout(), ioutils.NewImageService(), collage.Options{
		Background: background,
		Workers:    settings.DecodeWorkers,
		OnPlaced: func(placed, total int) {
			atomic.StoreInt32(&r.placedImages, int32(placed))
			atomic.StoreInt32(&r.totalImages, int32(total))
			r.progress(ProgressEvent{Message: fmt.Sprintf("Placed image %d/%d", placed, total), Level: LevelVerbose})
		},
	})

	return r, nil
}

// Run executes every step in order and returns a summary of the run.
func (r *Runner) Run(ctx context.Context) (*model.Result, error) {
	archive, err := r.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	files, err := r.Collect(ctx)
	if err != nil {
		return nil, err
	}

	bounds, err := r.Build(ctx, files)
	if err != nil {
		return nil, err
	}

	result := &model.Result{
		Archive:    archive,
		Files:      files,
		Bounds:     bounds,
		OutputPath: r.pathCfg.OutputPath,
	}

	if r.settings.PublishBucket != "" {
		result.PublishedURL, err = r.Publish(ctx)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Resolve returns the direct download URL of the configured share link.
func (r *Runner) Resolve(ctx context.Context) (string, error) {
	r.progress(ProgressEvent{Message: fmt.Sprintf("Resolving %s", r.settings.PublicKey), Level: LevelVerbose})
	return r.resolver.Resolve(ctx, r.settings.PublicKey)
}

// Fetch resolves the share link, downloads the archive and extracts it.
//
// A resolution failure is reported as an error event and Fetch returns an
// unresolved archive with a nil error, unless AbortOnResolveError is set.
// Nothing is written to disk in that case.
func (r *Runner) Fetch(ctx context.Context) (*model.Archive, error) {
	href, err := r.Resolve(ctx)
	archive := model.NewArchive(href, r.pathCfg)
	if err != nil {
		r.progress(ProgressEvent{Message: fmt.Sprintf("Error getting download link: %v", err), Level: LevelError})
		if r.settings.AbortOnResolveError {
			return nil, err
		}
		return archive, nil
	}

	if err := ioutils.EnsureDir(r.pathCfg.LocalFolder); err != nil {
		return nil, fmt.Errorf("create %s: %w", r.pathCfg.LocalFolder, err)
	}

	var nextReport int64
	size, err := r.httpClient.DownloadFile(ctx, archive.URL, archive.Path, func(written, total int64) {
		atomic.StoreInt64(&r.receivedBytes, written)
		atomic.StoreInt64(&r.totalBytes, total)
		if written < nextReport {
			return
		}
		if total > 0 {
			pct := written * 100 / total
			r.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded %d%% (%d/%d bytes)", pct, written, total), Level: LevelVerbose})
			nextReport = (pct/progressStep + 1) * progressStep * total / 100
		} else {
			r.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded %d bytes", written), Level: LevelVerbose})
			nextReport = written + unknownSizeStep
		}
	})
	if err != nil {
		return nil, fmt.Errorf("download archive: %w", err)
	}
	archive.Size = size
	r.progress(ProgressEvent{Message: fmt.Sprintf("Archive downloaded to %s (%d bytes)", archive.Path, size), Level: LevelSuccess})

	n, err := ioutils.ExtractZip(archive.Path, archive.ExtractDir)
	if err != nil {
		return nil, fmt.Errorf("extract archive: %w", err)
	}
	r.progress(ProgressEvent{Message: fmt.Sprintf("Archive extracted to %s (%d entries)", archive.ExtractDir, n), Level: LevelSuccess})

	return archive, nil
}

// Collect lists the image files in the extracted tree.
func (r *Runner) Collect(ctx context.Context) (model.FileList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := ioutils.CollectFiles(r.pathCfg.ExtractedFolder, r.settings.ImageSuffix)
	if err != nil {
		return nil, fmt.Errorf("collect images: %w", err)
	}

	atomic.StoreInt32(&r.totalImages, int32(files.Len()))
	r.progress(ProgressEvent{Message: fmt.Sprintf("Found %d images", files.Len()), Level: LevelInfo})
	return files, nil
}

// Build lays files out on the grid and writes the collage to the output path.
func (r *Runner) Build(ctx context.Context, files model.FileList) (image.Rectangle, error) {
	canvas, err := r.builder.Build(ctx, files)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("build collage: %w", err)
	}

	if err := r.builder.Save(canvas, r.pathCfg.OutputPath); err != nil {
		return image.Rectangle{}, fmt.Errorf("save collage: %w", err)
	}

	bounds := canvas.Bounds()
	r.progress(ProgressEvent{Message: fmt.Sprintf("Collage saved to %s (%dx%d)", r.pathCfg.OutputPath, bounds.Dx(), bounds.Dy()), Level: LevelSuccess})
	return bounds, nil
}

// Publish uploads the saved collage to the configured bucket and returns
// the object URL.
func (r *Runner) Publish(ctx context.Context) (string, error) {
	p, err := publish.Open(ctx, r.settings.PublishBucket)
	if err != nil {
		return "", err
	}
	defer p.Close()

	key, err := p.Publish(ctx, r.pathCfg.OutputPath, r.settings.PublishKey)
	if err != nil {
		return "", fmt.Errorf("publish collage: %w", err)
	}

	objectURL := publish.ObjectURL(r.settings.PublishBucket, key)
	r.progress(ProgressEvent{Message: fmt.Sprintf("Collage published to %s", objectURL), Level: LevelSuccess})
	return objectURL, nil
}

// GetProgress returns the current download and placement counters.
// total is -1 while the archive size is unknown.
func (r *Runner) GetProgress() (received, total int64, placed, images int32) {
	return atomic.LoadInt64(&r.receivedBytes), atomic.LoadInt64(&r.totalBytes),
		atomic.LoadInt32(&r.placedImages), atomic.LoadInt32(&r.totalImages)
}

func (r *Runner) progress(event ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(event)
	}
}
