// Package pipeline runs the share-link-to-collage workflow.
//
// # Runner
//
// The Runner executes four steps in order:
//
//  1. Resolve the public share link into a direct download URL
//  2. Stream the archive to disk and extract it
//  3. Collect image files from the extracted tree
//  4. Build the collage and save it (and optionally publish it)
//
// # Basic Usage
//
//	runner, err := pipeline.NewRunner(settings, func(event pipeline.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := runner.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Resolution Failures
//
// When the share link cannot be resolved an error event is emitted and the
// remaining steps still run against whatever is already on disk. Set
// settings.AbortOnResolveError to stop instead.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Byte and image counters can also be polled with GetProgress.
package pipeline
