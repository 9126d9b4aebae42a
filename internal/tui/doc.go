// Package tui provides a Bubble Tea terminal user interface for disk-collage.
//
// The model walks through four states: input of the share link, a running
// pipeline with a progress bar and log pane, and a final complete or error
// screen. Progress events from the pipeline are streamed into the model
// through a channel; byte and image counters are polled on a ticker.
package tui
