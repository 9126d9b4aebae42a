package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/disk-collage/internal/pipeline"
)

// printer renders progress events as prefixed console lines.
type printer struct {
	out     io.Writer
	verbose bool

	title   lipgloss.Style
	dim     lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
}

func newPrinter(out io.Writer, verbose bool) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:     out,
		verbose: verbose,
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("#6C757D")),
		success: r.NewStyle().Foreground(lipgloss.Color("#95E1A3")),
		failure: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#FFE66D")),
		info:    r.NewStyle().Foreground(lipgloss.Color("#A8DADC")),
	}
}

func (p *printer) event(event pipeline.ProgressEvent) {
	if event.Level == pipeline.LevelVerbose && !p.verbose {
		return
	}

	var style lipgloss.Style
	prefix := " "
	switch event.Level {
	case pipeline.LevelError:
		style, prefix = p.failure, "✗"
	case pipeline.LevelWarning:
		style, prefix = p.warning, "!"
	case pipeline.LevelSuccess:
		style, prefix = p.success, "✓"
	case pipeline.LevelInfo:
		style, prefix = p.info, "›"
	default:
		style = p.dim
	}

	fmt.Fprintln(p.out, style.Render(prefix+" "+event.Message))
}

func (p *printer) header(title string) {
	fmt.Fprintln(p.out, p.title.Render(title))
	p.rule()
}

func (p *printer) rule() {
	fmt.Fprintln(p.out, p.dim.Render(strings.Repeat("━", 40)))
}

func (p *printer) line(s string) {
	fmt.Fprintln(p.out, s)
}
