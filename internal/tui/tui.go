package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/disk-collage/internal/config"
	"github.com/handiism/disk-collage/internal/model"
	"github.com/handiism/disk-collage/internal/pipeline"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

var errCancelled = errors.New("cancelled by user")

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   pipeline.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	result    *model.Result
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	runner *pipeline.Runner
	events chan pipeline.ProgressEvent

	receivedBytes int64
	totalBytes    int64
	placedImages  int32
	totalImages   int32

	// Options
	abortOnResolve bool
	verbose        bool

	width  int
	height int
}

// NewModel creates a new TUI model. settings provides everything except the
// share link, which is entered in the UI.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "https://disk.yandex.ru/d/..."
	ti.SetValue(settings.PublicKey)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:          StateInput,
		textInput:      ti,
		spinner:        sp,
		progress:       prog,
		settings:       settings,
		logs:           make([]LogEntry, 0),
		ctx:            ctx,
		cancel:         cancel,
		abortOnResolve: settings.AbortOnResolveError,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one pipeline progress event.
	ProgressMsg struct {
		Event pipeline.ProgressEvent
	}

	// StartedMsg is sent once the runner has been created.
	StartedMsg struct {
		Runner *pipeline.Runner
		Err    error
	}

	// DoneMsg is sent when the pipeline finishes.
	DoneMsg struct {
		Result *model.Result
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateRunning
				m.events = make(chan pipeline.ProgressEvent, 64)
				return m, tea.Batch(m.start(), m.waitForEvent(), m.spinner.Tick)
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.abortOnResolve = !m.abortOnResolve
				return m, nil
			}

		case "ctrl+l":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateInput
				m.logs = nil
				m.result = nil
				m.err = nil
				m.runner = nil
				m.events = nil
				m.receivedBytes, m.totalBytes = 0, 0
				m.placedImages, m.totalImages = 0, 0
				m.cancel()
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		if msg.Event.Level == pipeline.LevelVerbose && !m.verbose {
			return m, tea.Batch(cmds...)
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case StartedMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		if m.state != StateRunning {
			break
		}
		m.runner = msg.Runner
		cmds = append(cmds, m.run(), m.tickProgress())

	case DoneMsg:
		m.refreshProgress()
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
			m.result = msg.Result
		}

	case TickMsg:
		if m.runner != nil && m.state == StateRunning {
			m.refreshProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) refreshProgress() {
	if m.runner == nil {
		return
	}
	m.receivedBytes, m.totalBytes, m.placedImages, m.totalImages = m.runner.GetProgress()
}

// percent maps the download to the first half of the bar and image
// placement to the second half.
func (m Model) percent() float64 {
	if m.totalImages > 0 {
		return 0.5 + 0.5*float64(m.placedImages)/float64(m.totalImages)
	}
	if m.totalBytes > 0 {
		return 0.5 * float64(m.receivedBytes) / float64(m.totalBytes)
	}
	return 0
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("▦ Disk Collage"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Build a collage from a public disk share"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter share link:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	abortCheck := "[ ]"
	if m.abortOnResolve {
		abortCheck = "[×]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Stop if the link cannot be resolved (ctrl+t)\n", abortCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+l)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Grid: %d columns of %dx%d, padding %d",
		m.settings.Columns, m.settings.CellWidth, m.settings.CellHeight, m.settings.Padding)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output: %s", m.settings.OutputFile)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(m.stage()))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Images: %d/%d | Downloaded: %.2f MB",
		m.placedImages,
		m.totalImages,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) stage() string {
	switch {
	case m.runner == nil:
		return "Starting..."
	case m.totalImages > 0:
		return "Building collage..."
	case m.receivedBytes > 0:
		return "Downloading archive..."
	default:
		return "Resolving share link..."
	}
}

func (m Model) viewComplete() string {
	var b strings.Builder

	summary := "✨ Collage Complete!"
	if r := m.result; r != nil {
		summary += fmt.Sprintf("\n\n"+
			"Images: %d\n"+
			"Canvas: %dx%d\n"+
			"Output: %s",
			r.Files.Len(),
			r.Bounds.Dx(), r.Bounds.Dy(),
			r.OutputPath,
		)
		if r.PublishedURL != "" {
			summary += "\nPublished: " + r.PublishedURL
		}
	}
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case pipeline.LevelError:
			style = errorStyle
			prefix = "✗"
		case pipeline.LevelWarning:
			style = warningStyle
			prefix = "!"
		case pipeline.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case pipeline.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+t: abort on resolve error • ctrl+l: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new collage • q: quit"
	}
	return ""
}

// start validates the settings for the entered link and creates the runner.
func (m Model) start() tea.Cmd {
	settings := *m.settings
	settings.PublicKey = strings.TrimSpace(m.textInput.Value())
	settings.AbortOnResolveError = m.abortOnResolve
	ctx, events := m.ctx, m.events

	return func() tea.Msg {
		if err := settings.Validate(); err != nil {
			return StartedMsg{Err: err}
		}

		runner, err := pipeline.NewRunner(&settings, func(event pipeline.ProgressEvent) {
			select {
			case events <- event:
			case <-ctx.Done():
			}
		})
		return StartedMsg{Runner: runner, Err: err}
	}
}

// run executes the pipeline in the background.
func (m Model) run() tea.Cmd {
	runner, ctx := m.runner, m.ctx
	return func() tea.Msg {
		result, err := runner.Run(ctx)
		return DoneMsg{Result: result, Err: err}
	}
}

// waitForEvent delivers the next pipeline event as a ProgressMsg.
func (m Model) waitForEvent() tea.Cmd {
	events, ctx := m.events, m.ctx
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case event := <-events:
			return ProgressMsg{Event: event}
		case <-ctx.Done():
			return nil
		}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
