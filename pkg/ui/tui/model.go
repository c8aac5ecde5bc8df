package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"listingscraper/pkg/models"
)

// Phase is where the run currently is
type Phase int

const (
	PhaseFetching Phase = iota
	PhaseDownloading
	PhaseStopping
	PhaseDone
)

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// Model is the bubbletea model for one listing run
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	title     string
	phase     Phase
	completed int
	total     int
	startTime time.Time
	summary   models.RunSummary
	err       error

	// first interrupt stops gracefully, the second aborts in-flight requests
	interrupts int
	onCancel   func()
	onAbort    func()

	width          int
	showHelp       bool
	logMessages    []LogMessage
	maxLogMessages int
}

// NewModel creates a model. onCancel and onAbort may be nil.
func NewModel(title string, onCancel, onAbort func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentCyan)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return Model{
		spinner:        s,
		progress:       p,
		title:          title,
		phase:          PhaseFetching,
		startTime:      time.Now(),
		onCancel:       onCancel,
		onAbort:        onAbort,
		width:          80,
		maxLogMessages: 8,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Percent is the completed share in [0,1]
func (m *Model) Percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.completed) / float64(m.total)
}

// Phase returns the current phase
func (m *Model) Phase() Phase {
	return m.phase
}

// Summary returns the summary received when the run ended
func (m *Model) Summary() (models.RunSummary, error) {
	return m.summary, m.err
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	color := dimWhite
	switch level {
	case "ERROR":
		color = alertRed
	case "WARN":
		color = accentOrange
	case "SUCCESS":
		color = accentGreen
	case "INFO":
		color = accentCyan
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}
