package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"listingscraper/pkg/models"
)

// ProgressMsg mirrors one OnProgress callback
type ProgressMsg struct {
	Completed int
	Total     int
}

// DoneMsg ends the run; Err is set for run-level failures
type DoneMsg struct {
	Summary models.RunSummary
	Err     error
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 20; w > 10 {
			m.progress.Width = w
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		if m.phase == PhaseFetching {
			m.phase = PhaseDownloading
		}
		if msg.Completed >= m.completed {
			m.completed = msg.Completed
		}
		m.total = msg.Total
		return m, nil

	case DoneMsg:
		m.phase = PhaseDone
		m.summary = msg.Summary
		m.err = msg.Err
		if msg.Err == nil {
			m.completed = msg.Summary.Succeeded + msg.Summary.Failed
			m.total = msg.Summary.Total
		}
		return m, tea.Quit

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		if m.phase == PhaseDone {
			return m, tea.Quit
		}
		m.interrupts++
		switch m.interrupts {
		case 1:
			m.phase = PhaseStopping
			m.AddLogMessage("WARN", "Stopping after in-flight downloads, press again to abort")
			if m.onCancel != nil {
				m.onCancel()
			}
		case 2:
			m.AddLogMessage("ERROR", "Aborting in-flight downloads")
			if m.onAbort != nil {
				m.onAbort()
			}
		}
		return m, nil

	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	return m, nil
}

// Commands for external senders

// SendProgress creates a progress message
func SendProgress(completed, total int) tea.Msg {
	return ProgressMsg{Completed: completed, Total: total}
}

// SendDone creates the final message of a run
func SendDone(summary models.RunSummary, err error) tea.Msg {
	return DoneMsg{Summary: summary, Err: err}
}

// SendLog creates a log message
func SendLog(level, format string, args ...interface{}) tea.Msg {
	return LogMsg{Level: level, Message: fmt.Sprintf(format, args...)}
}
