package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the bubbletea program for one listing run. It implements
// models.ProgressReporter so it can be handed to the scraper directly.
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a TUI. onCancel runs on the first q/ctrl+c, onAbort on the
// second.
func NewTUI(title string, onCancel, onAbort func(), opts ...tea.ProgramOption) *TUI {
	model := NewModel(title, onCancel, onAbort)
	return &TUI{
		program: tea.NewProgram(&model, opts...),
		model:   &model,
	}
}

// Run blocks until the run ends and the program exits
func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

// OnProgress forwards a progress callback to the program
func (t *TUI) OnProgress(completed, total int) {
	t.program.Send(SendProgress(completed, total))
}

// Finish tells the program the run is over; the program then exits
func (t *TUI) Finish(msg DoneMsg) {
	t.program.Send(msg)
}

// Log shows a line in the log area
func (t *TUI) Log(level, format string, args ...interface{}) {
	t.program.Send(SendLog(level, "%s", fmt.Sprintf(format, args...)))
}
