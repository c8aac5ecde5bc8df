package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"listingscraper/pkg/ui"
)

// View renders the entire TUI
func (m Model) View() string {
	sections := []string{
		titleStyle.Render(" " + m.title + " "),
		m.renderStatus(),
		m.renderStats(),
	}
	if len(m.logMessages) > 0 {
		sections = append(sections, m.renderLogs())
	}
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("q: stop • ?: help"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderStatus() string {
	switch m.phase {
	case PhaseFetching:
		return m.spinner.View() + " Fetching listing page..."
	case PhaseDone:
		if m.err != nil {
			return errorStyle.Render("✗ " + m.err.Error())
		}
		return statusStyle(m.summary.Failed, m.summary.Cancelled, nil).Render(ui.SummaryLine(m.summary, false))
	}

	label := "Downloading photos"
	if m.phase == PhaseStopping {
		label = warningStyle.Render("Stopping")
	}
	return fmt.Sprintf("%s %s\n%s %d/%d",
		m.spinner.View(),
		label,
		m.progress.ViewAs(m.Percent()),
		m.completed,
		m.total,
	)
}

func (m Model) renderStats() string {
	elapsed := time.Since(m.startTime)
	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Elapsed:"), statsValueStyle.Render(ui.FormatDuration(elapsed))),
	}
	if m.phase == PhaseDownloading {
		stats = append(stats, fmt.Sprintf("%s %s", statsLabelStyle.Render("ETA:"), statsValueStyle.Render(ui.ETA(m.completed, m.total, elapsed))))
	}
	if m.phase == PhaseDone && m.err == nil {
		stats = append(stats, fmt.Sprintf("%s %s", statsLabelStyle.Render("Folder:"), statsValueStyle.Render(m.summary.Folder)))
	}
	return panelStyle.Width(m.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, stats...))
}

func (m Model) renderLogs() string {
	maxMsgLen := m.width - 20
	if maxMsgLen < 20 {
		maxMsgLen = 20
	}

	var logs []string
	for _, msg := range m.logMessages {
		message := msg.Message
		if len(message) > maxMsgLen {
			message = message[:maxMsgLen-3] + "..."
		}
		logs = append(logs, fmt.Sprintf("%s %s",
			logTimestampStyle.Render(msg.Time.Format("15:04:05")),
			lipgloss.NewStyle().Foreground(msg.Color).Render(message)))
	}
	return strings.Join(logs, "\n")
}

func (m Model) renderHelp() string {
	return helpStyle.Render(`q/ctrl+c  stop after in-flight downloads (press twice to abort)
?         toggle this help`)
}
