package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"listingscraper/pkg/models"
)

// ProgressDisplay prints a single updating progress line for a run and a
// summary once it ends. It implements models.ProgressReporter.
type ProgressDisplay struct {
	mu        sync.Mutex
	out       io.Writer
	label     string
	completed int
	total     int
	startTime time.Time
	color     bool
	live      bool
}

// NewProgressDisplay creates a display. live redraws the line in place with
// carriage returns; otherwise only the summary is printed.
func NewProgressDisplay(out io.Writer, label string, color, live bool) *ProgressDisplay {
	return &ProgressDisplay{
		out:       out,
		label:     label,
		startTime: time.Now(),
		color:     color,
		live:      live,
	}
}

func (p *ProgressDisplay) paint(c func(string) string, s string) string {
	if !p.color {
		return s
	}
	return c(s)
}

// OnProgress records progress and redraws the line
func (p *ProgressDisplay) OnProgress(completed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed = completed
	p.total = total
	if p.live {
		p.printProgress()
	}
}

func (p *ProgressDisplay) printProgress() {
	line := fmt.Sprintf("%s [%s] %d/%d • %s",
		p.paint(Cyan, p.label),
		Bar(p.completed, p.total, 20),
		p.completed,
		p.total,
		ETA(p.completed, p.total, time.Since(p.startTime)),
	)
	fmt.Fprintf(p.out, "\r%s\r%s", strings.Repeat(" ", 100), line)
}

// Complete prints the run summary
func (p *ProgressDisplay) Complete(summary models.RunSummary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.live {
		fmt.Fprintln(p.out)
	}
	fmt.Fprintln(p.out, SummaryLine(summary, p.color))
	fmt.Fprintf(p.out, "  %s %s\n", p.paint(Dim, "•"), summary.Folder)
	fmt.Fprintf(p.out, "  %s finished in %s\n", p.paint(Dim, "•"), FormatDuration(summary.Duration))
}

// SummaryLine renders the one-line verdict of a run
func SummaryLine(s models.RunSummary, color bool) string {
	paint := func(c func(string) string, v string) string {
		if !color {
			return v
		}
		return c(v)
	}

	switch {
	case s.Cancelled:
		return paint(Yellow, fmt.Sprintf("⚠ Cancelled: %d of %d downloaded", s.Succeeded, s.Total))
	case s.Failed > 0:
		return paint(Yellow, fmt.Sprintf("⚠ %d of %d downloaded, %d failed", s.Succeeded, s.Total, s.Failed))
	default:
		return paint(Green, fmt.Sprintf("✓ %d of %d downloaded", s.Succeeded, s.Total))
	}
}
