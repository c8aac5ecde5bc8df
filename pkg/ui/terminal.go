package ui

import (
	"fmt"
	"io"
)

// Banner printed before a run in line mode
const Banner = `
  ┌─────────────────────────────────────┐
  │  listingscraper · listing photo dl  │
  └─────────────────────────────────────┘
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// Plain returns its input unchanged; used in place of a color when the
// output is not a terminal
func Plain(text string) string { return text }

// Printer writes labelled messages, colored only when enabled
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a Printer writing to out
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

func (p *Printer) paint(c func(string) string, s string) string {
	if !p.color {
		return s
	}
	return c(s)
}

// Banner prints the application banner
func (p *Printer) Banner() {
	fmt.Fprint(p.out, p.paint(Cyan, Banner))
}

// Error prints an error message in red
func (p *Printer) Error(msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	fmt.Fprintln(p.out, p.paint(Red, msg))
}

// Success prints a success message in green
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.paint(Green, msg))
}

// Info prints a label and value
func (p *Printer) Info(label, value string) {
	fmt.Fprintf(p.out, "%s: %s\n", p.paint(Cyan, label), p.paint(Yellow, value))
}

// Warning prints a warning message in yellow
func (p *Printer) Warning(msg string) {
	fmt.Fprintln(p.out, p.paint(Yellow, msg))
}

// Lines prints pre-formatted lines dimmed
func (p *Printer) Lines(lines []string) {
	for _, l := range lines {
		fmt.Fprintln(p.out, "  "+p.paint(Dim, l))
	}
}
