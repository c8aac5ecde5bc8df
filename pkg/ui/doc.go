// Package ui renders run progress for line-oriented terminals.
//
// ProgressDisplay consumes OnProgress callbacks and the final RunSummary.
// Colors are applied only when the caller says the output is a terminal.
package ui
