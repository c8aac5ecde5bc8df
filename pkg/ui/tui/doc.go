// Package tui is the bubbletea front end for a listing run.
//
// The model only consumes progress callbacks and the final summary. Key
// presses map to the run's cancellation: the first q or ctrl+c requests a
// graceful stop, the second aborts requests in flight.
package tui
