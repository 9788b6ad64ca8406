// Package progress renders the progress of a run in the terminal.
package progress
