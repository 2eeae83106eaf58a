// Package logging builds the diagnostic logger shared by the exporter and watcher.
package logging

import (
	"io"

	"github.com/hashicorp/go-hclog"
)

// Name is the logger name that prefixes every line.
const Name = "codexport"

// New returns a logger writing to w. Verbose enables debug traces of
// pruned directories, filtered files and watch events; otherwise only
// warnings and errors are logged. Color follows the printer's TTY decision.
func New(w io.Writer, verbose bool, color bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}

	colorOpt := hclog.ColorOff
	if color {
		colorOpt = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:            Name,
		Level:           level,
		Output:          w,
		Color:           colorOpt,
		DisableTime:     !verbose,
		IncludeLocation: false,
	})
}

// Discard returns a logger that drops everything. Used when callers pass no logger.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
