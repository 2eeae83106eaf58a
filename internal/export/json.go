package export

import (
	"github.com/gorewood/codexport/internal/output"
)

// FormatJSON writes the run result as a JSON object to the printer.
// Skipped is always an array so consumers can iterate without a nil check.
func FormatJSON(printer *output.Printer, result *Result) error {
	if result.Skipped == nil {
		result.Skipped = []Skip{}
	}
	return printer.WriteJSON(result)
}
