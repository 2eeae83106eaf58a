// Package output provides structured output handling for the codexport CLI.
//
// This package handles both human-readable and JSON output formats so that
// an export run can be read by people at a terminal or consumed by scripts.
//
// # Printer
//
// The Printer is the primary interface for command output. It switches
// format based on the --json flag and TTY detection:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout()))
//
//	printer.Done("Exported %d files", n)
//	printer.Warn("skipping binary or unreadable file: %s", rel)
//	printer.Error(err)
//
// # JSON Mode
//
// When JSON mode is enabled, errors are structured:
//
//	// Error: {"error": "message", "code": N}
//
// Warnings are suppressed in JSON mode; commands fold them into their
// JSON result instead.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0: Success
//	output.ExitUserError   // 1: User error (bad args, invalid config)
//	output.ExitSystemError // 2: System error (output file cannot be created)
package output
