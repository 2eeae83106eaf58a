package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/codexport/internal/output"
)

// checkStatus represents the result of a health check.
type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

// checkResult holds the result of a single health check.
type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// doctorResult holds all check results organized by category.
type doctorResult struct {
	Version    string         `json:"version"`
	Root       string         `json:"root"`
	Config     []checkResult  `json:"config"`
	Filesystem []checkResult  `json:"filesystem"`
	Summary    *doctorSummary `json:"summary"`
}

// doctorSummary holds the counts of check results.
type doctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

// doctorFlags holds the command-line flags for the doctor command.
type doctorFlags struct {
	export exportFlags
	quiet  bool
}

// newDoctorCmd creates the doctor command.
func newDoctorCmd() *cobra.Command {
	flags := &doctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor [dir]",
		Short: "Check that an export of dir would succeed",
		Long: `Check that an export of dir would succeed, without writing the document.

Runs a series of health checks across two categories:
  CONFIG     - Config files load and the filter settings are consistent
  FILESYSTEM - The directory is readable and the output is writable

Each check reports:
  Pass    - Check passed successfully
  Warning - Non-critical issue found
  Fail    - The export would fail

Examples:
  codexport doctor              # Check the current directory
  codexport doctor ./service    # Check another directory
  codexport doctor --quiet      # Only show failures and warnings
  codexport doctor --json       # Output results as JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, rootArg(args), flags)
		},
	}

	addExportFlags(cmd, &flags.export)
	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Only show failures and warnings")

	return cmd
}

// runDoctor executes the doctor command. Failed checks are reported, not
// returned as errors.
func runDoctor(cmd *cobra.Command, dir string, flags *doctorFlags) error {
	printer := newPrinter(cmd)

	result := gatherDoctorChecks(cmd, dir, &flags.export)

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	outputDoctorHuman(printer, result, flags.quiet)
	return nil
}

// gatherDoctorChecks runs all health checks and returns results.
func gatherDoctorChecks(cmd *cobra.Command, dir string, flags *exportFlags) *doctorResult {
	env := newDoctorEnv(cmd, dir, flags)

	result := &doctorResult{
		Version:    version,
		Root:       env.root,
		Config:     runConfigChecks(env),
		Filesystem: runFilesystemChecks(env),
		Summary:    &doctorSummary{},
	}

	allChecks := append(append([]checkResult{}, result.Config...), result.Filesystem...)
	for _, check := range allChecks {
		switch check.Status {
		case checkPass:
			result.Summary.Passed++
		case checkWarn:
			result.Summary.Warnings++
		case checkFail:
			result.Summary.Failed++
		}
	}

	return result
}

// outputDoctorHuman outputs the doctor result in human-readable format.
func outputDoctorHuman(printer *output.Printer, result *doctorResult, quiet bool) {
	printer.Println()
	printer.Print("codexport doctor v%s\n", result.Version)
	printer.Print("%s\n", printer.Dim(result.Root))

	printCheckSection(printer, "CONFIG", result.Config, quiet)
	printCheckSection(printer, "FILESYSTEM", result.Filesystem, quiet)

	printer.Println()
	printer.Print("%s %d passed  %s %d warnings  %s %d failed\n",
		statusIcon(checkPass), result.Summary.Passed,
		statusIcon(checkWarn), result.Summary.Warnings,
		statusIcon(checkFail), result.Summary.Failed,
	)
}

// printCheckSection prints a section of checks.
func printCheckSection(printer *output.Printer, title string, checks []checkResult, quiet bool) {
	if quiet && allPassed(checks) {
		return
	}

	printer.Section(title)

	for _, check := range checks {
		if quiet && check.Status == checkPass {
			continue
		}

		printer.Print("  %s  %s %s\n", statusIcon(check.Status), check.Name, check.Message)
		if check.Hint != "" {
			printer.Print("     %s %s\n", hintPrefix(), check.Hint)
		}
	}
}

func allPassed(checks []checkResult) bool {
	for _, check := range checks {
		if check.Status != checkPass {
			return false
		}
	}
	return true
}

// statusIcon returns the icon for a check status.
func statusIcon(status checkStatus) string {
	switch status {
	case checkPass:
		return "ok"
	case checkWarn:
		return "!!"
	case checkFail:
		return "XX"
	default:
		return "??"
	}
}

// hintPrefix returns the prefix for hint lines.
func hintPrefix() string {
	return "->"
}
