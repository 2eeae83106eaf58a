package main

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/gorewood/codexport/internal/config"
	"github.com/gorewood/codexport/internal/export"
	"github.com/gorewood/codexport/internal/logging"
	"github.com/gorewood/codexport/internal/output"
)

// exportFlags holds the flags shared by every command that runs an export.
type exportFlags struct {
	output string
	title  string
	noSort bool
}

// addExportFlags registers the export flags on cmd.
func addExportFlags(cmd *cobra.Command, flags *exportFlags) {
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: <dir>/codebase_export.md)")
	cmd.Flags().StringVar(&flags.title, "title", "", "Document title (default: Codebase Export)")
	cmd.Flags().BoolVar(&flags.noSort, "no-sort", false, "Keep directory listing order instead of sorting names")
}

// runExport executes a single export of dir.
func runExport(cmd *cobra.Command, dir string, flags *exportFlags) error {
	printer := newPrinter(cmd)

	exp, err := newExporter(cmd, printer, dir, flags)
	if err != nil {
		printer.Error(err)
		return err
	}

	if !printer.IsJSON() {
		printer.Print("Exporting %s...\n", exp.Root())
	}

	result, err := exp.Run()
	if err != nil {
		printer.Error(err)
		return err
	}
	return printResult(printer, result)
}

// newExporter checks dir, loads the layered config and builds an exporter
// that reports skips through printer.
func newExporter(cmd *cobra.Command, printer *output.Printer, dir string, flags *exportFlags) (*export.Exporter, error) {
	if err := checkRoot(dir); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cmd, dir, flags)
	if err != nil {
		return nil, err
	}

	return export.New(cfg, export.Options{
		Root:       dir,
		OutputPath: flags.output,
		Logger:     newLogger(cmd),
		OnSkip: func(s export.Skip) {
			if s.Dir {
				printer.Warn("skipping unreadable directory: %s", s.Path)
				return
			}
			printer.Warn("skipping binary or unreadable file: %s", s.Path)
		},
	})
}

// checkRoot verifies dir is an existing directory.
func checkRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return output.NewUserErrorWithCause("cannot read directory "+dir, err)
	}
	if !info.IsDir() {
		return output.NewUserError(dir + " is not a directory")
	}
	return nil
}

// loadConfig loads the configuration for dir.
func loadConfig(cmd *cobra.Command, dir string, flags *exportFlags) (config.Config, error) {
	cfg, err := config.Load(loadOptions(cmd, dir, flags))
	if err != nil {
		return config.Config{}, output.NewUserErrorWithCause("cannot load config", err)
	}
	return cfg, nil
}

// loadOptions maps the command line onto config layers. Only flags the
// user actually set override the lower layers.
func loadOptions(cmd *cobra.Command, dir string, flags *exportFlags) config.LoadOptions {
	overrides := make(map[string]any)
	if cmd.Flags().Changed("title") {
		overrides["title"] = flags.title
	}
	if cmd.Flags().Changed("no-sort") {
		overrides["sort"] = !flags.noSort
	}

	return config.LoadOptions{
		Root:      dir,
		File:      persistentFlag(cmd, "config"),
		UserFile:  config.UserFile(),
		Overrides: overrides,
	}
}

// newLogger returns the diagnostic logger, writing to stderr.
func newLogger(cmd *cobra.Command) hclog.Logger {
	color := output.ResolveColorMode(persistentFlag(cmd, "color"), output.IsTTY(cmd.ErrOrStderr()))
	return logging.New(cmd.ErrOrStderr(), isVerbose(cmd), color)
}

// printResult prints the run summary.
func printResult(printer *output.Printer, result *export.Result) error {
	if printer.IsJSON() {
		return export.FormatJSON(printer, result)
	}

	printer.Done("Exported %d files (%s)", result.Files, humanize.Bytes(uint64(result.Bytes))) //nolint:gosec // byte counts are never negative
	printer.KeyValue("Output", result.OutputPath)
	return nil
}
