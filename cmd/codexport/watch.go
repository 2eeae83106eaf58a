package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/codexport/internal/export"
	"github.com/gorewood/codexport/internal/output"
	"github.com/gorewood/codexport/internal/watch"
)

// newWatchCmd creates the watch command.
func newWatchCmd() *cobra.Command {
	flags := &exportFlags{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-export whenever the tree changes",
		Long: `Export dir once, then keep the document up to date.

Every directory that is not ignored is watched. Changes to files the filter
would skip, to ignored directories and to the output document itself are not
acted on. Each burst of changes triggers one full export. Stop with Ctrl-C.

Examples:
  codexport watch                    # Watch the current directory
  codexport watch ./app -o ctx.md    # Keep ctx.md in sync with ./app
  codexport watch --debounce 2s      # Wait longer for the tree to settle`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, rootArg(args), flags, debounce)
		},
	}

	addExportFlags(cmd, flags)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-exporting")

	return cmd
}

// runWatch runs the watch loop until interrupted.
func runWatch(cmd *cobra.Command, dir string, flags *exportFlags, debounce time.Duration) error {
	printer := newPrinter(cmd)

	exp, err := newExporter(cmd, printer, dir, flags)
	if err != nil {
		printer.Error(err)
		return err
	}

	w, err := watch.New(exp, watch.Options{
		Debounce: debounce,
		Logger:   newLogger(cmd),
		OnRun: func(result *export.Result, runErr error) {
			if runErr != nil {
				printer.Error(runErr)
				return
			}
			if err := printResult(printer, result); err != nil {
				printer.Error(err)
			}
		},
	})
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("cannot watch "+exp.Root(), err)
		printer.Error(sysErr)
		return sysErr
	}
	defer w.Close() //nolint:errcheck // watcher is discarded on exit

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer.Stderr("Watching %s (%d directories). Press Ctrl-C to stop.\n", exp.Root(), w.Watched())
	return w.Run(ctx)
}
