package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gorewood/codexport/internal/config"
	"github.com/gorewood/codexport/internal/output"
)

// newConfigCmd creates the config command and its subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create configuration",
		Long: `Show or create codexport configuration.

Settings are layered, later layers winning:
  1. Built-in defaults
  2. User config    (~/.config/codexport/config.yaml)
  3. Project config (<dir>/.codexport.yaml, or --config)
  4. CODEXPORT_* environment variables (lists are comma separated)
  5. Command-line flags`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

// newConfigShowCmd creates the config show command.
func newConfigShowCmd() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "show [dir]",
		Short: "Print the effective configuration",
		Long: `Print the configuration an export of dir would use, after every layer
has been applied.

Examples:
  codexport config show            # YAML for the current directory
  codexport config show --json     # Same, as JSON
  codexport config show --no-sort  # See the effect of a flag`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, rootArg(args), flags)
		},
	}
	addExportFlags(cmd, flags)
	return cmd
}

func runConfigShow(cmd *cobra.Command, dir string, flags *exportFlags) error {
	printer := newPrinter(cmd)

	cfg, err := loadConfig(cmd, dir, flags)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(cfg)
	}

	data, err := cfg.Marshal()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("cannot render config", err)
		printer.Error(sysErr)
		return sysErr
	}
	printer.Print("%s", data)
	return nil
}

// newConfigInitCmd creates the config init command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a project config with the defaults",
		Long: `Write .codexport.yaml into dir, filled with the built-in defaults, as a
starting point for project-specific ignore lists.

Examples:
  codexport config init          # Create ./.codexport.yaml
  codexport config init --force  # Overwrite an existing file`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, rootArg(args), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func runConfigInit(cmd *cobra.Command, dir string, force bool) error {
	printer := newPrinter(cmd)

	if err := checkRoot(dir); err != nil {
		printer.Error(err)
		return err
	}

	path := filepath.Join(dir, config.ProjectFileName)
	if _, err := os.Stat(path); err == nil && !force {
		userErr := output.NewUserError(path + " already exists (use --force to overwrite)")
		printer.Error(userErr)
		return userErr
	}

	data, err := config.Default().Marshal()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("cannot render config", err)
		printer.Error(sysErr)
		return sysErr
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // project config is meant to be committed
		sysErr := output.NewSystemErrorWithCause("cannot write "+path, err)
		printer.Error(sysErr)
		return sysErr
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{"status": "created", "path": path})
	}
	printer.Done("Wrote %s", path)
	return nil
}

// configFile describes one config file the loader consults.
type configFile struct {
	Layer  string `json:"layer"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// newConfigPathCmd creates the config path command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path [dir]",
		Short: "List the config files that would be read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPath(cmd, rootArg(args))
		},
	}
}

func runConfigPath(cmd *cobra.Command, dir string) error {
	printer := newPrinter(cmd)

	files := configFiles(cmd, dir)
	if printer.IsJSON() {
		return printer.WriteJSON(files)
	}

	for _, f := range files {
		state := "missing"
		if f.Exists {
			state = "found"
		}
		printer.KeyValue(f.Layer, f.Path+" "+printer.Dim("("+state+")"))
	}
	return nil
}

// configFiles lists the user and project config files for dir in load order.
func configFiles(cmd *cobra.Command, dir string) []configFile {
	var files []configFile
	if user := config.UserFile(); user != "" {
		files = append(files, configFile{Layer: "user", Path: user, Exists: fileExists(user)})
	}

	project := persistentFlag(cmd, "config")
	if project == "" {
		project = filepath.Join(dir, config.ProjectFileName)
	}
	if abs, err := filepath.Abs(project); err == nil {
		project = abs
	}
	return append(files, configFile{Layer: "project", Path: project, Exists: fileExists(project)})
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
