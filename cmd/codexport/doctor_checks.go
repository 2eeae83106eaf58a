package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/codexport/internal/config"
	"github.com/gorewood/codexport/internal/filter"
)

// doctorEnv is what every check inspects: the resolved paths and the
// effective config, or the error that prevented loading it.
type doctorEnv struct {
	root     string
	output   string
	cfg      config.Config
	cfgErr   error
	userFile string
}

func newDoctorEnv(cmd *cobra.Command, dir string, flags *exportFlags) *doctorEnv {
	env := &doctorEnv{root: dir, userFile: config.UserFile()}
	if abs, err := filepath.Abs(dir); err == nil {
		env.root = abs
	}

	env.cfg, env.cfgErr = config.Load(loadOptions(cmd, dir, flags))
	if env.cfgErr != nil {
		// Keep checking the filesystem with the defaults
		env.cfg = config.Default()
	}

	env.output = filepath.Join(env.root, env.cfg.Output)
	if flags.output != "" {
		env.output = flags.output
		if abs, err := filepath.Abs(flags.output); err == nil {
			env.output = abs
		}
	}
	return env
}

// runConfigChecks performs config-related checks.
func runConfigChecks(env *doctorEnv) []checkResult {
	checks := make([]checkResult, 0, 4)
	checks = append(checks, checkUserConfig(env))
	checks = append(checks, checkConfigLoads(env))
	checks = append(checks, checkOutputExcluded(env))
	checks = append(checks, checkDotfileException(env))
	return checks
}

// checkUserConfig reports whether a user-level config file is in play.
func checkUserConfig(env *doctorEnv) checkResult {
	if env.userFile == "" {
		return checkResult{
			Name:    "User Config",
			Status:  checkWarn,
			Message: "no config directory could be resolved",
			Hint:    "Set CODEXPORT_CONFIG_HOME or HOME",
		}
	}
	if !fileExists(env.userFile) {
		return checkResult{
			Name:    "User Config",
			Status:  checkPass,
			Message: "none (" + env.userFile + ")",
		}
	}
	return checkResult{
		Name:    "User Config",
		Status:  checkPass,
		Message: env.userFile,
	}
}

// checkConfigLoads checks that every config layer parses and validates.
func checkConfigLoads(env *doctorEnv) checkResult {
	if env.cfgErr != nil {
		return checkResult{
			Name:    "Config",
			Status:  checkFail,
			Message: env.cfgErr.Error(),
			Hint:    "Run 'codexport config path' to see which files are read",
		}
	}
	return checkResult{
		Name:    "Config",
		Status:  checkPass,
		Message: "loaded and valid",
	}
}

// checkOutputExcluded warns when the output file would pass the inclusion
// filter. The exporter still never reads its own output, but a document
// written elsewhere under that name would be picked up by the next run.
func checkOutputExcluded(env *doctorEnv) checkResult {
	name := filepath.Base(env.output)
	if !filter.New(env.cfg).Allowed(name) {
		return checkResult{
			Name:    "Output Excluded",
			Status:  checkPass,
			Message: name + " is filtered out",
		}
	}
	return checkResult{
		Name:    "Output Excluded",
		Status:  checkWarn,
		Message: name + " passes the filter and is not in ignored_files",
		Hint:    "Add " + name + " to ignored_files in " + config.ProjectFileName,
	}
}

// checkDotfileException warns when the dotfile exception can never match.
func checkDotfileException(env *doctorEnv) checkResult {
	exception := env.cfg.DotfileException
	switch {
	case exception == "":
		return checkResult{
			Name:    "Dotfile Exception",
			Status:  checkPass,
			Message: "none, all hidden files are skipped",
		}
	case env.cfg.IgnoresFile(exception):
		return checkResult{
			Name:    "Dotfile Exception",
			Status:  checkWarn,
			Message: exception + " is also in ignored_files and will never be exported",
			Hint:    "Remove it from one of the two lists",
		}
	default:
		return checkResult{
			Name:    "Dotfile Exception",
			Status:  checkPass,
			Message: exception,
		}
	}
}

// runFilesystemChecks performs checks against the directory and output.
func runFilesystemChecks(env *doctorEnv) []checkResult {
	checks := make([]checkResult, 0, 2)
	checks = append(checks, checkRootReadable(env))
	checks = append(checks, checkOutputWritable(env))
	return checks
}

// checkRootReadable checks that the directory can be listed.
func checkRootReadable(env *doctorEnv) checkResult {
	info, err := os.Stat(env.root)
	if err != nil {
		return checkResult{
			Name:    "Directory",
			Status:  checkFail,
			Message: "cannot access " + env.root + ": " + err.Error(),
		}
	}
	if !info.IsDir() {
		return checkResult{
			Name:    "Directory",
			Status:  checkFail,
			Message: env.root + " is not a directory",
		}
	}

	entries, err := os.ReadDir(env.root)
	if err != nil {
		return checkResult{
			Name:    "Directory",
			Status:  checkFail,
			Message: "cannot list " + env.root + ": " + err.Error(),
		}
	}
	return checkResult{
		Name:    "Directory",
		Status:  checkPass,
		Message: "readable (" + strconv.Itoa(len(entries)) + " entries at top level)",
	}
}

// checkOutputWritable checks that a file can be created next to the output.
func checkOutputWritable(env *doctorEnv) checkResult {
	if info, err := os.Stat(env.output); err == nil && info.IsDir() {
		return checkResult{
			Name:    "Output Writable",
			Status:  checkFail,
			Message: env.output + " is a directory",
			Hint:    "Pass a file path to --output",
		}
	}

	dir := filepath.Dir(env.output)
	probe, err := os.CreateTemp(dir, ".codexport-doctor-*")
	if err != nil {
		return checkResult{
			Name:    "Output Writable",
			Status:  checkFail,
			Message: "cannot write to " + dir + ": " + err.Error(),
		}
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	return checkResult{
		Name:    "Output Writable",
		Status:  checkPass,
		Message: env.output,
	}
}
