package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// File names the loader looks for.
const (
	ProjectFileName = ".codexport.yaml"
	UserFileName    = "config.yaml"
)

// Config is the fixed configuration of one export run. It is built once by
// Load and treated as read-only afterwards.
type Config struct {
	// Output is the file name of the generated document, placed at the
	// root of the scanned directory.
	Output string `mapstructure:"output" yaml:"output" json:"output"`
	// Title is the level-1 heading of the generated document.
	Title string `mapstructure:"title" yaml:"title" json:"title"`
	// Sort orders directory and file names lexically at every level.
	// When false the raw directory listing order is used.
	Sort bool `mapstructure:"sort" yaml:"sort" json:"sort"`
	// DotfileException is the only hidden file that may be exported.
	DotfileException  string   `mapstructure:"dotfile_exception" yaml:"dotfile_exception" json:"dotfile_exception"`
	IgnoredDirs       []string `mapstructure:"ignored_dirs" yaml:"ignored_dirs" json:"ignored_dirs"`
	AllowedExtensions []string `mapstructure:"allowed_extensions" yaml:"allowed_extensions" json:"allowed_extensions"`
	IgnoredFiles      []string `mapstructure:"ignored_files" yaml:"ignored_files" json:"ignored_files"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Output:           "codebase_export.md",
		Title:            "Codebase Export",
		Sort:             true,
		DotfileException: ".env.example",
		IgnoredDirs: []string{
			"node_modules", ".git", "dist", "build", "coverage", ".vscode", ".idea",
			"__pycache__", ".agent", ".github", "brain",
		},
		AllowedExtensions: []string{
			".js", ".jsx", ".ts", ".tsx", ".css", ".html", ".json", ".md", ".py", ".sql",
		},
		IgnoredFiles: []string{
			"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "codebase_export.md", "stats.html",
		},
	}
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	switch {
	case strings.TrimSpace(c.Output) == "":
		errs = append(errs, errors.New("output file name must not be empty"))
	case strings.ContainsAny(c.Output, `/\`):
		errs = append(errs, fmt.Errorf("output %q must be a file name, not a path (use --output for paths)", c.Output))
	}

	for _, ext := range c.AllowedExtensions {
		if len(ext) < 2 || ext[0] != '.' {
			errs = append(errs, fmt.Errorf("allowed extension %q must start with a dot", ext))
		}
	}

	if c.DotfileException != "" && !strings.HasPrefix(c.DotfileException, ".") {
		errs = append(errs, fmt.Errorf("dotfile exception %q must start with a dot", c.DotfileException))
	}

	return errors.Join(errs...)
}

// IgnoresFile reports whether name is in the ignored-files list.
func (c Config) IgnoresFile(name string) bool {
	return slices.Contains(c.IgnoredFiles, name)
}

// Marshal renders the configuration as YAML, in the same shape Load reads.
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
