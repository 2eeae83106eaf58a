package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. CODEXPORT_OUTPUT.
const EnvPrefix = "CODEXPORT"

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// Root is the directory being exported. A .codexport.yaml there is
	// picked up automatically.
	Root string
	// File is an explicit config file. It must exist and replaces the
	// project file lookup.
	File string
	// UserFile is the user-level config file. Empty disables it.
	UserFile string
	// Overrides holds flag values the user set explicitly, keyed by the
	// YAML key name. They win over every other layer.
	Overrides map[string]any
}

// Load builds the effective configuration. Layers, lowest first: built-in
// defaults, the user file, the project (or explicit) file, CODEXPORT_*
// environment variables, then Overrides.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	if opts.UserFile != "" {
		if err := mergeFile(v, opts.UserFile, false); err != nil {
			return Config{}, err
		}
	}

	if opts.File != "" {
		if err := mergeFile(v, opts.File, true); err != nil {
			return Config{}, err
		}
	} else if opts.Root != "" {
		if err := mergeFile(v, filepath.Join(opts.Root, ProjectFileName), false); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, val := range opts.Overrides {
		v.Set(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides resolve during Unmarshal.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("output", cfg.Output)
	v.SetDefault("title", cfg.Title)
	v.SetDefault("sort", cfg.Sort)
	v.SetDefault("dotfile_exception", cfg.DotfileException)
	v.SetDefault("ignored_dirs", cfg.IgnoredDirs)
	v.SetDefault("allowed_extensions", cfg.AllowedExtensions)
	v.SetDefault("ignored_files", cfg.IgnoredFiles)
}

// mergeFile merges a YAML file into v. Missing files are an error only
// when required.
func mergeFile(v *viper.Viper, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}
