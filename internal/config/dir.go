// Package config holds the export configuration and resolves where it is loaded from.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the codexport user configuration directory.
//
// Resolution:
//   - $CODEXPORT_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/codexport if set (respects XDG on any platform)
//   - %AppData%/codexport on Windows
//   - ~/.config/codexport on macOS and Linux
func Dir() string {
	if dir := os.Getenv("CODEXPORT_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codexport")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "codexport")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "codexport")
}

// UserFile returns the path of the user-level config file, or "" when no
// config directory can be resolved.
func UserFile() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, UserFileName)
}
