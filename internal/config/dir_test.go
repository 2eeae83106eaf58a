package config

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestDir_Default(t *testing.T) {
	t.Setenv("CODEXPORT_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")

	dir := Dir()
	if dir == "" {
		t.Fatal("Dir() returned empty string")
	}

	if runtime.GOOS != "windows" {
		if filepath.Base(dir) != "codexport" {
			t.Errorf("Dir() = %q, want path ending in 'codexport'", dir)
		}
	}
}

func TestDir_ExplicitOverride(t *testing.T) {
	t.Setenv("CODEXPORT_CONFIG_HOME", "/custom/path")
	if got := Dir(); got != "/custom/path" {
		t.Errorf("Dir() = %q, want %q", got, "/custom/path")
	}
}

func TestDir_XDGOverride(t *testing.T) {
	t.Setenv("CODEXPORT_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	if got := Dir(); got != filepath.Join("/xdg/config", "codexport") {
		t.Errorf("Dir() = %q, want %q", got, filepath.Join("/xdg/config", "codexport"))
	}
}

func TestUserFile(t *testing.T) {
	t.Setenv("CODEXPORT_CONFIG_HOME", "/custom/path")
	if got, want := UserFile(), filepath.Join("/custom/path", "config.yaml"); got != want {
		t.Errorf("UserFile() = %q, want %q", got, want)
	}
}
