// Package filter decides which files and directories take part in an export.
//
// Decisions look at base names only, never at full paths or content, so a
// directory named "build" is pruned at every depth and a file is judged the
// same wherever it lives.
package filter

import (
	"path/filepath"
	"strings"

	"github.com/gorewood/codexport/internal/config"
)

// Filter holds the lookup sets derived from a config.Config. It is
// read-only after New and safe to share.
type Filter struct {
	ignoredDirs      map[string]struct{}
	allowedExts      map[string]struct{}
	ignoredFiles     map[string]struct{}
	dotfileException string
}

// New builds a Filter from cfg.
func New(cfg config.Config) *Filter {
	return &Filter{
		ignoredDirs:      toSet(cfg.IgnoredDirs),
		allowedExts:      toSet(cfg.AllowedExtensions),
		ignoredFiles:     toSet(cfg.IgnoredFiles),
		dotfileException: cfg.DotfileException,
	}
}

// Allowed reports whether the file named name should be exported.
//
// Ignored names are rejected first. Hidden files are rejected unless they
// are exactly the dotfile exception. Everything else needs an extension
// from the allowed set.
func (f *Filter) Allowed(name string) bool {
	if _, ignored := f.ignoredFiles[name]; ignored {
		return false
	}
	if IsHidden(name) {
		return f.dotfileException != "" && name == f.dotfileException
	}
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	_, ok := f.allowedExts[ext]
	return ok
}

// SkipDir reports whether a directory with this name must not be descended into.
func (f *Filter) SkipDir(name string) bool {
	_, ok := f.ignoredDirs[name]
	return ok
}

// Prune returns the subdirectory names worth descending into, preserving
// order. The input slice is not modified.
func (f *Filter) Prune(dirs []string) []string {
	kept := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if !f.SkipDir(d) {
			kept = append(kept, d)
		}
	}
	return kept
}

// PrunedPath reports whether any element of the slash- or OS-separated
// relative path rel names an ignored directory.
func (f *Filter) PrunedPath(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if f.SkipDir(part) {
			return true
		}
	}
	return false
}

// IsHidden reports whether name is a dotfile.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
