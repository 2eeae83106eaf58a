package export

import (
	"io/fs"
	"os"
	"path/filepath"
)

type entryKind int

const (
	kindSpecial entryKind = iota
	kindFile
	kindDir
	kindLinkedDir
)

// walk visits the tree top-down. Each directory's files are visited before
// any of its subdirectories, and ignored subdirectories are pruned before
// descending so nothing beneath them is ever listed. Directories that
// cannot be listed go to onDirErr and the walk continues. Only an error
// from visit stops the walk.
func (e *Exporter) walk(visit func(path string) error, onDirErr func(dir string, err error)) error {
	return e.walkDir(e.root, visit, onDirErr)
}

func (e *Exporter) walkDir(dir string, visit func(path string) error, onDirErr func(dir string, err error)) error {
	entries, err := e.listDir(dir)
	if err != nil {
		onDirErr(dir, err)
		return nil
	}

	var files, dirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch classify(path, entry) {
		case kindDir:
			dirs = append(dirs, entry.Name())
		case kindFile:
			files = append(files, path)
		case kindLinkedDir:
			e.logger.Debug("not following directory symlink", "path", path)
		default:
			e.logger.Trace("ignoring special file", "path", path)
		}
	}

	kept := e.filter.Prune(dirs)
	if len(kept) != len(dirs) {
		for _, name := range dirs {
			if e.filter.SkipDir(name) {
				e.logger.Debug("pruned", "path", filepath.Join(dir, name))
			}
		}
	}

	for _, path := range files {
		if err := visit(path); err != nil {
			return err
		}
	}
	for _, name := range kept {
		if err := e.walkDir(filepath.Join(dir, name), visit, onDirErr); err != nil {
			return err
		}
	}
	return nil
}

// listDir returns the entries of dir, sorted by name when the config asks
// for it and in raw listing order otherwise.
func (e *Exporter) listDir(dir string) ([]fs.DirEntry, error) {
	if e.cfg.Sort {
		return os.ReadDir(dir)
	}

	d, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer d.Close() //nolint:errcheck // best-effort close on read-only directory
	return d.ReadDir(-1)
}

// classify resolves what an entry is. Symlinks to files count as files,
// symlinks to directories are never descended into, and dangling links
// are treated as files so reading them reports the failure.
func classify(path string, entry fs.DirEntry) entryKind {
	mode := entry.Type()
	switch {
	case mode.IsDir():
		return kindDir
	case mode.IsRegular():
		return kindFile
	case mode&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil {
			return kindFile
		}
		if info.IsDir() {
			return kindLinkedDir
		}
		if info.Mode().IsRegular() {
			return kindFile
		}
		return kindSpecial
	default:
		return kindSpecial
	}
}
