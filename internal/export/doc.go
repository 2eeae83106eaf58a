// Package export writes a directory tree's text files into one Markdown document.
//
// This package is the whole of an export run: it walks the tree, prunes
// ignored directories, applies the inclusion filter, reads each candidate
// as UTF-8 text and appends it to the output document as it goes.
//
// # Running an Export
//
//	exp, err := export.New(cfg, export.Options{Root: dir, OnSkip: report})
//	result, err := exp.Run()
//
// Run creates the output file before traversal begins. Failing to create it
// is fatal and returns an output.ExitError with the system exit code. Every
// per-file problem is recovered: the file is skipped, OnSkip is called, and
// the skip is listed in Result.Skipped.
//
// # Document Format
//
//	# Codebase Export
//	Date: 2026-01-15 15:04:05
//
//	## File: src/index.ts
//	```typescript
//	const x = 1;
//	```
//
// Each block is written to disk as soon as it is rendered, so memory use is
// bounded by the largest single file and an interrupted run leaves a
// partial document behind.
//
// # Ordering
//
// Directories are visited top-down. A directory's files come before its
// subdirectories. With config.Sort (the default) names are sorted at every
// level, which makes repeated runs on an unchanged tree produce the same
// blocks in the same order.
//
// # Self-exclusion
//
// The output file is compared by absolute path with each candidate and is
// never exported into itself, even when its name passes the filter.
package export
