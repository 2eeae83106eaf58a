package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	"github.com/gorewood/codexport/internal/config"
	"github.com/gorewood/codexport/internal/filter"
	"github.com/gorewood/codexport/internal/logging"
	"github.com/gorewood/codexport/internal/output"
)

// Skip records one file or directory left out of the document.
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Dir    bool   `json:"dir,omitempty"`
}

// Result summarizes a finished run.
type Result struct {
	OutputPath string `json:"output"`
	Files      int    `json:"files"`
	Bytes      int64  `json:"bytes"`
	Skipped    []Skip `json:"skipped"`
}

// Options configures an Exporter beyond the static config.
type Options struct {
	// Root is the directory to export. Defaults to the working directory.
	Root string
	// OutputPath overrides <Root>/<cfg.Output>.
	OutputPath string
	// Now supplies the header timestamp. Defaults to time.Now.
	Now func() time.Time
	// Logger receives debug traces. Defaults to a discarding logger.
	Logger hclog.Logger
	// OnSkip is called for every skipped file or directory, as it happens.
	OnSkip func(Skip)
}

// Exporter runs exports of one root with one configuration.
type Exporter struct {
	cfg    config.Config
	filter *filter.Filter
	root   string
	out    string
	now    func() time.Time
	logger hclog.Logger
	onSkip func(Skip)
}

// New resolves the root and output paths to absolute form and returns an
// Exporter ready to Run.
func New(cfg config.Config, opts Options) (*Exporter, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, output.NewUserErrorWithCause("cannot resolve directory "+root, err)
	}

	out := opts.OutputPath
	if out == "" {
		out = filepath.Join(absRoot, cfg.Output)
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return nil, output.NewUserErrorWithCause("cannot resolve output path "+out, err)
	}

	exp := &Exporter{
		cfg:    cfg,
		filter: filter.New(cfg),
		root:   absRoot,
		out:    absOut,
		now:    opts.Now,
		logger: opts.Logger,
		onSkip: opts.OnSkip,
	}
	if exp.now == nil {
		exp.now = time.Now
	}
	if exp.logger == nil {
		exp.logger = logging.Discard()
	}
	if exp.onSkip == nil {
		exp.onSkip = func(Skip) {}
	}
	return exp, nil
}

// Root returns the absolute directory being exported.
func (e *Exporter) Root() string {
	return e.root
}

// OutputPath returns the absolute path of the document Run writes.
func (e *Exporter) OutputPath() string {
	return e.out
}

// Filter returns the inclusion filter built from the config.
func (e *Exporter) Filter() *filter.Filter {
	return e.filter
}

// Run writes the document. The output file is created before traversal
// starts; failing to create it is the only fatal condition besides a
// failed write. Files that cannot be read as text are skipped, reported
// through OnSkip and listed in the result.
func (e *Exporter) Run() (result *Result, err error) {
	started := e.now()

	file, err := os.OpenFile(e.out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644) //nolint:gosec // export is meant to be shared
	if err != nil {
		return nil, output.NewSystemErrorWithCause("cannot create output file "+e.out, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			result = nil
			err = output.NewSystemErrorWithCause("closing output file "+e.out, closeErr)
		}
	}()

	result = &Result{OutputPath: e.out, Skipped: []Skip{}}
	e.logger.Debug("export started", "root", e.root, "output", e.out)

	if _, err := io.WriteString(file, FormatHeader(e.cfg.Title, started)); err != nil {
		return nil, output.NewSystemErrorWithCause("writing output file "+e.out, err)
	}

	walkErr := e.walk(func(path string) error {
		return e.exportFile(file, path, result)
	}, func(dir string, dirErr error) {
		e.skip(result, Skip{Path: e.rel(dir), Reason: ReasonDirectory, Dir: true}, dirErr)
	})
	if walkErr != nil {
		return nil, walkErr
	}

	e.logger.Debug("export finished", "files", result.Files, "skipped", len(result.Skipped))
	return result, nil
}

// exportFile applies the inclusion rules to one file and appends its block.
func (e *Exporter) exportFile(w io.Writer, path string, result *Result) error {
	name := filepath.Base(path)
	if !e.filter.Allowed(name) {
		e.logger.Trace("filtered", "path", path)
		return nil
	}
	if path == e.out {
		e.logger.Debug("skipping the output file itself", "path", path)
		return nil
	}

	rel := e.rel(path)
	// The heading must stay valid UTF-8 like the content beneath it.
	if !utf8.ValidString(rel) {
		e.skip(result, Skip{Path: strings.ToValidUTF8(rel, "\uFFFD"), Reason: ReasonNotText}, errInvalidName)
		return nil
	}
	content, err := readText(path)
	if err != nil {
		reason := ReasonRead
		var skipErr *SkipError
		if errors.As(err, &skipErr) {
			reason = skipErr.Reason
		}
		e.skip(result, Skip{Path: rel, Reason: reason}, err)
		return nil
	}

	if _, err := io.WriteString(w, FormatBlock(rel, LanguageTag(name), content)); err != nil {
		return output.NewSystemErrorWithCause(fmt.Sprintf("writing %s to output file", rel), err)
	}
	result.Files++
	result.Bytes += int64(len(content))
	e.logger.Debug("exported", "path", rel, "bytes", len(content))
	return nil
}

func (e *Exporter) skip(result *Result, s Skip, cause error) {
	result.Skipped = append(result.Skipped, s)
	e.logger.Debug("skipped", "path", s.Path, "reason", s.Reason, "error", cause)
	e.onSkip(s)
}

// rel returns path relative to the root with forward slashes.
func (e *Exporter) rel(path string) string {
	rel, err := filepath.Rel(e.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
