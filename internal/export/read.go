package export

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Skip reasons reported in Result.Skipped.
const (
	ReasonOpen      = "cannot open"
	ReasonNotText   = "not valid UTF-8 text"
	ReasonRead      = "read failed"
	ReasonDirectory = "unreadable directory"
)

var errInvalidName = errors.New("file name is not valid UTF-8")

// SkipError explains why a file or directory was left out of the export.
// It is recovered by the traversal, never returned from Run.
type SkipError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *SkipError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SkipError) Unwrap() error {
	return e.Err
}

// readText returns the content of path if it is valid UTF-8. Content is
// streamed through a validator so binary files fail at the first bad byte.
func readText(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", &SkipError{Reason: ReasonOpen, Err: err}
	}
	defer file.Close() //nolint:errcheck // best-effort close on read-only file

	data, err := io.ReadAll(transform.NewReader(file, encoding.UTF8Validator))
	if err != nil {
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			return "", &SkipError{Reason: ReasonNotText, Err: err}
		}
		return "", &SkipError{Reason: ReasonRead, Err: err}
	}
	return string(data), nil
}
