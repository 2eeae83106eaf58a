package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorewood/codexport/internal/filter"
)

// DateLayout is the format of the header's Date line.
const DateLayout = "2006-01-02 15:04:05"

// FormatHeader returns the document header: the title line and the
// generation timestamp, followed by a blank line.
func FormatHeader(title string, generated time.Time) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# %s\n", title)
	fmt.Fprintf(&builder, "Date: %s\n\n", generated.Format(DateLayout))
	return builder.String()
}

// FormatBlock renders one exported file: a level-2 heading with the
// relative path and a fenced code block holding the content verbatim.
func FormatBlock(relPath, tag, content string) string {
	var builder strings.Builder
	builder.Grow(len(relPath) + len(tag) + len(content) + 24)

	fmt.Fprintf(&builder, "## File: %s\n", relPath)
	fmt.Fprintf(&builder, "```%s\n", tag)
	builder.WriteString(content)
	builder.WriteString("\n```\n\n")

	return builder.String()
}

// LanguageTag returns the code fence tag for a file name. The extension is
// lowercased and stripped of its dot. JavaScript and TypeScript variants are
// normalized, files without an extension and dotfiles become "text", and
// any other extension is used as is.
func LanguageTag(name string) string {
	if filter.IsHidden(name) {
		return "text"
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch ext {
	case "":
		return "text"
	case "js", "jsx":
		return "javascript"
	case "ts", "tsx":
		return "typescript"
	default:
		return ext
	}
}
