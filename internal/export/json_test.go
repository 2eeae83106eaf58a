package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/gorewood/codexport/internal/output"
)

func TestFormatJSON(t *testing.T) {
	tests := []struct {
		name        string
		result      *Result
		wantFiles   int
		wantSkipped int
	}{
		{
			name: "with skips",
			result: &Result{
				OutputPath: "/work/codebase_export.md",
				Files:      2,
				Bytes:      120,
				Skipped: []Skip{
					{Path: "assets/logo.png", Reason: ReasonNotText},
					{Path: "private", Reason: ReasonDirectory, Dir: true},
				},
			},
			wantFiles:   2,
			wantSkipped: 2,
		},
		{
			name:        "nil skips become an empty array",
			result:      &Result{OutputPath: "/work/codebase_export.md"},
			wantFiles:   0,
			wantSkipped: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printer := output.NewPrinter(&buf, true, false)

			if err := FormatJSON(printer, tt.result); err != nil {
				t.Fatalf("FormatJSON() error = %v", err)
			}

			var parsed struct {
				Output  string            `json:"output"`
				Files   int               `json:"files"`
				Bytes   int64             `json:"bytes"`
				Skipped []json.RawMessage `json:"skipped"`
			}
			if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
				t.Fatalf("FormatJSON() output is not valid JSON: %v\n%s", err, buf.String())
			}
			if parsed.Output != tt.result.OutputPath {
				t.Errorf("output = %q, want %q", parsed.Output, tt.result.OutputPath)
			}
			if parsed.Files != tt.wantFiles {
				t.Errorf("files = %d, want %d", parsed.Files, tt.wantFiles)
			}
			if parsed.Skipped == nil || len(parsed.Skipped) != tt.wantSkipped {
				t.Errorf("skipped = %v, want %d entries", parsed.Skipped, tt.wantSkipped)
			}
			if !bytes.Contains(buf.Bytes(), []byte(`"skipped": [`)) {
				t.Errorf("skipped should be a JSON array:\n%s", buf.String())
			}
		})
	}
}
