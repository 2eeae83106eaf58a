package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/codexport/internal/export"
	"github.com/gorewood/codexport/internal/output"
)

// sampleTree has one exportable file, one filtered file, one pruned
// directory and one file that is not valid UTF-8.
func sampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.ts":                "const a = 1;",
		"b.png":               "not really a png",
		"node_modules/c.js":   "module.exports = {};",
		"data/bad.json":       "{\"k\": \"\xff\xfe\"}",
		".env":                "SECRET=1",
		"docs/.env.example":   "SECRET=",
		"package-lock.json":   "{}",
		"src/components/b.md": "# B",
	})
	return root
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestExportCommand_Human(t *testing.T) {
	isolateConfig(t)
	root := sampleTree(t)
	outPath := filepath.Join(root, "codebase_export.md")

	stdout, stderr, err := executeCmd(t, root)
	if err != nil {
		t.Fatalf("Execute() error = %v\nstderr: %s", err, stderr)
	}

	wantOut := []string{
		"Exporting " + root + "...",
		"Exported 3 files (",
		"Output: " + outPath,
	}
	for _, want := range wantOut {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}

	if !strings.Contains(stderr, "Warning: skipping binary or unreadable file: data/bad.json") {
		t.Errorf("stderr missing skip warning:\n%s", stderr)
	}

	doc := readDoc(t, outPath)
	for _, want := range []string{"## File: a.ts", "## File: docs/.env.example", "## File: src/components/b.md"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	for _, unwanted := range []string{"b.png", "node_modules", "bad.json", "## File: .env\n", "package-lock.json"} {
		if strings.Contains(doc, unwanted) {
			t.Errorf("document should not contain %q", unwanted)
		}
	}
}

func TestExportCommand_JSON(t *testing.T) {
	isolateConfig(t)
	root := sampleTree(t)

	stdout, stderr, err := executeCmd(t, root, "--json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if stderr != "" {
		t.Errorf("JSON mode should not write warnings to stderr: %q", stderr)
	}

	var result export.Result
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("stdout is not a JSON result: %v\n%s", err, stdout)
	}
	if result.Files != 3 {
		t.Errorf("files = %d, want 3", result.Files)
	}
	if result.OutputPath != filepath.Join(root, "codebase_export.md") {
		t.Errorf("output = %q", result.OutputPath)
	}
	if result.Bytes == 0 {
		t.Error("bytes = 0, want the exported content size")
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Path != "data/bad.json" || result.Skipped[0].Reason != export.ReasonNotText {
		t.Errorf("skipped = %+v, want data/bad.json as not text", result.Skipped)
	}
}

func TestExportCommand_Flags(t *testing.T) {
	isolateConfig(t)

	t.Run("output path", func(t *testing.T) {
		root := sampleTree(t)
		outPath := filepath.Join(t.TempDir(), "dump.md")

		if _, _, err := executeCmd(t, root, "-o", outPath); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !strings.Contains(readDoc(t, outPath), "## File: a.ts") {
			t.Error("document at --output path is missing a.ts")
		}
		if _, err := os.Stat(filepath.Join(root, "codebase_export.md")); !os.IsNotExist(err) {
			t.Error("default output should not be written when --output is set")
		}
	})

	t.Run("title", func(t *testing.T) {
		root := sampleTree(t)
		if _, _, err := executeCmd(t, root, "--title", "Service Dump"); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		doc := readDoc(t, filepath.Join(root, "codebase_export.md"))
		if !strings.HasPrefix(doc, "# Service Dump\nDate: ") {
			t.Errorf("document header = %q", strings.SplitN(doc, "\n", 2)[0])
		}
	})

	t.Run("no sort still exports everything", func(t *testing.T) {
		root := sampleTree(t)
		stdout, _, err := executeCmd(t, root, "--no-sort", "--json")
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		var result export.Result
		if err := json.Unmarshal([]byte(stdout), &result); err != nil {
			t.Fatalf("parse: %v", err)
		}
		if result.Files != 3 {
			t.Errorf("files = %d, want 3", result.Files)
		}
	})
}

func TestExportCommand_ConfigLayers(t *testing.T) {
	t.Run("project file", func(t *testing.T) {
		isolateConfig(t)
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			".codexport.yaml": "title: Project Title\nallowed_extensions: [\".go\"]\n",
			"main.go":         "package main",
			"app.ts":          "const x = 1;",
		})

		if _, _, err := executeCmd(t, root); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		doc := readDoc(t, filepath.Join(root, "codebase_export.md"))
		if !strings.HasPrefix(doc, "# Project Title\n") {
			t.Errorf("title from project file not applied: %q", doc)
		}
		if !strings.Contains(doc, "## File: main.go\n```go\n") {
			t.Errorf("main.go missing or mis-tagged:\n%s", doc)
		}
		if strings.Contains(doc, "app.ts") {
			t.Error("app.ts should be filtered by the project extension list")
		}
	})

	t.Run("environment beats project file", func(t *testing.T) {
		isolateConfig(t)
		t.Setenv("CODEXPORT_TITLE", "Env Title")
		root := t.TempDir()
		writeFiles(t, root, map[string]string{".codexport.yaml": "title: Project Title\n"})

		if _, _, err := executeCmd(t, root); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if doc := readDoc(t, filepath.Join(root, "codebase_export.md")); !strings.HasPrefix(doc, "# Env Title\n") {
			t.Errorf("header = %q", strings.SplitN(doc, "\n", 2)[0])
		}
	})

	t.Run("flag beats environment", func(t *testing.T) {
		isolateConfig(t)
		t.Setenv("CODEXPORT_TITLE", "Env Title")
		root := t.TempDir()

		if _, _, err := executeCmd(t, root, "--title", "Flag Title"); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if doc := readDoc(t, filepath.Join(root, "codebase_export.md")); !strings.HasPrefix(doc, "# Flag Title\n") {
			t.Errorf("header = %q", strings.SplitN(doc, "\n", 2)[0])
		}
	})

	t.Run("user file", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("CODEXPORT_CONFIG_HOME", home)
		writeFiles(t, home, map[string]string{"config.yaml": "output: from_user.md\n"})
		root := t.TempDir()

		if _, _, err := executeCmd(t, root); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, "from_user.md")); err != nil {
			t.Errorf("output name from the user config was not used: %v", err)
		}
	})

	t.Run("explicit config file", func(t *testing.T) {
		isolateConfig(t)
		cfgPath := filepath.Join(t.TempDir(), "ci.yaml")
		writeFiles(t, filepath.Dir(cfgPath), map[string]string{"ci.yaml": "title: CI\n"})
		root := t.TempDir()
		writeFiles(t, root, map[string]string{".codexport.yaml": "title: Ignored\n"})

		if _, _, err := executeCmd(t, root, "--config", cfgPath); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if doc := readDoc(t, filepath.Join(root, "codebase_export.md")); !strings.HasPrefix(doc, "# CI\n") {
			t.Errorf("header = %q", strings.SplitN(doc, "\n", 2)[0])
		}
	})
}

func TestExportCommand_Errors(t *testing.T) {
	isolateConfig(t)

	notDir := filepath.Join(t.TempDir(), "file.txt")
	writeFiles(t, filepath.Dir(notDir), map[string]string{"file.txt": "x"})

	badConfig := t.TempDir()
	writeFiles(t, badConfig, map[string]string{".codexport.yaml": "output: nested/out.md\n"})

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing directory",
			args:     []string{filepath.Join(t.TempDir(), "nope")},
			wantCode: output.ExitUserError,
			wantErr:  "cannot read directory",
		},
		{
			name:     "not a directory",
			args:     []string{notDir},
			wantCode: output.ExitUserError,
			wantErr:  "is not a directory",
		},
		{
			name:     "invalid config",
			args:     []string{badConfig},
			wantCode: output.ExitUserError,
			wantErr:  "cannot load config",
		},
		{
			name:     "missing explicit config",
			args:     []string{t.TempDir(), "--config", filepath.Join(t.TempDir(), "missing.yaml")},
			wantCode: output.ExitUserError,
			wantErr:  "cannot load config",
		},
		{
			name:     "output cannot be created",
			args:     []string{t.TempDir(), "-o", filepath.Join(t.TempDir(), "missing", "out.md")},
			wantCode: output.ExitSystemError,
			wantErr:  "cannot create output file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := executeCmd(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := output.GetExitCode(err); got != tt.wantCode {
				t.Errorf("exit code = %d, want %d", got, tt.wantCode)
			}
			if !strings.Contains(stderr, "Error: ") {
				t.Errorf("stderr = %q, want an Error: line", stderr)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantErr)
			}
		})
	}
}

func TestExportCommand_JSONError(t *testing.T) {
	isolateConfig(t)

	stdout, _, err := executeCmd(t, filepath.Join(t.TempDir(), "nope"), "--json")
	if err == nil {
		t.Fatal("expected an error")
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("stdout should be a JSON error: %v\n%s", err, stdout)
	}
	if _, ok := result["error"]; !ok {
		t.Errorf("JSON output should contain 'error' field: %s", stdout)
	}
	if code, _ := result["code"].(float64); int(code) != output.ExitUserError {
		t.Errorf("code = %v, want %d", result["code"], output.ExitUserError)
	}
}

func TestExportCommand_Verbose(t *testing.T) {
	isolateConfig(t)
	root := sampleTree(t)

	_, stderr, err := executeCmd(t, root, "--verbose", "--color", "never")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stderr, "codexport: pruned") {
		t.Errorf("verbose log should report pruned directories:\n%s", stderr)
	}
}

func TestExportCommand_Idempotent(t *testing.T) {
	isolateConfig(t)
	root := sampleTree(t)
	outPath := filepath.Join(root, "codebase_export.md")

	if _, _, err := executeCmd(t, root); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := readDoc(t, outPath)
	if _, _, err := executeCmd(t, root); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second := readDoc(t, outPath)

	dropDate := func(doc string) string {
		lines := strings.Split(doc, "\n")
		return strings.Join(append(lines[:1:1], lines[2:]...), "\n")
	}
	if dropDate(first) != dropDate(second) {
		t.Errorf("second run differs from the first:\n--- first\n%s\n--- second\n%s", first, second)
	}
}
