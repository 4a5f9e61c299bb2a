package main

// Notes:
// - runMain is tested end to end with an injected Environment. TXT and MD
//   exports use the real Exporter since they never start a browser; PDF and
//   JPEG paths use fakeExporter.
// - serve is only tested for flag and config failures; the listening server
//   is covered by internal/server tests.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-autoformat"
	"github.com/alnah/go-autoformat/internal/ai"
)

// ---------------------------------------------------------------------------
// TestRunMain_Dispatch - Command routing and exit codes
// ---------------------------------------------------------------------------

func TestRunMain_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"autoformat"}, ExitUsage, "", "Usage: autoformat"},
		{"unknown command", []string{"autoformat", "bogus"}, ExitUsage, "", "unknown command: bogus"},
		{"version", []string{"autoformat", "version"}, ExitSuccess, "autoformat " + Version, ""},
		{"help", []string{"autoformat", "help"}, ExitSuccess, "Commands:", ""},
		{"help format", []string{"autoformat", "help", "format"}, ExitSuccess, "Usage: autoformat format", ""},
		{"help export", []string{"autoformat", "help", "export"}, ExitSuccess, "--kind", ""},
		{"help serve", []string{"autoformat", "help", "serve"}, ExitSuccess, "/format-with-ai", ""},
		{"help unknown", []string{"autoformat", "help", "nope"}, ExitSuccess, "", "Unknown command: nope"},
		{"format --help", []string{"autoformat", "format", "--help"}, ExitSuccess, "", "Usage: autoformat format"},
		{"bad flag", []string{"autoformat", "format", "--bogus"}, ExitUsage, "", "invalid flags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("", nil)
			code := runMain(tt.args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout missing %q:\n%s", tt.wantStdout, env.stdout.String())
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, env.stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunFormat - format command
// ---------------------------------------------------------------------------

func TestRunFormat_RuleBased(t *testing.T) {
	t.Parallel()

	env := newTestEnv("INTRODUCTION\n\n- first item", nil)
	code := runMain([]string{"autoformat", "format", "--no-ai"}, env.Environment)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
	}
	for _, want := range []string{">Introduction</h2>", ">first item.</li>"} {
		if !strings.Contains(env.stdout.String(), want) {
			t.Errorf("stdout missing %q:\n%s", want, env.stdout.String())
		}
	}
	if !strings.Contains(env.stderr.String(), "Content formatted!") {
		t.Errorf("stderr missing notice:\n%s", env.stderr.String())
	}
}

func TestRunFormat_Quiet(t *testing.T) {
	t.Parallel()

	env := newTestEnv("hello", nil)
	code := runMain([]string{"autoformat", "format", "--no-ai", "-q"}, env.Environment)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if env.stderr.Len() != 0 {
		t.Errorf("quiet run wrote to stderr: %s", env.stderr.String())
	}
}

func TestRunFormat_MissingKeyFallsBack(t *testing.T) {
	t.Parallel()

	env := newTestEnv("hello, world", nil)
	code := runMain([]string{"autoformat", "format"}, env.Environment)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
	}
	stderr := env.stderr.String()
	if !strings.Contains(stderr, ai.DefaultAPIKeyEnv) {
		t.Errorf("stderr should name %s:\n%s", ai.DefaultAPIKeyEnv, stderr)
	}
	if !strings.Contains(stderr, "--no-ai") {
		t.Errorf("stderr should carry the hint:\n%s", stderr)
	}
	if !strings.Contains(env.stdout.String(), "Hello, world.</p>") {
		t.Errorf("stdout = %q, want rule-based markup", env.stdout.String())
	}
}

func TestRunFormat_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		client       *fakeAI
		wantSource   autoformat.Source
		wantFallback bool
	}{
		{
			name:       "ai success",
			client:     &fakeAI{markup: "<p>Hello.</p>"},
			wantSource: autoformat.SourceAI,
		},
		{
			name:         "ai failure falls back",
			client:       &fakeAI{err: fmt.Errorf("%w: status 500", ai.ErrUpstream)},
			wantSource:   autoformat.SourceRuleBased,
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("hello", nil).withAI(tt.client)
			code := runMain([]string{"autoformat", "format", "--json", "--tone", "casual"}, env.Environment)
			if code != ExitSuccess {
				t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
			}

			var out formatOutput
			if err := json.Unmarshal(env.stdout.Bytes(), &out); err != nil {
				t.Fatalf("invalid JSON: %v\n%s", err, env.stdout.String())
			}
			if out.Source != tt.wantSource {
				t.Errorf("source = %q, want %q", out.Source, tt.wantSource)
			}
			if (out.FallbackReason != "") != tt.wantFallback {
				t.Errorf("fallbackReason = %q, want set=%v", out.FallbackReason, tt.wantFallback)
			}
			if len(out.Notices) != 1 {
				t.Errorf("got %d notices, want 1", len(out.Notices))
			}
		})
	}
}

func TestRunFormat_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		args     []string
		wantCode int
	}{
		{"empty content", "   \n", []string{"--no-ai"}, ExitUsage},
		{"invalid tone", "hello", []string{"--no-ai", "--tone", "angry"}, ExitUsage},
		{"invalid ai timeout", "hello", []string{"--no-ai", "--ai-timeout", "soon"}, ExitUsage},
		{"missing file", "", []string{"--no-ai", "does-not-exist.txt"}, ExitIO},
		{"two inputs", "", []string{"--no-ai", "a.txt", "b.txt"}, ExitUsage},
		{"missing config", "hello", []string{"--config", "./missing/autoformat.yaml"}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(tt.input, nil)
			code := runMain(append([]string{"autoformat", "format"}, tt.args...), env.Environment)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr.String())
			}
			if !strings.Contains(env.stderr.String(), "error:") {
				t.Errorf("stderr missing error line:\n%s", env.stderr.String())
			}
		})
	}
}

func TestRunFormat_FileAndConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(input, []byte("SUMMARY\n\nall good"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "autoformat.yaml")
	cfgYAML := "ai:\n  provider: none\nformat:\n  tone: story\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	env := newTestEnv("", nil)
	code := runMain([]string{"autoformat", "format", "--config", cfgPath, input}, env.Environment)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), ">Summary</h2>") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
	if strings.Contains(env.stderr.String(), "warning:") {
		t.Errorf("provider none should not warn:\n%s", env.stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunExport - export command
// ---------------------------------------------------------------------------

func TestRunExport_TXT(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env := newTestEnv("hello world", nil)
	code := runMain([]string{"autoformat", "export", "-k", "txt", "--title", "Notes", "-o", dir, "--no-ai"}, env.Environment)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "Notes.txt"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "Notes\n\nhello world" {
		t.Errorf("file = %q", data)
	}
	if !strings.Contains(env.stdout.String(), "Created ") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
	if !strings.Contains(env.stderr.String(), "TXT downloaded!") {
		t.Errorf("stderr missing export notice:\n%s", env.stderr.String())
	}
}

func TestRunExport_ExistingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	args := []string{"autoformat", "export", "-k", "txt", "-n", "report", "-o", dir, "--no-ai"}

	if code := runMain(args, newTestEnv("first", nil).Environment); code != ExitSuccess {
		t.Fatalf("first export exit code = %d", code)
	}

	env := newTestEnv("second", nil)
	if code := runMain(args, env.Environment); code != ExitIO {
		t.Errorf("second export exit code = %d, want %d", code, ExitIO)
	}
	if !strings.Contains(env.stderr.String(), "--force") {
		t.Errorf("stderr missing hint:\n%s", env.stderr.String())
	}

	forced := append(append([]string{}, args...), "--force")
	if code := runMain(forced, newTestEnv("second", nil).Environment); code != ExitSuccess {
		t.Fatalf("forced export exit code = %d", code)
	}
	data, err := os.ReadFile(filepath.Join(dir, "report.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "second") {
		t.Errorf("file = %q, want overwritten content", data)
	}
}

func TestRunExport_MarkdownFormatsFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env := newTestEnv("INTRODUCTION\n\n- first item", nil)
	code := runMain([]string{"autoformat", "export", "--kind", "md", "--title", "Plan", "-o", dir, "--no-ai"}, env.Environment)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "Plan.md"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Plan", "Introduction", "first item."} {
		if !strings.Contains(string(data), want) {
			t.Errorf("markdown missing %q:\n%s", want, data)
		}
	}
}

func TestRunExport_BodySelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantBody string
	}{
		{"formatted markup", []string{"-k", "pdf", "--no-ai"}, ">Hello, there.</p>"},
		{"raw content escaped", []string{"-k", "pdf", "--no-format"}, "<p>a &lt; b</p>"},
		{"ai markup", []string{"-k", "jpeg"}, "<p>From AI.</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := "hello, there"
			if tt.name == "raw content escaped" {
				input = "a < b"
			}
			exp := &fakeExporter{}
			env := newTestEnv(input, nil).withAI(&fakeAI{markup: "<p>From AI.</p>"}).withExporter(exp)
			args := append([]string{"autoformat", "export", "-o", t.TempDir()}, tt.args...)

			if code := runMain(args, env.Environment); code != ExitSuccess {
				t.Fatalf("exit code = %d, stderr: %s", code, env.stderr.String())
			}
			if len(exp.reqs) != 1 {
				t.Fatalf("got %d export requests, want 1", len(exp.reqs))
			}
			if !strings.Contains(exp.reqs[0].ContentBody, tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", exp.reqs[0].ContentBody, tt.wantBody)
			}
			if !exp.closed {
				t.Error("exporter was not closed")
			}
		})
	}
}

func TestRunExport_Errors(t *testing.T) {
	t.Parallel()

	browserErr := fmt.Errorf("%w: %w", autoformat.ErrExport, autoformat.ErrBrowserConnect)

	tests := []struct {
		name     string
		input    string
		args     []string
		exp      *fakeExporter
		wantCode int
	}{
		{"browser failure", "hello", []string{"-k", "pdf", "--no-ai"}, &fakeExporter{err: browserErr}, ExitBrowser},
		{"invalid kind", "hello", []string{"-k", "docx"}, nil, ExitUsage},
		{"invalid timeout", "hello", []string{"-k", "txt", "--timeout=0s"}, nil, ExitUsage},
		{"invalid page size", "hello", []string{"-k", "txt", "-p", "tabloid"}, nil, ExitUsage},
		{"invalid margin", "hello", []string{"-k", "txt", "--margin", "9"}, nil, ExitUsage},
		{"unknown style", "hello", []string{"-k", "txt", "--style", "neon"}, nil, ExitUsage},
		{"empty content", "  ", []string{"-k", "txt", "--no-ai"}, nil, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(tt.input, nil)
			if tt.exp != nil {
				env.withExporter(tt.exp)
			}
			args := append([]string{"autoformat", "export", "-o", t.TempDir()}, tt.args...)

			if code := runMain(args, env.Environment); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunServe - serve command setup failures
// ---------------------------------------------------------------------------

func TestRunServe_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"bad flag", []string{"--bogus"}, ExitUsage},
		{"missing config", []string{"-c", "./nowhere/autoformat.yaml"}, ExitUsage},
		{"invalid timeout", []string{"--timeout", "later"}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("", nil)
			args := append([]string{"autoformat", "serve"}, tt.args...)
			if code := runMain(args, env.Environment); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr.String())
			}
		})
	}
}
