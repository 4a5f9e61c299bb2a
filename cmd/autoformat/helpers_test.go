package main

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/alnah/go-autoformat"
	"github.com/alnah/go-autoformat/internal/ai"
	"github.com/alnah/go-autoformat/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and fakes
// ---------------------------------------------------------------------------

// fakeAI returns a fixed markup or error.
type fakeAI struct {
	markup string
	err    error
}

func (f *fakeAI) Format(_ context.Context, _ string, _ ai.Tone) (string, error) {
	return f.markup, f.err
}

// fakeExporter records requests and returns a fixed result or error.
type fakeExporter struct {
	mu     sync.Mutex
	reqs   []autoformat.ExportRequest
	err    error
	closed bool
}

func (f *fakeExporter) Export(_ context.Context, req autoformat.ExportRequest) (*autoformat.ExportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &autoformat.ExportResult{
		Filename:    "fake." + req.Kind.Extension(),
		ContentType: req.Kind.ContentType(),
		Data:        []byte(req.ContentBody),
	}, nil
}

func (f *fakeExporter) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv returns an environment reading stdin from input, with vars as
// the process environment and real exporters (TXT and MD need no browser).
func newTestEnv(input string, vars map[string]string) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	getenv := func(k string) string { return vars[k] }
	env := &Environment{
		Stdin:       strings.NewReader(input),
		Stdout:      stdout,
		Stderr:      stderr,
		Getenv:      getenv,
		NewAIClient: buildAIClient,
		NewExporter: func(opts ...autoformat.ExporterOption) (exporter, error) {
			return autoformat.NewExporter(opts...)
		},
	}
	return &testEnv{Environment: env, stdout: stdout, stderr: stderr}
}

// withAI replaces the AI client constructor with one returning client.
func (e *testEnv) withAI(client ai.Client) *testEnv {
	e.NewAIClient = func(config.AIConfig, func(string) string) (ai.Client, error) {
		return client, nil
	}
	return e
}

// withExporter replaces the exporter constructor with one returning exp.
func (e *testEnv) withExporter(exp exporter) *testEnv {
	e.NewExporter = func(...autoformat.ExporterOption) (exporter, error) {
		return exp, nil
	}
	return e
}
