package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/go-autoformat"
	"github.com/alnah/go-autoformat/internal/ai"
	"github.com/alnah/go-autoformat/internal/config"
)

// exporter is the export service used by the commands.
type exporter interface {
	Export(ctx context.Context, req autoformat.ExportRequest) (*autoformat.ExportResult, error)
	Close() error
}

// Environment holds injectable dependencies for testability.
// Includes I/O, environment lookup, and the service constructors.
type Environment struct {
	Now     func() time.Time
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// NewAIClient builds the AI client for a config section.
	NewAIClient func(cfg config.AIConfig, getenv func(string) string) (ai.Client, error)
	// NewExporter builds the export service.
	NewExporter func(opts ...autoformat.ExporterOption) (exporter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Getenv:      os.Getenv,
		Environ:     os.Environ,
		NewAIClient: buildAIClient,
		NewExporter: func(opts ...autoformat.ExporterOption) (exporter, error) {
			return autoformat.NewExporter(opts...)
		},
	}
}
