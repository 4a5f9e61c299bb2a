package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-autoformat"
	"github.com/alnah/go-autoformat/internal/fileutil"
)

// runExportCmd formats the input and writes one export file.
func runExportCmd(args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	kind, err := autoformat.ParseExportKind(flags.kind)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	tone, err := resolveTone(flags.ai.tone, cfg)
	if err != nil {
		return err
	}

	content, err := readInput(positional, env)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg, flags.common.verbose, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	opts, err := exporterOptions(cfg, flags.page, flags.assets, flags.render, env, log)
	if err != nil {
		return err
	}
	exp, err := env.NewExporter(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = exp.Close() }()

	formatter, err := buildFormatter(cfg, flags.ai, env, log, flags.common.quiet)
	if err != nil {
		return err
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	recorder := &autoformat.NoticeRecorder{}
	ctx = autoformat.ContextWithNotifier(ctx, recorder)

	session := autoformat.NewSession(formatter, exp)
	session.SetTitle(flags.title)
	session.SetContent(content)
	if err := session.SetTone(string(tone)); err != nil {
		return err
	}

	// TXT carries the raw content, so formatting it would be wasted work.
	if !flags.noFormat && kind != autoformat.ExportTXT {
		if _, err := session.Format(ctx); err != nil {
			return err
		}
	}

	result, err := session.Export(ctx, kind, flags.name)
	if err != nil {
		return err
	}

	path, err := fileutil.WriteOutput(flags.output, result.Filename, result.Data, flags.force)
	if err != nil {
		if errors.Is(err, fileutil.ErrOutputExists) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	if !flags.common.quiet {
		printNotices(env.Stderr, recorder.Notices())
		fmt.Fprintf(env.Stdout, "Created %s\n", path)
	}
	return nil
}
