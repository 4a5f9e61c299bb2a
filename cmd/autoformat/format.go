package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alnah/go-autoformat"
)

// formatOutput is the --json shape of a format run.
type formatOutput struct {
	Markup         string              `json:"markup"`
	Source         autoformat.Source   `json:"source"`
	Notices        []autoformat.Notice `json:"notices"`
	FallbackReason string              `json:"fallbackReason,omitempty"`
}

// runFormatCmd formats the input and prints the markup.
func runFormatCmd(args []string, env *Environment) error {
	flags, positional, err := parseFormatFlags(args, env.Stderr)
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

	formatter, err := buildFormatter(cfg, flags.ai, env, log, flags.common.quiet)
	if err != nil {
		return err
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	recorder := &autoformat.NoticeRecorder{}
	result, err := formatter.Format(autoformat.ContextWithNotifier(ctx, recorder), content, tone)
	if err != nil {
		return err
	}

	if flags.json {
		out := formatOutput{
			Markup:  result.Markup,
			Source:  result.Source,
			Notices: recorder.Notices(),
		}
		if result.FallbackErr != nil {
			out.FallbackReason = result.FallbackErr.Error()
		}
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(env.Stdout, result.Markup)
	if !flags.common.quiet {
		printNotices(env.Stderr, recorder.Notices())
	}
	return nil
}

// printNotices writes one line per notice.
func printNotices(w io.Writer, notices []autoformat.Notice) {
	for _, n := range notices {
		fmt.Fprintf(w, "%s: %s %s\n", n.Level, n.Title, n.Description)
	}
}
