package main

import (
	"context"

	"github.com/alnah/go-autoformat/internal/server"
)

// runServeCmd runs the HTTP API until an interrupt or termination signal.
func runServeCmd(args []string, env *Environment) error {
	flags, _, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if len(flags.origins) > 0 {
		cfg.Server.AllowedOrigins = flags.origins
	}

	log, err := newLogger(cfg, flags.common.verbose, !flags.common.quiet)
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

	// /format-with-ai talks to the client directly; a formatter without one
	// leaves that route answering with a configuration error.
	aiClient, _ := env.NewAIClient(cfg.AI, env.Getenv)
	if flags.ai.noAI {
		aiClient = nil
	}

	srv := server.New(server.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	}, formatter, exp, aiClient, log)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	return srv.ListenAndServe(ctx)
}
