// Package cli implements the subcommands of the zitadel-example binary.
// Every subcommand accepts the shared connection flags (-endpoint, -token,
// -transport, ...) on top of its own.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ragnaraven/zitadel-go-dual/internal/config"
	"github.com/ragnaraven/zitadel-go-dual/internal/directory"
	"github.com/ragnaraven/zitadel-go-dual/internal/observability"
	"github.com/ragnaraven/zitadel-go-dual/internal/tracing"
	"github.com/ragnaraven/zitadel-go-dual/pkg/client"
	"github.com/ragnaraven/zitadel-go-dual/pkg/interceptor"
)

const component = "zitadel-example"

type session struct {
	cfg    *config.Config
	logger *slog.Logger
	dir    *directory.Directory
	out    io.Writer

	close func() error
}

func (s *session) Close() error { return s.close() }

// openSession parses args, asks for a token when none is configured and
// stdin is a terminal, and connects. register adds the subcommand's own
// flags and may be nil.
func openSession(ctx context.Context, name string, args []string, out io.Writer, p *prompter, register func(*flag.FlagSet)) (*session, error) {
	cfg, err := config.Load(os.Getenv(config.PathEnv))
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	cfg.RegisterFlags(fs)
	if register != nil {
		register(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	logger := observability.NewLogger(component, observability.ParseLogLevel(cfg.LogLevel))

	if cfg.Token == "" && cfg.TokenFile == "" && cfg.KeyFile == "" {
		tok, err := p.secret("ZITADEL access token")
		switch {
		case err == nil:
			cfg.Token = tok
		case !errors.Is(err, errNoTerminal):
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tcfg := tracing.GetConfig(component).ForTarget(cfg.Endpoint, cfg.Transport)
	tracer, shutdown, err := tracing.Initialize(ctx, tcfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	opts, err := cfg.ClientOptions(ctx, logger, tcfg.InstrumentTransports(), interceptor.NewLogging(logger))
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	conn, err := client.NewConn(cfg.Endpoint, opts...)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("connect to %s: %w", cfg.Endpoint, err)
	}

	return &session{
		cfg:    cfg,
		logger: logger,
		dir:    directory.New(conn, tracer),
		out:    out,
		close: func() error {
			return errors.Join(conn.Close(), shutdown(context.Background()))
		},
	}, nil
}

// run opens a session, hands it to body and closes it afterwards.
func run(ctx context.Context, name string, args []string, out io.Writer, p *prompter, register func(*flag.FlagSet), body func(context.Context, *session) error) (err error) {
	if out == nil {
		out = os.Stdout
	}
	s, err := openSession(ctx, name, args, out, p, register)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.Close()) }()
	return body(ctx, s)
}
