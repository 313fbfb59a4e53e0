package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/mate-desktop/mate-release/pkg/cli/config"
	"github.com/mate-desktop/mate-release/pkg/domain/types"
)

// Option customizes the application
type Option func(*cli.Command)

// WithWriter sends command output to w instead of stdout. Logs are not affected.
func WithWriter(w io.Writer) Option {
	return func(c *cli.Command) {
		c.Writer = w
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...Option) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		logger    *slog.Logger
	)

	app := &cli.Command{
		Name:    "mate-release",
		Usage:   "Publish a tagged release and notify the release server",
		Version: types.Version,
		Flags:   append(loggerCfg.Flags(), sentryCfg.Flags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdPublish(),
			cmdNotes(),
			cmdChecksum(),
			cmdVerify(),
			cmdServe(),
		},
	}

	for _, opt := range opts {
		opt(app)
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		sentryCfg.Report(err)
		return err
	}

	return nil
}
