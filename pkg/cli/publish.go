package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/mate-desktop/mate-release/pkg/cli/config"
	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
	"github.com/mate-desktop/mate-release/pkg/infra/cmdexec"
	"github.com/mate-desktop/mate-release/pkg/infra/git"
	"github.com/mate-desktop/mate-release/pkg/usecase"
)

func cmdPublish() *cli.Command {
	var (
		fileCfg    config.File
		releaseCfg config.Release
		githubCfg  config.GitHub
		notifyCfg  config.Notify
		slackCfg   config.Slack
	)

	var flags []cli.Flag
	flags = append(flags, fileCfg.Flags()...)
	flags = append(flags, releaseCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Create the GitHub release for the tag and notify the release server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := fileCfg.Load(); err != nil {
				return err
			}
			fileCfg.Apply(c, &releaseCfg, &notifyCfg, &githubCfg)
			if err := releaseCfg.Validate(); err != nil {
				return err
			}

			logger := ctxlog.From(ctx)
			logger.Debug("Loaded configuration",
				slog.Any("release", releaseCfg),
				slog.Any("github", githubCfg),
				slog.Any("notify", notifyCfg),
				slog.Any("slack", slackCfg),
			)

			var opts []usecase.PublisherOption
			if announcer := slackCfg.Announcer(); announcer != nil {
				opts = append(opts, usecase.WithAnnouncer(announcer))
			}
			opts = append(opts, usecase.WithOutput(writerOf(c)))

			publisher, err := newPublisher(ctx, &releaseCfg, &githubCfg, notifyCfg.NewClient(ctx), opts...)
			if err != nil {
				return err
			}

			release, err := publisher.Publish(ctx)
			if err != nil {
				return err
			}

			logger.Info("Done",
				slog.String("repository", release.Repository),
				slog.String("tag", release.NewTag),
			)
			return nil
		},
	}
}

// newPublisher wires the release flow. notifier may be nil for commands
// that only prepare a release.
func newPublisher(
	ctx context.Context,
	releaseCfg *config.Release,
	githubCfg *config.GitHub,
	notifier interfaces.Notifier,
	opts ...usecase.PublisherOption,
) (interfaces.PublishUseCase, error) {
	runner := cmdexec.New(cmdexec.WithDir(releaseCfg.WorkDir))

	host, err := githubCfg.NewReleaseHost(runner, releaseCfg.Repository)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create release backend")
	}

	changelog := usecase.NewChangelog(releaseCfg.NewsPath(), git.New(runner))
	packager := usecase.NewPackager(releaseCfg.WorkDir, releaseCfg.DistDir)

	ctxlog.From(ctx).Debug("Release backend selected", slog.String("backend", githubCfg.Backend))

	return usecase.NewPublisher(releaseCfg.PublishConfig(), host, changelog, packager, notifier, opts...), nil
}
