package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mate-desktop/mate-release/pkg/cli/config"
)

func cmdNotes() *cli.Command {
	var (
		fileCfg    config.File
		releaseCfg config.Release
		githubCfg  config.GitHub
	)

	var flags []cli.Flag
	flags = append(flags, fileCfg.Flags()...)
	flags = append(flags, releaseCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)

	return &cli.Command{
		Name:    "notes",
		Aliases: []string{"n"},
		Usage:   "Print the release notes for the tag without publishing",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := fileCfg.Load(); err != nil {
				return err
			}
			fileCfg.Apply(c, &releaseCfg, nil, &githubCfg)
			if err := releaseCfg.Validate(); err != nil {
				return err
			}

			publisher, err := newPublisher(ctx, &releaseCfg, &githubCfg, nil)
			if err != nil {
				return err
			}

			release, err := publisher.Prepare(ctx)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(writerOf(c), release.Notes())
			return err
		},
	}
}
