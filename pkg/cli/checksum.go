package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/mate-desktop/mate-release/pkg/domain/types"
	"github.com/mate-desktop/mate-release/pkg/usecase"
	"github.com/mate-desktop/mate-release/pkg/utils/checksum"
)

func cmdChecksum() *cli.Command {
	return &cli.Command{
		Name:      "checksum",
		Usage:     "Write a sha256 sidecar next to each file unless one exists",
		ArgsUsage: "FILE...",
		Action: func(ctx context.Context, c *cli.Command) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				return goerr.New("no file given")
			}

			packager := usecase.NewPackager(".", ".")
			for _, file := range files {
				sidecar, err := packager.EnsureChecksum(ctx, file)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(writerOf(c), sidecar); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func cmdVerify() *cli.Command {
	var withArchive bool

	return &cli.Command{
		Name:      "verify",
		Usage:     "Check each file against its sha256 sidecar",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "archive",
				Usage:       "Also decompress tar.xz files to check their content",
				Destination: &withArchive,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				return goerr.New("no file given")
			}

			logger := ctxlog.From(ctx)
			packager := usecase.NewPackager(".", ".")

			var failed []string
			for _, file := range files {
				if err := checksum.Verify(file); err != nil {
					logger.Error("Checksum verification failed", slog.String("file", file), slog.Any("error", err))
					failed = append(failed, file)
					continue
				}
				if withArchive && strings.HasSuffix(file, types.ArchiveSuffix) {
					if err := packager.VerifyArchive(ctx, file); err != nil {
						logger.Error("Archive verification failed", slog.String("file", file), slog.Any("error", err))
						failed = append(failed, file)
						continue
					}
				}
				if _, err := fmt.Fprintf(writerOf(c), "%s: OK\n", file); err != nil {
					return err
				}
			}

			if len(failed) > 0 {
				return goerr.Wrap(types.ErrChecksumMismatch, "verification failed", goerr.V("files", failed))
			}
			return nil
		},
	}
}

func writerOf(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
