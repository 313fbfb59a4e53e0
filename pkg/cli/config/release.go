package config

import (
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/mate-desktop/mate-release/pkg/domain/model"
	"github.com/mate-desktop/mate-release/pkg/domain/types"
	"github.com/mate-desktop/mate-release/pkg/usecase"
)

// Release holds what identifies the release and where its files live
type Release struct {
	Tag           string
	Repository    string
	WorkDir       string
	NewsFile      string
	NotesFile     string
	DistDir       string
	VerifyArchive bool
	DryRun        bool
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Tag to release, v<version>",
			Destination: &c.Tag,
			Sources:     cli.EnvVars("GITHUB_REF_NAME"),
		},
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "Repository as <owner>/<name>",
			Destination: &c.Repository,
			Sources:     cli.EnvVars("GITHUB_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "workdir",
			Usage:       "Source tree holding NEWS and the build output",
			Value:       ".",
			Destination: &c.WorkDir,
			Sources:     cli.EnvVars("MATE_RELEASE_WORKDIR"),
		},
		&cli.StringFlag{
			Name:        "news-file",
			Usage:       "Changelog file, relative to workdir",
			Value:       types.DefaultNewsFile,
			Destination: &c.NewsFile,
			Sources:     cli.EnvVars("MATE_RELEASE_NEWS_FILE"),
		},
		&cli.StringFlag{
			Name:        "notes-file",
			Usage:       "Where release notes are written, relative to workdir",
			Value:       types.DefaultNotesFile,
			Destination: &c.NotesFile,
			Sources:     cli.EnvVars("MATE_RELEASE_NOTES_FILE"),
		},
		&cli.StringFlag{
			Name:        "dist-dir",
			Usage:       "meson dist output directory, relative to workdir",
			Value:       types.DefaultDistDir,
			Destination: &c.DistDir,
			Sources:     cli.EnvVars("MATE_RELEASE_DIST_DIR"),
		},
		&cli.BoolFlag{
			Name:        "verify-archive",
			Usage:       "Decompress the archive before uploading it",
			Value:       true,
			Destination: &c.VerifyArchive,
			Sources:     cli.EnvVars("MATE_RELEASE_VERIFY_ARCHIVE"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Prepare everything but do not create the release nor notify the server",
			Destination: &c.DryRun,
			Sources:     cli.EnvVars("MATE_RELEASE_DRY_RUN"),
		},
	}
}

// Validate checks the configuration once before any work starts
func (c *Release) Validate() error {
	if strings.TrimSpace(c.Tag) == "" {
		return goerr.Wrap(types.ErrNoTag, "set GITHUB_REF_NAME or --tag")
	}
	if !strings.HasPrefix(c.Tag, "v") {
		return goerr.Wrap(types.ErrInvalidTag, "tag must start with v", goerr.V("tag", c.Tag))
	}
	if _, err := semver.NewVersion(model.VersionFromTag(c.Tag)); err != nil {
		return goerr.Wrap(types.ErrInvalidTag, "tag is not a version",
			goerr.V("tag", c.Tag),
			goerr.V("cause", err.Error()),
		)
	}
	if _, _, ok := model.SplitRepository(c.Repository); !ok {
		return goerr.Wrap(types.ErrInvalidRepository, "set GITHUB_REPOSITORY or --repository",
			goerr.V("repository", c.Repository),
		)
	}
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	return nil
}

// NewsPath returns the changelog path resolved against the work directory
func (c *Release) NewsPath() string {
	if filepath.IsAbs(c.NewsFile) {
		return c.NewsFile
	}
	return filepath.Join(c.WorkDir, c.NewsFile)
}

// PublishConfig converts the configuration into the publisher input
func (c *Release) PublishConfig() usecase.PublishConfig {
	return usecase.PublishConfig{
		Repository:    c.Repository,
		Tag:           c.Tag,
		WorkDir:       c.WorkDir,
		NotesFile:     c.NotesFile,
		VerifyArchive: c.VerifyArchive,
		DryRun:        c.DryRun,
	}
}
