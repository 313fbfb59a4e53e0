package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
	"github.com/mate-desktop/mate-release/pkg/domain/types"
	"github.com/mate-desktop/mate-release/pkg/infra/gh"
	"github.com/mate-desktop/mate-release/pkg/infra/github"
)

// GitHub holds release hosting configuration
type GitHub struct {
	Backend string
	Token   string `masq:"secret"`
	APIURL  string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend",
			Usage:       "How to create the release: gh (command line tool) or api (REST API)",
			Value:       string(types.BackendGH),
			Destination: &c.Backend,
			Sources:     cli.EnvVars("MATE_RELEASE_BACKEND"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for the api backend",
			Destination: &c.Token,
			Sources:     cli.EnvVars("GITHUB_TOKEN", "GH_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub API base URL for the api backend",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("GITHUB_API_URL"),
		},
	}
}

// NewReleaseHost creates the selected release backend
func (c *GitHub) NewReleaseHost(runner interfaces.CommandRunner, repository string) (interfaces.ReleaseHost, error) {
	switch types.Backend(c.Backend) {
	case types.BackendGH:
		return gh.New(runner), nil

	case types.BackendAPI:
		var opts []github.Option
		if c.APIURL != "" {
			opts = append(opts, github.WithBaseURL(c.APIURL))
		}
		return github.NewClient(repository, c.Token, opts...)

	default:
		return nil, goerr.Wrap(types.ErrInvalidConfig, "unknown release backend", goerr.V("backend", c.Backend))
	}
}
