package gh

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
	"github.com/mate-desktop/mate-release/pkg/domain/model"
)

type client struct {
	runner interfaces.CommandRunner
}

// New creates a ReleaseHost driven by the gh command line tool. gh picks up
// the repository and credentials from the CI environment.
func New(runner interfaces.CommandRunner) interfaces.ReleaseHost {
	return &client{runner: runner}
}

// LatestTag returns the tag of the most recent release
func (c *client) LatestTag(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, "gh", "release", "ls", "-L", "1", "--json", "tagName", "--jq", ".[0].tagName")
	if err != nil {
		return "", goerr.Wrap(err, "failed to list releases")
	}
	return strings.TrimSpace(string(out)), nil
}

// CreateRelease runs `gh release create` with the notes file and attachments
func (c *client) CreateRelease(ctx context.Context, req *model.ReleaseRequest) error {
	args := []string{"release", "create", req.Tag, "--title", req.Title, "-F", req.NotesFile}
	args = append(args, req.Files...)

	out, err := c.runner.Run(ctx, "gh", args...)
	if err != nil {
		return goerr.Wrap(err, "failed to create release", goerr.V("tag", req.Tag))
	}

	ctxlog.From(ctx).Info("Created release",
		"tag", req.Tag,
		"url", strings.TrimSpace(string(out)),
		"file_count", len(req.Files),
	)
	return nil
}
