package git

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
)

type client struct {
	runner interfaces.CommandRunner
}

// New creates a VCS backed by the git command
func New(runner interfaces.CommandRunner) interfaces.VCS {
	return &client{runner: runner}
}

// CommitSubjects returns "- <subject>" for each commit in from..to, newest first.
// An empty from lists the whole history up to to.
func (c *client) CommitSubjects(ctx context.Context, from, to string) ([]string, error) {
	rev := to
	if from != "" {
		rev = from + ".." + to
	}

	out, err := c.runner.Run(ctx, "git", "log", "--pretty=- %s", rev)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read git log", goerr.V("range", rev))
	}

	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
