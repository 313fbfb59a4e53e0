package interfaces

import (
	"context"

	"github.com/mate-desktop/mate-release/pkg/domain/model"
)

// CommandRunner executes an external program and returns its standard output
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ReleaseHost defines operations on the release hosting platform
type ReleaseHost interface {
	// LatestTag returns the tag of the most recent release, or "" if there is none
	LatestTag(ctx context.Context) (string, error)

	// CreateRelease creates a release and attaches the given files
	CreateRelease(ctx context.Context, req *model.ReleaseRequest) error
}

// VCS reads history from version control
type VCS interface {
	// CommitSubjects returns one "- <subject>" line per commit in from..to
	CommitSubjects(ctx context.Context, from, to string) ([]string, error)
}

// Notifier delivers the release payload to the release tracking server
type Notifier interface {
	Notify(ctx context.Context, payload *model.NotificationPayload) error
}

// Announcer posts a human readable release announcement
type Announcer interface {
	Announce(ctx context.Context, release *model.Release) error
}
