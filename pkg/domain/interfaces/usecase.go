package interfaces

import (
	"context"

	"github.com/mate-desktop/mate-release/pkg/domain/model"
)

// ChangelogUseCase derives the change list of a release
type ChangelogUseCase interface {
	// Derive returns changelog lines between oldVersion and newVersion. It never fails;
	// an empty list means no source had content.
	Derive(ctx context.Context, repoName, oldVersion, newVersion string) []string
}

// PackagerUseCase locates build output and prepares checksums
type PackagerUseCase interface {
	// Locate finds the distribution archive and its upload set
	Locate(ctx context.Context, repoName, version string) (*model.Bundle, error)

	// EnsureChecksum writes the sha256 sidecar of path if it does not exist yet
	EnsureChecksum(ctx context.Context, path string) (string, error)

	// VerifyArchive checks that the archive is a complete tar.xz stream
	VerifyArchive(ctx context.Context, path string) error

	// Collect resolves the upload set and describes the files reported to the release server
	Collect(ctx context.Context, bundle *model.Bundle, repository, tag string) ([]*model.Artifact, error)
}

// PublishUseCase runs the whole release flow
type PublishUseCase interface {
	// Prepare determines versions and derives the changelog without touching the platform
	Prepare(ctx context.Context) (*model.Release, error)

	// Publish runs every step from version detection to server notification
	Publish(ctx context.Context) (*model.Release, error)
}
