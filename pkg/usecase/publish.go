package usecase

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
	"github.com/mate-desktop/mate-release/pkg/domain/model"
	"github.com/mate-desktop/mate-release/pkg/domain/types"
)

// PublishConfig is the validated input of a release run
type PublishConfig struct {
	Repository    string // <owner>/<name>
	Tag           string // v<version>
	WorkDir       string
	NotesFile     string // Resolved against WorkDir unless absolute
	VerifyArchive bool
	DryRun        bool
}

type publisher struct {
	cfg       PublishConfig
	host      interfaces.ReleaseHost
	changelog interfaces.ChangelogUseCase
	packager  interfaces.PackagerUseCase
	notifier  interfaces.Notifier
	announcer interfaces.Announcer
	clock     clockwork.Clock
	out       io.Writer
}

// PublisherOption configures optional collaborators of the publisher
type PublisherOption func(*publisher)

// WithAnnouncer posts an announcement after the server was notified
func WithAnnouncer(a interfaces.Announcer) PublisherOption {
	return func(p *publisher) {
		p.announcer = a
	}
}

// WithClock replaces the clock used for release timestamps
func WithClock(c clockwork.Clock) PublisherOption {
	return func(p *publisher) {
		p.clock = c
	}
}

// WithOutput sets where the dry-run plan is printed
func WithOutput(w io.Writer) PublisherOption {
	return func(p *publisher) {
		p.out = w
	}
}

// NewPublisher creates the release flow
func NewPublisher(
	cfg PublishConfig,
	host interfaces.ReleaseHost,
	changelog interfaces.ChangelogUseCase,
	packager interfaces.PackagerUseCase,
	notifier interfaces.Notifier,
	opts ...PublisherOption,
) interfaces.PublishUseCase {
	p := &publisher{
		cfg:       cfg,
		host:      host,
		changelog: changelog,
		packager:  packager,
		notifier:  notifier,
		clock:     clockwork.NewRealClock(),
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare determines the previous and new versions and derives the changelog
func (uc *publisher) Prepare(ctx context.Context) (*model.Release, error) {
	logger := ctxlog.From(ctx)

	_, name, ok := model.SplitRepository(uc.cfg.Repository)
	if !ok {
		return nil, goerr.Wrap(types.ErrInvalidRepository, "cannot derive project name", goerr.V("repository", uc.cfg.Repository))
	}
	if uc.cfg.Tag == "" {
		return nil, types.ErrNoTag
	}

	oldTag, err := uc.host.LatestTag(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to determine latest release")
	}
	if oldTag == uc.cfg.Tag {
		return nil, goerr.Wrap(types.ErrAlreadyReleased, "tag is already the latest release", goerr.V("tag", oldTag))
	}
	warnIfNotNewer(ctx, oldTag, uc.cfg.Tag)

	release := &model.Release{
		Repository: uc.cfg.Repository,
		Name:       name,
		OldTag:     oldTag,
		NewTag:     uc.cfg.Tag,
		OldVersion: model.VersionFromTag(oldTag),
		NewVersion: model.VersionFromTag(uc.cfg.Tag),
	}

	logger.Info("Determined versions",
		"repository", release.Repository,
		"old_tag", release.OldTag,
		"new_tag", release.NewTag,
	)

	release.Changes = uc.changelog.Derive(ctx, release.Name, release.OldVersion, release.NewVersion)
	return release, nil
}

// Publish runs the whole release. Any failing step aborts the run.
func (uc *publisher) Publish(ctx context.Context) (*model.Release, error) {
	logger := ctxlog.From(ctx)

	release, err := uc.Prepare(ctx)
	if err != nil {
		return nil, err
	}

	notesPath := uc.resolve(uc.cfg.NotesFile)
	if err := os.WriteFile(notesPath, []byte(release.Notes()), 0644); err != nil {
		return nil, goerr.Wrap(err, "failed to write release notes", goerr.V("path", notesPath))
	}

	bundle, err := uc.packager.Locate(ctx, release.Name, release.NewVersion)
	if err != nil {
		return nil, err
	}
	if _, err := uc.packager.EnsureChecksum(ctx, bundle.Archive); err != nil {
		return nil, err
	}
	if uc.cfg.VerifyArchive {
		if err := uc.packager.VerifyArchive(ctx, bundle.Archive); err != nil {
			return nil, err
		}
	}

	release.Artifacts, err = uc.packager.Collect(ctx, bundle, release.Repository, release.NewTag)
	if err != nil {
		return nil, err
	}
	release.CreatedAt = uc.clock.Now().UTC()

	req := &model.ReleaseRequest{
		Repository: release.Repository,
		Tag:        release.NewTag,
		Title:      release.Title(),
		NotesFile:  notesPath,
		Notes:      release.Notes(),
		Files:      bundle.Uploads,
	}

	if uc.cfg.DryRun {
		uc.printPlan(release, req)
		logger.Info("Dry run, skipping release creation and notification")
		return release, nil
	}

	if err := uc.host.CreateRelease(ctx, req); err != nil {
		return nil, goerr.Wrap(err, "failed to create platform release", goerr.V("tag", release.NewTag))
	}

	if err := refreshArtifacts(release.Artifacts); err != nil {
		return nil, err
	}
	release.PublishedAt = uc.clock.Now().UTC()

	if err := uc.notifier.Notify(ctx, model.NewNotificationPayload(release)); err != nil {
		return nil, goerr.Wrap(err, "we can not send post to the release server")
	}

	if uc.announcer != nil {
		if err := uc.announcer.Announce(ctx, release); err != nil {
			logger.Warn("Failed to announce release", "error", err)
		}
	}

	logger.Info("Release published",
		"tag", release.NewTag,
		"files", len(bundle.Uploads),
	)
	return release, nil
}

func (uc *publisher) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(uc.cfg.WorkDir, path)
}

func (uc *publisher) printPlan(release *model.Release, req *model.ReleaseRequest) {
	head := color.New(color.FgCyan, color.Bold)
	key := color.New(color.FgYellow)

	head.Fprintf(uc.out, "Release plan for %s\n", release.Repository)
	key.Fprint(uc.out, "  title: ")
	_, _ = io.WriteString(uc.out, req.Title+"\n")
	key.Fprint(uc.out, "  tag:   ")
	_, _ = io.WriteString(uc.out, release.OldTag+" -> "+release.NewTag+"\n")
	key.Fprint(uc.out, "  notes: ")
	_, _ = io.WriteString(uc.out, req.NotesFile+"\n")
	key.Fprintln(uc.out, "  files:")
	for _, f := range req.Files {
		_, _ = io.WriteString(uc.out, "    "+f+"\n")
	}
	head.Fprintln(uc.out, "Release notes")
	_, _ = io.WriteString(uc.out, release.Notes()+"\n")
}

// refreshArtifacts re-reads sizes so the payload matches the files on disk
// at posting time
func refreshArtifacts(artifacts []*model.Artifact) error {
	for _, a := range artifacts {
		info, err := os.Stat(a.Path)
		if err != nil {
			return goerr.Wrap(types.ErrArtifactNotFound, "release file disappeared before notification",
				goerr.V("path", a.Path),
				goerr.V("cause", err.Error()),
			)
		}
		a.Size = info.Size()
	}
	return nil
}

func warnIfNotNewer(ctx context.Context, oldTag, newTag string) {
	if oldTag == "" {
		return
	}
	oldV, err := semver.NewVersion(model.VersionFromTag(oldTag))
	if err != nil {
		return
	}
	newV, err := semver.NewVersion(model.VersionFromTag(newTag))
	if err != nil {
		return
	}
	if !newV.GreaterThan(oldV) {
		ctxlog.From(ctx).Warn("New tag is not greater than the latest release",
			"old_tag", oldTag,
			"new_tag", newTag,
		)
	}
}
