package github

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
	"github.com/mate-desktop/mate-release/pkg/domain/model"
)

type client struct {
	githubClient *github.Client
	owner        string
	repo         string
}

// Option configures the API client
type Option func(*github.Client) error

// WithBaseURL points the client at another API endpoint, such as GitHub
// Enterprise or a test server. Uploads go to the same host.
func WithBaseURL(base string) Option {
	return func(c *github.Client) error {
		u, err := url.Parse(base)
		if err != nil {
			return goerr.Wrap(err, "invalid base URL", goerr.V("url", base))
		}
		if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
			u.Path += "/"
		}
		c.BaseURL = u
		c.UploadURL = u
		return nil
	}
}

// NewClient creates a ReleaseHost using the GitHub REST API with token authentication
func NewClient(repository, token string, opts ...Option) (interfaces.ReleaseHost, error) {
	owner, repo, ok := model.SplitRepository(repository)
	if !ok {
		return nil, goerr.New("invalid repository", goerr.V("repository", repository))
	}
	if token == "" {
		return nil, goerr.New("GitHub token is required for the API backend")
	}

	githubClient := github.NewClient(nil)
	for _, opt := range opts {
		if err := opt(githubClient); err != nil {
			return nil, err
		}
	}
	githubClient = githubClient.WithAuthToken(token)

	return &client{
		githubClient: githubClient,
		owner:        owner,
		repo:         repo,
	}, nil
}

// LatestTag returns the tag of the most recently created release, including prereleases
func (c *client) LatestTag(ctx context.Context) (string, error) {
	releases, _, err := c.githubClient.Repositories.ListReleases(ctx, c.owner, c.repo, &github.ListOptions{PerPage: 1})
	if err != nil {
		return "", goerr.Wrap(err, "failed to list releases", goerr.V("owner", c.owner), goerr.V("repo", c.repo))
	}
	if len(releases) == 0 {
		return "", nil
	}
	return releases[0].GetTagName(), nil
}

// CreateRelease creates the release and uploads every file as an asset
func (c *client) CreateRelease(ctx context.Context, req *model.ReleaseRequest) error {
	logger := ctxlog.From(ctx)

	release, _, err := c.githubClient.Repositories.CreateRelease(ctx, c.owner, c.repo, &github.RepositoryRelease{
		TagName:    github.Ptr(req.Tag),
		Name:       github.Ptr(req.Title),
		Body:       github.Ptr(req.Notes),
		Draft:      github.Ptr(false),
		Prerelease: github.Ptr(false),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create release", goerr.V("tag", req.Tag))
	}

	logger.Info("Created release",
		"tag", req.Tag,
		"id", release.GetID(),
		"url", release.GetHTMLURL(),
	)

	for _, path := range req.Files {
		if err := c.uploadAsset(ctx, release.GetID(), path); err != nil {
			return err
		}
	}

	return nil
}

func (c *client) uploadAsset(ctx context.Context, releaseID int64, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return goerr.Wrap(err, "failed to open release asset", goerr.V("path", path))
	}
	defer f.Close()

	name := filepath.Base(path)
	asset, _, err := c.githubClient.Repositories.UploadReleaseAsset(ctx, c.owner, c.repo, releaseID, &github.UploadOptions{
		Name: name,
	}, f)
	if err != nil {
		return goerr.Wrap(err, "failed to upload release asset", goerr.V("name", name), goerr.V("release_id", releaseID))
	}

	ctxlog.From(ctx).Info("Uploaded release asset",
		"name", asset.GetName(),
		"size", asset.GetSize(),
	)
	return nil
}
