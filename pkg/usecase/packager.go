package usecase

import (
	"archive/tar"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ulikunitz/xz"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
	"github.com/mate-desktop/mate-release/pkg/domain/model"
	"github.com/mate-desktop/mate-release/pkg/domain/types"
	"github.com/mate-desktop/mate-release/pkg/utils/checksum"
)

type packager struct {
	workDir string
	distDir string
}

// NewPackager creates a PackagerUseCase. distDir is resolved against workDir
// unless it is absolute.
func NewPackager(workDir, distDir string) interfaces.PackagerUseCase {
	if !filepath.IsAbs(distDir) {
		distDir = filepath.Join(workDir, distDir)
	}
	return &packager{
		workDir: workDir,
		distDir: distDir,
	}
}

// ArchiveName returns the distribution archive file name of a release
func ArchiveName(repoName, version string) string {
	return repoName + "-" + version + types.ArchiveSuffix
}

// Locate selects the meson layout when the dist directory holds the archive,
// and the flat layout otherwise
func (uc *packager) Locate(ctx context.Context, repoName, version string) (*model.Bundle, error) {
	logger := ctxlog.From(ctx)
	name := ArchiveName(repoName, version)

	mesonArchive := filepath.Join(uc.distDir, name)
	if isRegularFile(mesonArchive) {
		logger.Info("Found meson dist archive", "path", mesonArchive)
		return &model.Bundle{
			Layout:   types.LayoutMeson,
			Archive:  mesonArchive,
			Checksum: checksum.SidecarPath(mesonArchive),
			Dir:      uc.distDir,
			Pattern:  "*",
		}, nil
	}

	flatArchive := filepath.Join(uc.workDir, name)
	if !isRegularFile(flatArchive) {
		return nil, goerr.Wrap(types.ErrArtifactNotFound, "no distribution archive",
			goerr.V("meson_path", mesonArchive),
			goerr.V("flat_path", flatArchive),
		)
	}

	logger.Info("Found distribution archive", "path", flatArchive)
	return &model.Bundle{
		Layout:   types.LayoutFlat,
		Archive:  flatArchive,
		Checksum: checksum.SidecarPath(flatArchive),
		Dir:      uc.workDir,
		Pattern:  repoName + "-*" + types.ArchiveSuffix + "*",
	}, nil
}

// EnsureChecksum writes the sidecar of path unless one already exists
func (uc *packager) EnsureChecksum(ctx context.Context, path string) (string, error) {
	logger := ctxlog.From(ctx)
	sidecar := checksum.SidecarPath(path)

	if _, err := os.Stat(sidecar); err == nil {
		logger.Info("Checksum file already exists", "path", sidecar)
		return sidecar, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", goerr.Wrap(err, "failed to check checksum file", goerr.V("path", sidecar))
	}

	digest, err := checksum.WriteSidecar(path)
	if err != nil {
		return "", err
	}

	logger.Info("Wrote checksum file", "path", sidecar, "sha256", digest)
	return sidecar, nil
}

// VerifyArchive decompresses the whole archive and walks its tar entries
func (uc *packager) VerifyArchive(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return goerr.Wrap(err, "failed to open archive", goerr.V("path", path))
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return goerr.Wrap(err, "archive is not xz compressed", goerr.V("path", path))
	}

	tr := tar.NewReader(xr)
	entries := 0
	for {
		_, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "broken tar stream", goerr.V("path", path), goerr.V("entries", entries))
		}
		if _, err := io.Copy(io.Discard, tr); err != nil {
			return goerr.Wrap(err, "broken archive entry", goerr.V("path", path), goerr.V("entries", entries))
		}
		entries++
	}

	if entries == 0 {
		return goerr.New("archive is empty", goerr.V("path", path))
	}

	ctxlog.From(ctx).Info("Verified archive", "path", path, "entries", entries)
	return nil
}

// Collect fills bundle.Uploads and returns the archive and its sidecar as
// artifacts. Both must be part of the upload set.
func (uc *packager) Collect(ctx context.Context, bundle *model.Bundle, repository, tag string) ([]*model.Artifact, error) {
	uploads, err := matchFiles(bundle.Dir, bundle.Pattern)
	if err != nil {
		return nil, err
	}
	bundle.Uploads = uploads

	var artifacts []*model.Artifact
	for _, path := range bundle.NotifyFiles() {
		if !slices.Contains(uploads, path) {
			return nil, goerr.Wrap(types.ErrArtifactNotFound, "release file is not in the upload set",
				goerr.V("path", path),
				goerr.V("dir", bundle.Dir),
				goerr.V("pattern", bundle.Pattern),
			)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to stat release file", goerr.V("path", path))
		}

		name := filepath.Base(path)
		artifacts = append(artifacts, &model.Artifact{
			Path: path,
			Name: name,
			Size: info.Size(),
			URL:  model.DownloadURL(repository, tag, name),
		})
	}

	digest, _, err := checksum.ReadSidecar(bundle.Checksum)
	if err != nil {
		return nil, err
	}
	artifacts[0].SHA256 = digest

	ctxlog.From(ctx).Debug("Collected release files", "uploads", uploads)
	return artifacts, nil
}

// matchFiles returns the regular files of dir whose base name matches
// pattern, sorted. dir itself is never interpreted as a pattern.
func matchFiles(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list release files", goerr.V("dir", dir))
	}

	var files []string
	for _, entry := range entries {
		ok, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, goerr.Wrap(err, "invalid upload pattern", goerr.V("pattern", pattern))
		}
		path := filepath.Join(dir, entry.Name())
		if ok && isRegularFile(path) {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
