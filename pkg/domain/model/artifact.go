package model

import (
	"fmt"

	"github.com/mate-desktop/mate-release/pkg/domain/types"
)

// Artifact is a release file discovered on disk
type Artifact struct {
	Path   string // Path on disk
	Name   string // Base name
	Size   int64  // Size in bytes
	SHA256 string // Hex digest, empty if not computed
	URL    string // Download URL on the hosting platform
}

// DownloadURL returns where the hosting platform serves a release asset
func DownloadURL(repo, tag, name string) string {
	return fmt.Sprintf("https://github.com/%s/releases/download/%s/%s", repo, tag, name)
}

// Bundle is the result of locating the build output of a release
type Bundle struct {
	Layout   types.Layout
	Archive  string   // Path of the distribution archive
	Checksum string   // Path of the sha256 sidecar
	Dir      string   // Directory holding the files to attach to the platform release
	Pattern  string   // filepath.Match pattern applied to base names in Dir
	Uploads  []string // Files matched by Pattern, filled when artifacts are collected
}

// NotifyFiles returns the files reported to the release server
func (b *Bundle) NotifyFiles() []string {
	return []string{b.Archive, b.Checksum}
}
