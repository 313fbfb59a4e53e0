package model

import (
	"fmt"
	"strings"
	"time"
)

// Release represents a single release being published. It only lives for one run.
type Release struct {
	Repository  string // <owner>/<name>
	Name        string // Repository name without owner
	OldTag      string // Latest tag already released, empty on first release
	NewTag      string // Tag being released
	OldVersion  string
	NewVersion  string
	Changes     []string // Changelog lines derived from NEWS or git history
	Artifacts   []*Artifact
	CreatedAt   time.Time
	PublishedAt time.Time
}

// Title returns the release title shown on the hosting platform
func (r *Release) Title() string {
	return fmt.Sprintf("%s %s release", r.Name, r.NewVersion)
}

// CompareURL returns the URL comparing the previous release with this one
func (r *Release) CompareURL() string {
	return fmt.Sprintf("https://github.com/%s/compare/%s...%s", r.Repository, r.OldTag, r.NewTag)
}

// Notes returns the full release notes: a compare link followed by the changelog lines
func (r *Release) Notes() string {
	lines := make([]string, 0, len(r.Changes)+2)
	lines = append(lines, "Changes since the last release: "+r.CompareURL(), "")
	lines = append(lines, r.Changes...)
	return strings.Join(lines, "\n")
}

// ReleaseRequest holds what a release backend needs to create a release
type ReleaseRequest struct {
	Repository string
	Tag        string
	Title      string
	NotesFile  string
	Notes      string
	Files      []string
}

// VersionFromTag strips the leading "v" of a release tag
func VersionFromTag(tag string) string {
	return strings.TrimPrefix(tag, "v")
}

// SplitRepository splits "<owner>/<name>" into its parts
func SplitRepository(repo string) (owner, name string, ok bool) {
	owner, name, ok = strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", false
	}
	return owner, name, true
}
