package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/mate-desktop/mate-release/pkg/cli/config"
)

type setFlags map[string]bool

func (s setFlags) IsSet(name string) bool { return s[name] }

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mate-release.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFile_Load(t *testing.T) {
	t.Run("empty path loads nothing", func(t *testing.T) {
		var f config.File
		gt.NoError(t, f.Load())
		gt.Value(t, f.NewsFile).Equal("")
	})

	t.Run("all keys", func(t *testing.T) {
		f := config.File{Path: writeFile(t, `
news_file = "ChangeLog"
notes_file = "notes.txt"
dist_dir = "build/meson-dist"
verify_archive = false
notify_url = "http://localhost:8080/release"
backend = "api"
`)}
		gt.NoError(t, f.Load())
		gt.Value(t, f.NewsFile).Equal("ChangeLog")
		gt.Value(t, f.NotesFile).Equal("notes.txt")
		gt.Value(t, f.DistDir).Equal("build/meson-dist")
		gt.Value(t, f.NotifyURL).Equal("http://localhost:8080/release")
		gt.Value(t, f.Backend).Equal("api")
		gt.Value(t, f.VerifyArchive != nil).Equal(true)
		gt.Bool(t, *f.VerifyArchive).False()
	})

	t.Run("unknown key", func(t *testing.T) {
		f := config.File{Path: writeFile(t, `news = "NEWS"`)}
		gt.Error(t, f.Load())
	})

	t.Run("broken syntax", func(t *testing.T) {
		f := config.File{Path: writeFile(t, `news_file = `)}
		gt.Error(t, f.Load())
	})

	t.Run("missing file", func(t *testing.T) {
		f := config.File{Path: filepath.Join(t.TempDir(), "nope.toml")}
		gt.Error(t, f.Load())
	})
}

func TestFile_Apply(t *testing.T) {
	verify := false
	f := config.File{
		NewsFile:      "ChangeLog",
		DistDir:       "out",
		VerifyArchive: &verify,
		NotifyURL:     "http://localhost:8080/release",
		Backend:       "api",
	}

	t.Run("fills flags not set", func(t *testing.T) {
		release := config.Release{NewsFile: "NEWS", NotesFile: ".release.note.txt", DistDir: "_build/meson-dist", VerifyArchive: true}
		notify := config.Notify{URL: "https://release.mate-desktop.org/release"}
		gh := config.GitHub{Backend: "gh"}

		f.Apply(setFlags{}, &release, &notify, &gh)

		gt.Value(t, release.NewsFile).Equal("ChangeLog")
		gt.Value(t, release.NotesFile).Equal(".release.note.txt")
		gt.Value(t, release.DistDir).Equal("out")
		gt.Bool(t, release.VerifyArchive).False()
		gt.Value(t, notify.URL).Equal("http://localhost:8080/release")
		gt.Value(t, gh.Backend).Equal("api")
	})

	t.Run("explicit flags win", func(t *testing.T) {
		release := config.Release{NewsFile: "NEWS", DistDir: "dist", VerifyArchive: true}
		notify := config.Notify{URL: "https://example.com/release"}
		gh := config.GitHub{Backend: "gh"}

		f.Apply(setFlags{
			"news-file":      true,
			"dist-dir":       true,
			"verify-archive": true,
			"notify-url":     true,
			"backend":        true,
		}, &release, &notify, &gh)

		gt.Value(t, release.NewsFile).Equal("NEWS")
		gt.Value(t, release.DistDir).Equal("dist")
		gt.Bool(t, release.VerifyArchive).True()
		gt.Value(t, notify.URL).Equal("https://example.com/release")
		gt.Value(t, gh.Backend).Equal("gh")
	})

	t.Run("nil targets are skipped", func(t *testing.T) {
		release := config.Release{NewsFile: "NEWS"}
		f.Apply(setFlags{}, &release, nil, nil)
		gt.Value(t, release.NewsFile).Equal("ChangeLog")
	})
}
