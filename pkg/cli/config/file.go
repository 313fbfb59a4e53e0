package config

import (
	"bytes"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File is an optional per-project TOML file. Its values apply only to flags
// not given on the command line or through the environment.
type File struct {
	Path string `toml:"-"`

	NewsFile      string `toml:"news_file"`
	NotesFile     string `toml:"notes_file"`
	DistDir       string `toml:"dist_dir"`
	VerifyArchive *bool  `toml:"verify_archive"`
	NotifyURL     string `toml:"notify_url"`
	Backend       string `toml:"backend"`
}

// Flags returns CLI flags for the project file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Project configuration file (TOML)",
			Destination: &c.Path,
			Sources:     cli.EnvVars("MATE_RELEASE_CONFIG"),
		},
	}
}

// Load reads the file at c.Path. An empty path loads nothing.
func (c *File) Load() error {
	if c.Path == "" {
		return nil
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", c.Path))
	}

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(c); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.Path))
	}
	return nil
}

// IsSetter reports whether a flag was given explicitly
type IsSetter interface {
	IsSet(name string) bool
}

// Apply copies file values into the configs for every flag the user did not set
func (c *File) Apply(cmd IsSetter, release *Release, notify *Notify, gh *GitHub) {
	setString := func(flag, value string, dst *string) {
		if value != "" && !cmd.IsSet(flag) {
			*dst = value
		}
	}

	if release != nil {
		setString("news-file", c.NewsFile, &release.NewsFile)
		setString("notes-file", c.NotesFile, &release.NotesFile)
		setString("dist-dir", c.DistDir, &release.DistDir)
		if c.VerifyArchive != nil && !cmd.IsSet("verify-archive") {
			release.VerifyArchive = *c.VerifyArchive
		}
	}
	if notify != nil {
		setString("notify-url", c.NotifyURL, &notify.URL)
	}
	if gh != nil {
		setString("backend", c.Backend, &gh.Backend)
	}
}
