package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// NotificationPayload is the JSON body posted to the release tracking server.
// Field order is part of the wire format.
type NotificationPayload struct {
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	Tag         string        `json:"tag"`
	Repo        string        `json:"repo"`
	Draft       bool          `json:"draft"`
	News        string        `json:"news"`
	Prerelease  bool          `json:"prerelease"`
	CreatedAt   string        `json:"created_at"`
	PublishedAt string        `json:"published_at"`
	Files       []PayloadFile `json:"files"`
}

// PayloadFile describes one released file
type PayloadFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// NewNotificationPayload builds the payload for a release. Draft and
// prerelease are always false.
func NewNotificationPayload(r *Release) *NotificationPayload {
	files := make([]PayloadFile, 0, len(r.Artifacts))
	for _, a := range r.Artifacts {
		files = append(files, PayloadFile{
			Name: a.Name,
			Size: a.Size,
			URL:  a.URL,
		})
	}

	return &NotificationPayload{
		Name:        r.Name,
		Version:     r.NewVersion,
		Tag:         "v" + r.NewVersion,
		Repo:        r.Repository,
		Draft:       false,
		News:        r.Notes(),
		Prerelease:  false,
		CreatedAt:   FormatTimestamp(r.CreatedAt),
		PublishedAt: FormatTimestamp(r.PublishedAt),
		Files:       files,
	}
}

// Marshal serializes the payload with two-space indentation. The returned
// bytes are exactly what gets signed and sent.
func (p *NotificationPayload) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, goerr.Wrap(err, "failed to encode notification payload")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// FormatTimestamp renders t in UTC as ISO-8601 with an explicit +00:00
// offset. Microseconds are printed only when non-zero.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/1000 == 0 {
		return t.Format("2006-01-02T15:04:05-07:00")
	}
	return t.Format("2006-01-02T15:04:05.000000-07:00")
}

// Validate checks the invariants a release server relies on
func (p *NotificationPayload) Validate() error {
	if p.Name == "" || p.Version == "" || p.Repo == "" {
		return goerr.New("name, version and repo are required",
			goerr.V("name", p.Name),
			goerr.V("version", p.Version),
			goerr.V("repo", p.Repo),
		)
	}
	if p.Tag != "v"+p.Version {
		return goerr.New("tag does not match version", goerr.V("tag", p.Tag), goerr.V("version", p.Version))
	}
	if _, name, ok := SplitRepository(p.Repo); !ok || name != p.Name {
		return goerr.New("repo does not match name", goerr.V("repo", p.Repo), goerr.V("name", p.Name))
	}
	if p.Draft || p.Prerelease {
		return goerr.New("draft and prerelease must be false")
	}
	for _, f := range p.Files {
		if f.Name == "" || f.URL == "" || f.Size < 0 {
			return goerr.New("invalid file entry", goerr.V("file", f))
		}
	}
	return nil
}

// ReceivedNotification is a notification accepted by the receiver
type ReceivedNotification struct {
	Nonce      string
	Signed     bool
	UserAgent  string
	ReceivedAt time.Time
	Payload    *NotificationPayload
}
