package usecase

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/ctxlog"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
)

type changelog struct {
	newsPath string
	vcs      interfaces.VCS
}

// NewChangelog creates a ChangelogUseCase reading newsPath first and falling
// back to commit subjects from vcs
func NewChangelog(newsPath string, vcs interfaces.VCS) interfaces.ChangelogUseCase {
	return &changelog{
		newsPath: newsPath,
		vcs:      vcs,
	}
}

// Derive returns the change list of newVersion
func (uc *changelog) Derive(ctx context.Context, repoName, oldVersion, newVersion string) []string {
	logger := ctxlog.From(ctx)

	if lines := uc.fromNews(ctx, repoName, oldVersion, newVersion); len(lines) > 0 {
		logger.Info("Derived changelog from NEWS", "path", uc.newsPath, "lines", len(lines))
		return toValidUTF8(ctx, uc.newsPath, lines)
	}

	lines := uc.fromHistory(ctx, repoName, oldVersion, newVersion)
	if len(lines) == 0 {
		logger.Warn("No changelog content found, release notes will only contain the compare link",
			"repo", repoName,
			"version", newVersion,
		)
		return nil
	}

	logger.Info("Derived changelog from git history", "commits", len(lines)-2)
	return toValidUTF8(ctx, "git log", lines)
}

// toValidUTF8 replaces invalid byte sequences with U+FFFD so the notes file
// and the JSON payload carry the same text
func toValidUTF8(ctx context.Context, source string, lines []string) []string {
	for i, line := range lines {
		if utf8.ValidString(line) {
			continue
		}
		ctxlog.From(ctx).Warn("Changelog line is not valid UTF-8, replacing invalid bytes",
			"source", source,
			"line", i+1,
		)
		lines[i] = strings.ToValidUTF8(line, "\uFFFD")
	}
	return lines
}

func (uc *changelog) fromNews(ctx context.Context, repoName, oldVersion, newVersion string) []string {
	logger := ctxlog.From(ctx)

	f, err := os.Open(uc.newsPath)
	if err != nil {
		logger.Warn("NEWS file is not available", "path", uc.newsPath, "error", err)
		return nil
	}
	defer f.Close()

	lines, found, err := ParseNews(f, repoName, oldVersion, newVersion)
	if err != nil {
		logger.Warn("Failed to read NEWS file", "path", uc.newsPath, "error", err)
		return nil
	}
	if !found {
		logger.Warn("NEWS has no entry for this release, forgot to update it?",
			"path", uc.newsPath,
			"heading", repoName+" "+newVersion,
		)
		return nil
	}
	return lines
}

func (uc *changelog) fromHistory(ctx context.Context, repoName, oldVersion, newVersion string) []string {
	from := ""
	if oldVersion != "" {
		from = "v" + oldVersion
	}

	subjects, err := uc.vcs.CommitSubjects(ctx, from, "v"+newVersion)
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to read commit history", "error", err)
		return nil
	}
	if len(subjects) == 0 {
		return nil
	}

	lines := make([]string, 0, len(subjects)+2)
	lines = append(lines, fmt.Sprintf("### %s %s", repoName, newVersion), "")
	return append(lines, subjects...)
}

// ParseNews extracts the section of newVersion from a NEWS file. A section
// starts at a "##" heading ending with "<repoName> <newVersion>" and stops
// before the next "##" heading ending with "<repoName> <oldVersion>". Lines
// are returned trimmed and in file order. found reports whether the heading
// of newVersion exists at all.
func ParseNews(r io.Reader, repoName, oldVersion, newVersion string) (lines []string, found bool, err error) {
	newLabel := repoName + " " + newVersion
	oldLabel := repoName + " " + oldVersion

	var all []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		all = append(all, line)
		if isHeading(line) && strings.HasSuffix(line, newLabel) {
			found = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	capturing := false
	for _, line := range all {
		if isHeading(line) && strings.HasSuffix(line, newLabel) {
			capturing = true
		}
		if isHeading(line) && strings.HasSuffix(line, oldLabel) {
			capturing = false
		}
		if capturing {
			lines = append(lines, line)
		}
	}
	return lines, true, nil
}

func isHeading(line string) bool {
	return strings.HasPrefix(line, "##")
}
