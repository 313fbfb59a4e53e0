package cmdexec_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/mate-desktop/mate-release/pkg/domain/types"
	"github.com/mate-desktop/mate-release/pkg/infra/cmdexec"
)

func TestRunner_Run(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	ctx := context.Background()

	t.Run("captures stdout", func(t *testing.T) {
		out, err := cmdexec.New().Run(ctx, "/bin/sh", "-c", "echo hello")
		gt.NoError(t, err)
		gt.Value(t, string(out)).Equal("hello\n")
	})

	t.Run("runs in directory", func(t *testing.T) {
		dir := t.TempDir()
		gt.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0644))

		out, err := cmdexec.New(cmdexec.WithDir(dir)).Run(ctx, "/bin/sh", "-c", "ls")
		gt.NoError(t, err)
		gt.String(t, string(out)).Contains("marker")
	})

	t.Run("passes extra env", func(t *testing.T) {
		out, err := cmdexec.New(cmdexec.WithEnv("MATE_RELEASE_TEST=42")).Run(ctx, "/bin/sh", "-c", "echo $MATE_RELEASE_TEST")
		gt.NoError(t, err)
		gt.Value(t, string(out)).Equal("42\n")
	})

	t.Run("non-zero exit is an error", func(t *testing.T) {
		_, err := cmdexec.New().Run(ctx, "/bin/sh", "-c", "echo oops >&2; exit 3")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, types.ErrCommandFailed)).True()
	})

	t.Run("missing binary is an error", func(t *testing.T) {
		_, err := cmdexec.New().Run(ctx, "mate-release-no-such-binary")
		gt.Bool(t, errors.Is(err, types.ErrCommandFailed)).True()
	})
}

func TestFake(t *testing.T) {
	ctx := context.Background()
	fake := cmdexec.NewFake().
		On("git log", "- generic\n").
		On("git log --pretty=- %s v1..v2", "- specific\n").
		Fail("gh release create", "HTTP 422")

	t.Run("longest prefix wins", func(t *testing.T) {
		out, err := fake.Run(ctx, "git", "log", "--pretty=- %s", "v1..v2")
		gt.NoError(t, err)
		gt.Value(t, string(out)).Equal("- specific\n")

		out, err = fake.Run(ctx, "git", "log", "--oneline")
		gt.NoError(t, err)
		gt.Value(t, string(out)).Equal("- generic\n")
	})

	t.Run("registered failure", func(t *testing.T) {
		_, err := fake.Run(ctx, "gh", "release", "create", "v2")
		gt.Bool(t, errors.Is(err, types.ErrCommandFailed)).True()
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := fake.Run(ctx, "make", "dist")
		gt.Error(t, err)
	})

	t.Run("records calls", func(t *testing.T) {
		calls := fake.Calls()
		gt.Array(t, calls).Length(5)
		gt.Value(t, calls[0].String()).Equal("git log --pretty=- %s v1..v2")
	})
}
