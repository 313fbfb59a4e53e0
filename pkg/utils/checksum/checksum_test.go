package checksum_test

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/mate-desktop/mate-release/pkg/domain/types"
	"github.com/mate-desktop/mate-release/pkg/utils/checksum"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSumFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hello.txt", "hello mate\n")

	digest, err := checksum.SumFile(path)
	gt.NoError(t, err)
	gt.Value(t, digest).Equal("f3a2bc71bd90c5fca94f1df0c4139ff85469b40af226621224be3d4a675f665d")
}

func TestSumFile_Missing(t *testing.T) {
	_, err := checksum.SumFile(filepath.Join(t.TempDir(), "missing"))
	gt.Error(t, err)
}

func TestWriteSidecar(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "foo-1.0.0.tar.xz", "not really an archive")

	digest, err := checksum.WriteSidecar(path)
	gt.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "foo-1.0.0.tar.xz.sha256sum"))
	gt.NoError(t, err)
	gt.Value(t, string(data)).Equal(digest + "  foo-1.0.0.tar.xz\n")
	gt.Bool(t, regexp.MustCompile(`^[0-9a-f]{64}  foo-1\.0\.0\.tar\.xz\n$`).Match(data)).True()

	t.Run("round trip", func(t *testing.T) {
		recorded, name, err := checksum.ReadSidecar(checksum.SidecarPath(path))
		gt.NoError(t, err)
		gt.Value(t, name).Equal("foo-1.0.0.tar.xz")

		actual, err := checksum.SumFile(path)
		gt.NoError(t, err)
		gt.Value(t, recorded).Equal(actual)
		gt.NoError(t, checksum.Verify(path))
	})
}

func TestVerify_Mismatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "foo-1.0.0.tar.xz", "original")
	_, err := checksum.WriteSidecar(path)
	gt.NoError(t, err)

	gt.NoError(t, os.WriteFile(path, []byte("tampered"), 0644))

	err = checksum.Verify(path)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrChecksumMismatch)).True()
}

func TestVerify_WrongName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "foo-1.0.0.tar.xz", "content")
	digest, err := checksum.SumFile(path)
	gt.NoError(t, err)
	writeFile(t, dir, "foo-1.0.0.tar.xz.sha256sum", digest+"  bar-1.0.0.tar.xz\n")

	err = checksum.Verify(path)
	gt.Bool(t, errors.Is(err, types.ErrChecksumMismatch)).True()
}

func TestReadSidecar_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "no separator", content: "abcdef\n"},
		{name: "short digest", content: "abcdef  foo.tar.xz\n"},
		{name: "not hex", content: strings.Repeat("z", 64) + "  foo\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "x.sha256sum", tt.content)
			_, _, err := checksum.ReadSidecar(path)
			gt.Error(t, err)
		})
	}
}

func TestReadSidecar_BinaryMode(t *testing.T) {
	digest := "f3a2bc71bd90c5fca94f1df0c4139ff85469b40af226621224be3d4a675f665d"
	path := writeFile(t, t.TempDir(), "x.sha256sum", digest+" *hello.txt\n")

	got, name, err := checksum.ReadSidecar(path)
	gt.NoError(t, err)
	gt.Value(t, got).Equal(digest)
	gt.Value(t, name).Equal("hello.txt")
}
