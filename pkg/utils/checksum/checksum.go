// Package checksum reads and writes sha256sum(1) compatible sidecar files.
package checksum

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/mate-desktop/mate-release/pkg/domain/types"
)

// SidecarPath returns the path of the checksum file for path
func SidecarPath(path string) string {
	return path + types.ChecksumSuffix
}

// SumFile returns the lowercase hex sha256 digest of the whole file
func SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open file", goerr.V("path", path))
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", goerr.Wrap(err, "failed to read file", goerr.V("path", path))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Line formats one sha256sum entry: "<hex>  <basename>\n"
func Line(digest, path string) string {
	return fmt.Sprintf("%s  %s\n", digest, filepath.Base(path))
}

// WriteSidecar hashes path and writes its sidecar file, replacing any existing one.
// It returns the digest.
func WriteSidecar(path string) (string, error) {
	digest, err := SumFile(path)
	if err != nil {
		return "", err
	}

	sidecar := SidecarPath(path)
	if err := os.WriteFile(sidecar, []byte(Line(digest, path)), 0644); err != nil {
		return "", goerr.Wrap(err, "failed to write checksum file", goerr.V("path", sidecar))
	}
	return digest, nil
}

// ReadSidecar parses the first entry of a sidecar file
func ReadSidecar(sidecar string) (digest, name string, err error) {
	f, err := os.Open(sidecar)
	if err != nil {
		return "", "", goerr.Wrap(err, "failed to open checksum file", goerr.V("path", sidecar))
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", "", goerr.Wrap(err, "failed to read checksum file", goerr.V("path", sidecar))
		}
		return "", "", goerr.New("empty checksum file", goerr.V("path", sidecar))
	}

	digest, name, ok := strings.Cut(scanner.Text(), "  ")
	if !ok {
		// binary mode entries use " *"
		digest, name, ok = strings.Cut(scanner.Text(), " *")
	}
	if !ok || len(digest) != sha256.Size*2 {
		return "", "", goerr.New("malformed checksum file",
			goerr.V("path", sidecar),
			goerr.V("line", scanner.Text()),
		)
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return "", "", goerr.Wrap(err, "malformed digest", goerr.V("path", sidecar))
	}

	return strings.ToLower(digest), name, nil
}

// Verify re-hashes path and compares it with the digest recorded in its sidecar
func Verify(path string) error {
	recorded, name, err := ReadSidecar(SidecarPath(path))
	if err != nil {
		return err
	}
	if name != filepath.Base(path) {
		return goerr.Wrap(types.ErrChecksumMismatch, "sidecar names another file",
			goerr.V("path", path),
			goerr.V("recorded_name", name),
		)
	}

	actual, err := SumFile(path)
	if err != nil {
		return err
	}
	if actual != recorded {
		return goerr.Wrap(types.ErrChecksumMismatch, "digest differs from sidecar",
			goerr.V("path", path),
			goerr.V("recorded", recorded),
			goerr.V("actual", actual),
		)
	}
	return nil
}
