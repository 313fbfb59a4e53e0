package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrNoTag             = goerr.New("no release tag given")
	ErrInvalidTag        = goerr.New("release tag must be v<version>")
	ErrInvalidRepository = goerr.New("repository must be <owner>/<name>")
	ErrAlreadyReleased   = goerr.New("tag already released")
	ErrArtifactNotFound  = goerr.New("distribution archive not found")
	ErrChecksumMismatch  = goerr.New("checksum mismatch")
	ErrNotifyFailed      = goerr.New("release server notification failed")
	ErrCommandFailed     = goerr.New("external command failed")
	ErrInvalidConfig     = goerr.New("invalid configuration")
)
