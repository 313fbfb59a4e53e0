package types

// Version is the version of mate-release
var Version = "dev"

const (
	// DefaultNotifyURL is the endpoint of the release tracking server
	DefaultNotifyURL = "https://release.mate-desktop.org/release"

	// NotifyUserAgent identifies the client to the release tracking server.
	// The server matches on this exact value.
	NotifyUserAgent = "docker-build/0.1.2 (Travis CI)"

	HeaderNonce     = "X-Build-Nonce"
	HeaderSignature = "X-Build-Signature"

	DefaultNewsFile  = "NEWS"
	DefaultNotesFile = ".release.note.txt"
	DefaultDistDir   = "_build/meson-dist"

	// ChecksumSuffix is appended to an archive path to name its sidecar file
	ChecksumSuffix = ".sha256sum"

	// ArchiveSuffix is the extension of distribution archives
	ArchiveSuffix = ".tar.xz"
)

// Backend selects how the release is created on the hosting platform
type Backend string

const (
	BackendGH  Backend = "gh"
	BackendAPI Backend = "api"
)

// Layout is the on-disk arrangement of build output
type Layout string

const (
	// LayoutMeson is the `meson dist` output under the dist directory
	LayoutMeson Layout = "meson"
	// LayoutFlat is a tarball in the working directory (autotools `make distcheck`)
	LayoutFlat Layout = "flat"
)
