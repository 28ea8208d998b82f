// Package version exposes build metadata. The variables are set at link time:
//
//	go build -ldflags "-X github.com/farcloser/lrascan/version.version=v1.2.3 -X github.com/farcloser/lrascan/version.commit=abc123"
package version

//nolint:gochecknoglobals // set through -ldflags
var (
	name    = "lrascan"
	version = "dev"
	commit  = "unknown"
)

// Name is the binary name.
func Name() string {
	return name
}

// Version is the release version, "dev" for local builds.
func Version() string {
	return version
}

// Commit is the VCS revision the binary was built from.
func Commit() string {
	return commit
}
