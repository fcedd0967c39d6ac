// Package version holds build-time version metadata injected via ldflags.
package version

// Populated at build time:
//
//	go build -ldflags "-X github.com/Sumatoshi-tech/repomate/pkg/version.Version=v1.2.3"
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)
