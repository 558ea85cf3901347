// Package version reports which dockside build is running.
//
// Release builds stamp the values with the linker:
//
//	go build -ldflags "-X dockside/internal/version.Commit=$(git rev-parse HEAD) \
//	  -X dockside/internal/version.BuildDate=$(date -u +%Y-%m-%d)" ./cmd/dockside
package version

const unset = "unknown"

var (
	Version   = "0.3.0"
	Commit    = unset
	BuildDate = unset
)

// shortCommitLen is how much of the commit hash Info shows.
const shortCommitLen = 7

// Info is the one-line form used in log lines, e.g. "0.3.0 (1a2b3c4)".
// The commit is left out until it is longer than its abbreviation.
func Info() string {
	if Commit == unset || len(Commit) <= shortCommitLen {
		return Version
	}
	return Version + " (" + Commit[:shortCommitLen] + ")"
}

// Full is what --version prints.
func Full() string {
	return "dockside version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
