// Package buildinfo holds version information stamped in at link time.
//
// Set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/bingo/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/bingo/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/bingo/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/bingo
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git revision the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// Generator identifies the program in files it writes, such as the PDF
// creator field and the run manifest.
func Generator() string {
	if Commit == "none" {
		return "bingo " + Version
	}
	return fmt.Sprintf("bingo %s (%s)", Version, Commit)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt:  %s\n", Version, Commit, Date)
}
