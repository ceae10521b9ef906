package version

import (
	"fmt"

	"github.com/example/auditcheck/internal/core/checklist"
)

// These variables are set at build time via ldflags
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version string: build commit plus the item definition version.
func String() string {
	return fmt.Sprintf("auditcheck dev (commit: %s, built: %s, definitions: %s)", shortCommit(), BuildTime, checklist.Version)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
