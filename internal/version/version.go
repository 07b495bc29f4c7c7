package version

import (
	"fmt"
	"runtime"
	"time"
)

// Set through -ldflags "-X github.com/MrSnakeDoc/quicklink/internal/version.Version=..."
var (
	Version   = "dev"                           // ex: v0.1.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-10-19T18:42:00Z
	GoVersion = runtime.Version()               // go version
)

// String is the one-line build summary printed by `quicklink version` and at startup.
func String() string {
	return fmt.Sprintf("QuickLink %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
