// Package version describes the running build and the database schema it
// migrates to.
package version

import (
	"fmt"

	"github.com/example/shiptrack/internal/db"
)

// Set at build time via ldflags
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info identifies a build.
type Info struct {
	Commit    string
	BuildTime string
	Schema    int // latest migration the binary applies
}

// Current returns the Info of the running binary.
func Current() Info {
	return Info{Commit: Commit, BuildTime: BuildTime, Schema: db.LatestSchemaVersion()}
}

// String formats i for --version output.
func (i Info) String() string {
	return fmt.Sprintf("shiptrack dev (commit: %s, built: %s, schema: v%d)", shortCommit(i.Commit), i.BuildTime, i.Schema)
}

// CheckSchema refuses a database migrated by a newer binary, whose
// tracking state this build may not understand.
func (i Info) CheckSchema(applied int) error {
	if applied > i.Schema {
		return fmt.Errorf("database schema v%d is newer than this build (v%d); upgrade shiptrack", applied, i.Schema)
	}
	return nil
}

// String returns the version string of the running binary.
func String() string {
	return Current().String()
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
