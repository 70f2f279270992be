package version

import "strings"

// Set with -ldflags "-X packgrid/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// String is the version plus whatever build metadata was stamped in.
func String() string {
	var meta []string
	if Commit != "" {
		meta = append(meta, shortCommit(Commit))
	}
	if Date != "" {
		meta = append(meta, Date)
	}
	if len(meta) == 0 {
		return Version
	}
	return Version + " (" + strings.Join(meta, ", ") + ")"
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
