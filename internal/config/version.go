package config

import "fmt"

// Stamped at release with
// -ldflags "-X github.com/bobmcallan/stockrec-portal/internal/config.Version=...".
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// BuildInfo identifies a portal or CLI binary. The JSON shape matches the
// backend's /api/version answer so both can be shown side by side.
type BuildInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"git_commit"`
}

// Info returns the build stamped into this binary.
func Info() BuildInfo {
	return BuildInfo{Version: Version, Build: Build, Commit: GitCommit}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (build %s, commit %s)", b.Version, b.Build, b.Commit)
}

// GetVersion returns the release version, "dev" for local builds.
func GetVersion() string {
	return Version
}
