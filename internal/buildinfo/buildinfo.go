// Package buildinfo carries the firmware build identifiers stamped by the linker.
package buildinfo

// Set at build time via -ldflags "-X fancywatch/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the compact identifier shown in the window title and boot log.
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		if len(Commit) > 7 {
			return Commit[:7]
		}
		return Commit
	default:
		return "dev"
	}
}

// Fields returns the identifiers as alternating key/value pairs for structured logs.
func Fields() []string {
	return []string{"version", Version, "commit", Commit, "date", Date}
}
