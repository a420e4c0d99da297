// Package version reports build information for wikipub binaries
package version

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// set with -ldflags "-X wikipub/internal/core/version.version=v0.1.0 -X ...commit=abcd -X ...date=2026-10-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information
func Info() BuildInfo {
	return BuildInfo{
		Service: "wikipub",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders a one-line version banner for CLI output
func String() string {
	return "wikipub " + version + " (" + commit + ", " + date + ")"
}
