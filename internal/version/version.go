package version

import "runtime/debug"

// Build information set at build time via ldflags:
//
//	go build -ldflags "-X github.com/alvmarrod/site-weaver/internal/version.Version=1.2.0"
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Get returns the version string.
// Priority: ldflags > debug.ReadBuildInfo > "(devel)"
func Get() string {
	if Version != "" {
		return Version
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok && buildInfo.Main.Version != "" {
		return buildInfo.Main.Version
	}
	return "(devel)"
}

// GetCommit returns the short commit hash, or "unknown"
func GetCommit() string {
	if Commit != "" {
		return Commit
	}
	if rev := buildSetting("vcs.revision"); rev != "" {
		if len(rev) > 7 {
			return rev[:7]
		}
		return rev
	}
	return "unknown"
}

// GetDate returns the build date, or "unknown"
func GetDate() string {
	if Date != "" {
		return Date
	}
	if t := buildSetting("vcs.time"); t != "" {
		return t
	}
	return "unknown"
}

func buildSetting(key string) string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}
