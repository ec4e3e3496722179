// Package version reports build metadata of the dimens binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string    `json:"version" yaml:"version"`
	GitCommit string    `json:"git_commit" yaml:"git_commit"`
	BuildTime time.Time `json:"build_time" yaml:"build_time"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
	Platform  string    `json:"platform" yaml:"platform"`
	Dirty     bool      `json:"dirty" yaml:"dirty"`
}

// These variables are set at build time using -ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	// BuildTime is RFC3339.
	BuildTime = "unknown"
)

// readSetting is swapped in tests.
var readSetting = func(key string) (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	if key == "main.version" {
		return info.Main.Version, true
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value, true
		}
	}
	return "", false
}

// Get returns the build information of the running binary.
func Get() BuildInfo {
	return BuildInfo{
		Version:   resolveVersion(),
		GitCommit: resolveCommit(),
		BuildTime: parseBuildTime(BuildTime),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Dirty:     isDirty(),
	}
}

func resolveVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if v, ok := readSetting("main.version"); ok && v != "" && v != "(devel)" {
		return v
	}
	if rev, ok := readSetting("vcs.revision"); ok && len(rev) >= 7 {
		return "dev-" + rev[:7]
	}
	return "dev"
}

func resolveCommit() string {
	if GitCommit != "" && GitCommit != "unknown" {
		return GitCommit
	}
	if rev, ok := readSetting("vcs.revision"); ok && rev != "" {
		return rev
	}
	return "unknown"
}

func isDirty() bool {
	v, ok := readSetting("vcs.modified")
	return ok && v == "true"
}

// Short returns "version (commit)" or just the version.
func (b BuildInfo) Short() string {
	if b.GitCommit == "unknown" || len(b.GitCommit) < 7 || strings.HasPrefix(b.Version, "dev-") {
		return b.Version
	}
	return fmt.Sprintf("%s (%s)", b.Version, b.GitCommit[:7])
}

// IsRelease reports whether the binary was built from a tagged version.
func (b BuildInfo) IsRelease() bool {
	return b.Version != "dev" && !strings.HasPrefix(b.Version, "dev-")
}

// String renders the detailed multi-line form.
func (b BuildInfo) String() string {
	parts := []string{"Version: " + b.Version}
	if b.GitCommit != "unknown" {
		parts = append(parts, "Commit: "+b.GitCommit)
	}
	if !b.BuildTime.IsZero() {
		parts = append(parts, "Built: "+b.BuildTime.Format(time.RFC3339))
	}
	parts = append(parts, "Go: "+b.GoVersion, "Platform: "+b.Platform)
	if b.Dirty {
		parts = append(parts, "Working directory: dirty")
	}
	return strings.Join(parts, "\n")
}

// parseBuildTime accepts RFC3339 and a few common variants, and returns
// the zero time otherwise.
func parseBuildTime(s string) time.Time {
	if s == "" || s == "unknown" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
