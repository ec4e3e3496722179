package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withSettings(t *testing.T, settings map[string]string) {
	t.Helper()
	orig := readSetting
	readSetting = func(key string) (string, bool) {
		v, ok := settings[key]
		return v, ok
	}
	t.Cleanup(func() { readSetting = orig })
}

func withVars(t *testing.T, v, commit, built string) {
	t.Helper()
	ov, oc, ob := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = v, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = ov, oc, ob })
}

func TestGetFromLdflags(t *testing.T) {
	withVars(t, "v1.2.3", "0123456789abcdef", "2026-01-02T03:04:05Z")
	withSettings(t, nil)

	info := Get()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "v1.2.3 (0123456)", info.Short())
	assert.True(t, info.IsRelease())
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)
	assert.Contains(t, info.String(), "Commit: 0123456789abcdef")
}

func TestGetFromBuildSettings(t *testing.T) {
	withVars(t, "dev", "unknown", "unknown")
	withSettings(t, map[string]string{
		"main.version": "(devel)",
		"vcs.revision": "fedcba9876543210",
		"vcs.modified": "true",
	})

	info := Get()
	assert.Equal(t, "dev-fedcba9", info.Version)
	assert.Equal(t, "dev-fedcba9", info.Short())
	assert.False(t, info.IsRelease())
	assert.True(t, info.Dirty)
	assert.True(t, info.BuildTime.IsZero())
	assert.Contains(t, info.String(), "dirty")
}

func TestGetWithoutAnything(t *testing.T) {
	withVars(t, "dev", "unknown", "not a time")
	withSettings(t, nil)

	info := Get()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "unknown", info.GitCommit)
	assert.Equal(t, "dev", info.Short())
	assert.NotContains(t, info.String(), "Commit")
}
