package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/dimens/internal/config"
	"github.com/conneroisu/dimens/internal/engine"
	"github.com/conneroisu/dimens/internal/errors"
	"github.com/conneroisu/dimens/internal/logging"
	"github.com/conneroisu/dimens/internal/screen"
)

const profilesV1 = `
profiles:
  - name: title
    strategy: percentage
`

const profilesV2 = `
profiles:
  - name: title
    strategy: none
  - name: body
    element: text
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(99), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestFileWatcherAddPath(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NoError(t, watcher.AddPath(t.TempDir()))

	err = watcher.AddPath("/non/existent/path")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeWatchFailed))

	assert.Error(t, watcher.AddPath("  "))
}

func TestFileWatcherStartStop(t *testing.T) {
	watcher, err := NewFileWatcher(50*time.Millisecond, logging.NewNop())
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, watcher.AddPath(dir))
	watcher.AddFilter(FileFilterFor(filepath.Join(dir, "profiles.yml")))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []string
	watcher.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		for _, ev := range events {
			seen = append(seen, filepath.Base(ev.Path))
		}
		return nil
	})

	require.NoError(t, watcher.Start(ctx))
	time.Sleep(100 * time.Millisecond)

	writeFile(t, filepath.Join(dir, "ignored.txt"), "x")
	writeFile(t, filepath.Join(dir, "profiles.yml"), profilesV1)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	assert.NotContains(t, seen, "ignored.txt")
	assert.Contains(t, seen, "profiles.yml")
	mu.Unlock()

	cancel()
	assert.NoError(t, watcher.Stop())
}

func TestFilters(t *testing.T) {
	assert.False(t, NoBackupFilter("profiles.yml~"))
	assert.False(t, NoBackupFilter(".profiles.yml.swp"))
	assert.False(t, NoBackupFilter("dir/.#profiles.yml"))
	assert.True(t, NoBackupFilter("profiles.yml"))

	only := FileFilterFor("conf/./profiles.yml")
	assert.True(t, only("conf/profiles.yml"))
	assert.False(t, only("conf/other.yml"))
}

func TestDebouncerKeepsLastEventPerPath(t *testing.T) {
	debouncer := &Debouncer{
		delay:  50 * time.Millisecond,
		events: make(chan ChangeEvent, 100),
		output: make(chan []ChangeEvent, 10),
	}

	debouncer.addEvent(ChangeEvent{Path: "a.yml", Type: EventTypeCreated})
	debouncer.addEvent(ChangeEvent{Path: "b.yml", Type: EventTypeModified})
	debouncer.addEvent(ChangeEvent{Path: "a.yml", Type: EventTypeModified})

	select {
	case events := <-debouncer.output:
		require.Len(t, events, 2)
		assert.Equal(t, "a.yml", events[0].Path)
		assert.Equal(t, EventTypeModified, events[0].Type)
		assert.Equal(t, "b.yml", events[1].Path)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not flush")
	}
}

func TestProfileReloader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yml")
	writeFile(t, path, profilesV1)

	e := engine.MustNew(engine.DefaultSettings())
	r, err := NewProfileReloader(path, e, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, r.Profiles().Names())

	title, err := r.Profiles().Get("title")
	require.NoError(t, err)
	cfg := screen.New(600, 1000, 1, screen.UIModeNormal)
	assert.InDelta(t, 32.0, e.Calculate(16, title, cfg), 1e-4)
	require.Equal(t, 1, e.Stats().Entries)

	var reloaded *config.ProfileSet
	calls := 0
	r.OnReload(func(s *config.ProfileSet) { reloaded = s })
	r.OnReload(func(*config.ProfileSet) { calls++ })

	writeFile(t, path, profilesV2)
	require.NoError(t, r.Handle([]ChangeEvent{{Type: EventTypeModified, Path: path}}))
	assert.Equal(t, []string{"title", "body"}, r.Profiles().Names())
	assert.Same(t, r.Profiles(), reloaded)
	assert.Equal(t, 1, calls)
	assert.Zero(t, e.Stats().Entries, "reload clears the cache")

	title, err = r.Profiles().Get("title")
	require.NoError(t, err)
	assert.Equal(t, float32(16), e.Calculate(16, title, cfg))
}

func TestProfileReloaderKeepsPreviousSetOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yml")
	writeFile(t, path, profilesV1)

	r, err := NewProfileReloader(path, nil, nil)
	require.NoError(t, err)
	before := r.Profiles()

	writeFile(t, path, "profiles:\n  - name: x\n    strategy: nope\n")
	err = r.Handle([]ChangeEvent{{Type: EventTypeModified, Path: path}})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownName))
	assert.Same(t, before, r.Profiles())

	assert.NoError(t, r.Handle([]ChangeEvent{{Type: EventTypeDeleted, Path: path}}))
	assert.NoError(t, r.Handle([]ChangeEvent{{Type: EventTypeModified, Path: filepath.Join(dir, "other.yml")}}))
}

func TestNewProfileReloaderMissingFile(t *testing.T) {
	_, err := NewProfileReloader(filepath.Join(t.TempDir(), "absent.yml"), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yml")
	writeFile(t, path, profilesV1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := engine.MustNew(engine.DefaultSettings())
	r, err := Watch(ctx, path, e, logging.NewNop(), 30*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Profiles().Len())

	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, profilesV2)

	assert.Eventually(t, func() bool {
		return r.Profiles().Len() == 2
	}, 3*time.Second, 20*time.Millisecond)
}
