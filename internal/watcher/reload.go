package watcher

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/conneroisu/dimens/internal/config"
	"github.com/conneroisu/dimens/internal/engine"
	"github.com/conneroisu/dimens/internal/logging"
)

// DefaultDebounce is the quiet period before a changed file is reloaded.
const DefaultDebounce = 150 * time.Millisecond

// ProfileReloader keeps the current profile set of one file. A reload that
// fails validation keeps the previous set; a successful one replaces it and
// clears the engine cache.
type ProfileReloader struct {
	path    string
	engine  *engine.Engine
	logger  *logging.DimensLogger
	current atomic.Pointer[config.ProfileSet]

	mu        sync.Mutex
	listeners []func(*config.ProfileSet)
}

// NewProfileReloader loads path once and returns a reloader for it.
func NewProfileReloader(path string, e *engine.Engine, logger *logging.DimensLogger) (*ProfileReloader, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	set, err := config.LoadProfiles(path)
	if err != nil {
		return nil, err
	}
	r := &ProfileReloader{path: filepath.Clean(path), engine: e, logger: logger}
	r.current.Store(set)
	return r, nil
}

// Path returns the watched file.
func (r *ProfileReloader) Path() string { return r.path }

// Profiles returns the current profile set.
func (r *ProfileReloader) Profiles() *config.ProfileSet { return r.current.Load() }

// OnReload registers fn to run after every successful reload.
func (r *ProfileReloader) OnReload(fn func(*config.ProfileSet)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Reload reads the file again.
func (r *ProfileReloader) Reload(ctx context.Context) error {
	op := r.logger.StartOperation("reload")

	set, err := config.LoadProfiles(r.path)
	if err != nil {
		op.EndWithError(ctx, err)
		return err
	}
	r.current.Store(set)
	if r.engine != nil {
		r.engine.ClearAll()
	}
	op.End(ctx, "profiles", set.Len())

	r.mu.Lock()
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()
	for _, fn := range listeners {
		fn(set)
	}
	return nil
}

// Handle is a ChangeHandler that reloads when the file was written or
// recreated. Deletions are ignored; the previous set stays in effect.
func (r *ProfileReloader) Handle(events []ChangeEvent) error {
	for _, ev := range events {
		if ev.Type == EventTypeDeleted {
			continue
		}
		if filepath.Clean(ev.Path) == r.path {
			return r.Reload(context.Background())
		}
	}
	return nil
}

// Watch reloads the profile file at path whenever it changes until ctx is
// cancelled. It returns once the watcher is running.
func Watch(
	ctx context.Context,
	path string,
	e *engine.Engine,
	logger *logging.DimensLogger,
	debounce time.Duration,
) (*ProfileReloader, error) {
	r, err := NewProfileReloader(path, e, logger)
	if err != nil {
		return nil, err
	}

	fw, err := NewFileWatcher(debounce, r.logger)
	if err != nil {
		return nil, err
	}
	fw.AddFilter(NoBackupFilter)
	fw.AddFilter(FileFilterFor(r.path))
	fw.AddHandler(r.Handle)

	if err := fw.AddPath(filepath.Dir(r.path)); err != nil {
		_ = fw.Stop()
		return nil, err
	}
	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return nil, err
	}

	go func() {
		<-ctx.Done()
		if err := fw.Stop(); err != nil {
			r.logger.Warn(context.Background(), err, "stopping watcher")
		}
	}()

	r.logger.Info(ctx, "watching profile file", "path", r.path, "profiles", r.Profiles().Len())
	return r, nil
}
