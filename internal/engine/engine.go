// Package engine is the entry point for calculating scaled dimensions. It
// ties a profile and a screen snapshot to the strategy formulas and puts a
// lock-free memoization cache in front of them.
//
// An Engine is safe for concurrent use. Calculate never returns an error
// and never blocks; invalid profiles are rejected when they are built.
package engine

import (
	"context"
	"sync/atomic"

	"github.com/conneroisu/dimens/internal/cache"
	"github.com/conneroisu/dimens/internal/logging"
	"github.com/conneroisu/dimens/internal/qualifier"
	"github.com/conneroisu/dimens/internal/screen"
	"github.com/conneroisu/dimens/internal/strategy"
)

// Engine calculates dimensions and memoizes the results.
type Engine struct {
	settings Settings
	defaults strategy.Params
	cache    *cache.DimensionCache
	enabled  atomic.Bool
	geometry atomic.Pointer[strategy.Geometry]
	logger   logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for cache lifecycle events.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l.WithComponent("engine") }
}

// WithCache replaces the cache built from the settings.
func WithCache(c *cache.DimensionCache) Option {
	return func(e *Engine) { e.cache = c }
}

// New validates s and returns an Engine.
func New(s Settings, opts ...Option) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		settings: s,
		defaults: strategy.DefaultParams(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = cache.New(s.CacheCapacity)
	}
	e.enabled.Store(s.CacheEnabled)
	return e, nil
}

// MustNew is New for settings known to be valid. It panics otherwise.
func MustNew(s Settings, opts ...Option) *Engine {
	e, err := New(s, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() Settings { return e.settings }

// Calculate scales base for cfg using profile p.
func (e *Engine) Calculate(base float32, p *strategy.Profile, cfg screen.Config) float32 {
	kind := p.Strategy()
	if e.settings.IgnoreMultiWindow && cfg.MultiWindow {
		return p.Constraints().Apply(base)
	}
	if !e.enabled.Load() {
		return e.compute(base, cfg, kind, p.Selection(), p.Params(), p.Constraints(), p.Overrides())
	}

	key := Key(base, cfg, kind, p.Element(), p.Selection(), p.Fingerprint())
	return e.cache.GetOrCompute(key, func() float32 {
		return e.compute(base, cfg, kind, p.Selection(), p.Params(), p.Constraints(), p.Overrides())
	})
}

// Request is a one-off calculation that does not go through a prebuilt
// profile. Its parameters are hashed on every call, so hot paths should
// prefer a Profile.
type Request struct {
	BaseValue float32
	// Strategy is inferred from Element when left unspecified.
	Strategy        strategy.Kind
	Element         strategy.Element
	Screen          screen.Config
	ScreenType      screen.Type
	BaseOrientation screen.Orientation
	// Params falls back to the engine defaults when nil.
	Params      *strategy.Params
	Constraints strategy.Constraints
	Overrides   []qualifier.Override
}

// CalculateWith scales a value described by req.
func (e *Engine) CalculateWith(req Request) float32 {
	kind := strategy.Resolve(req.Strategy, req.Element)
	sel := strategy.Selection{Type: req.ScreenType, Base: req.BaseOrientation}
	params := e.defaults
	if req.Params != nil {
		params = *req.Params
	}

	cfg := req.Screen
	if e.settings.IgnoreMultiWindow && cfg.MultiWindow {
		return req.Constraints.Apply(req.BaseValue)
	}
	if !e.enabled.Load() {
		return e.compute(req.BaseValue, cfg, kind, sel, params, req.Constraints, req.Overrides)
	}

	fp := strategy.Fingerprint(kind, req.Element, sel, params, req.Constraints, req.Overrides)
	key := Key(req.BaseValue, cfg, kind, req.Element, sel, fp)
	return e.cache.GetOrCompute(key, func() float32 {
		return e.compute(req.BaseValue, cfg, kind, sel, params, req.Constraints, req.Overrides)
	})
}

func (e *Engine) compute(
	base float32,
	cfg screen.Config,
	kind strategy.Kind,
	sel strategy.Selection,
	params strategy.Params,
	c strategy.Constraints,
	overrides []qualifier.Override,
) float32 {
	if v, ok := qualifier.Resolve(cfg, overrides); ok {
		return strategy.Calculate(base, strategy.Geometry{Config: cfg}, kind, sel, params, c, v, true)
	}
	if !e.settings.AspectRatio {
		params = params.WithoutAspectRatio()
	} else {
		params = params.WithDefaultARSensitivity(e.settings.ARSensitivity)
	}
	return strategy.Calculate(base, e.geometryFor(cfg), kind, sel, params, c, 0, false)
}

// geometryFor returns the factors for cfg, reusing the last snapshot when
// the screen has not changed. Concurrent callers on different screens
// simply replace each other's snapshot.
func (e *Engine) geometryFor(cfg screen.Config) strategy.Geometry {
	if g := e.geometry.Load(); g != nil && g.Config == cfg {
		return *g
	}
	g := strategy.NewGeometry(cfg)
	e.geometry.Store(&g)
	return g
}

// SetEnabled turns memoization on or off. Disabling keeps the stored
// entries; they are still valid when memoization is turned back on.
func (e *Engine) SetEnabled(on bool) {
	if e.enabled.Swap(on) != on {
		e.logger.Debug(context.Background(), "cache toggled", "enabled", on)
	}
}

// Enabled reports whether memoization is on.
func (e *Engine) Enabled() bool { return e.enabled.Load() }

// ClearAll drops every cached value and resets the counters.
func (e *Engine) ClearAll() {
	e.cache.Clear()
	e.cache.ResetStats()
	e.geometry.Store(nil)
	e.logger.Debug(context.Background(), "cache cleared")
}

// InvalidateOnConfigChange clears the cache when the screen geometry or
// density moved between old and next, and reports whether it did. A nil
// old config always clears. UI mode changes need no clearing because the
// mode is part of every cache key.
func (e *Engine) InvalidateOnConfigChange(old *screen.Config, next screen.Config) bool {
	if old != nil && old.SameGeometry(next) {
		return false
	}
	e.ClearAll()
	e.logger.Info(context.Background(), "screen changed, cache invalidated", "screen", next.String())
	return true
}

// Prune removes entries older than the configured TTL and returns how many
// it removed.
func (e *Engine) Prune() int {
	n := e.cache.Prune(e.settings.CacheTTL)
	if n > 0 {
		e.logger.Debug(context.Background(), "cache pruned", "removed", n)
	}
	return n
}

// Stats reports the cache statistics.
type Stats struct {
	cache.Stats `yaml:",inline"`
	Enabled     bool `json:"enabled" yaml:"enabled"`
}

// Stats returns a snapshot of the cache statistics.
func (e *Engine) Stats() Stats {
	return Stats{Stats: e.cache.Stats(), Enabled: e.enabled.Load()}
}
