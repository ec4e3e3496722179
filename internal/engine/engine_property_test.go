//go:build property

package engine

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/dimens/internal/cache"
	"github.com/conneroisu/dimens/internal/screen"
	"github.com/conneroisu/dimens/internal/strategy"
)

// TestEngineProperties validates that memoization is transparent.
func TestEngineProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4242)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	direct := uncached(t)
	tiny := newEngine(t, WithCache(cache.New(2)))
	normal := newEngine(t)

	kinds := strategy.Kinds()
	profiles := make([]*strategy.Profile, 0, len(kinds))
	for _, k := range kinds {
		if k == strategy.KindFluid {
			continue
		}
		profiles = append(profiles, mustProfile(t, strategy.NewProfileBuilder(k.String()).Strategy(k)))
	}

	properties.Property("cached results equal direct computation", prop.ForAll(
		func(base float32, w, h float32, idx int) bool {
			p := profiles[idx%len(profiles)]
			cfg := screen.New(w, h, 2, screen.UIModeNormal)
			want := direct.Calculate(base, p, cfg)
			return tiny.Calculate(base, p, cfg) == want &&
				normal.Calculate(base, p, cfg) == want &&
				normal.Calculate(base, p, cfg) == want
		},
		gen.Float32Range(0, 200),
		gen.Float32Range(0, 2560),
		gen.Float32Range(0, 2560),
		gen.IntRange(0, 100),
	))

	properties.Property("rotation never changes lowest-axis results", prop.ForAll(
		func(base float32, w, h float32) bool {
			p := profiles[1] // default
			return normal.Calculate(base, p, screen.New(w, h, 1, screen.UIModeNormal)) ==
				normal.Calculate(base, p, screen.New(h, w, 1, screen.UIModeNormal))
		},
		gen.Float32Range(1, 100),
		gen.Float32Range(100, 2000),
		gen.Float32Range(100, 2000),
	))

	properties.TestingRun(t)
}
