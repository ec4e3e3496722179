//go:build property

package strategy

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/dimens/internal/screen"
)

var monotonicKinds = []Kind{
	KindDefault, KindPercentage, KindBalanced, KindLogarithmic, KindPower,
	KindDiagonal, KindPerimeter, KindFit, KindFill,
}

// TestCalculatorProperties validates the formula invariants over random
// geometry.
func TestCalculatorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("none is the identity", prop.ForAll(
		func(x float32, w, h float32) bool {
			g := NewGeometry(screen.New(w, h, 2, screen.UIModeNormal))
			return Calculate(x, g, KindNone, lowestAuto, DefaultParams(), Constraints{}, 0, false) == x
		},
		gen.Float32Range(-1e6, 1e6),
		gen.Float32Range(0, 4000),
		gen.Float32Range(0, 4000),
	))

	properties.Property("growing the resolved dimension never shrinks the value", prop.ForAll(
		func(x float32, w, h, grow float32, kindIdx int) bool {
			kind := monotonicKinds[kindIdx]
			p := DefaultParams().WithoutAspectRatio()

			// Portrait screens: grow both axes so the lowest axis grows
			// and the aspect ratio does not flip the resolved axis.
			small := NewGeometry(screen.New(w, w+h, 2, screen.UIModeNormal))
			large := NewGeometry(screen.New(w+grow, w+h+grow, 2, screen.UIModeNormal))

			a := Calculate(x, small, kind, lowestAuto, p, Constraints{}, 0, false)
			b := Calculate(x, large, kind, lowestAuto, p, Constraints{}, 0, false)
			return b >= a
		},
		gen.Float32Range(0.5, 500),
		gen.Float32Range(120, 2000),
		gen.Float32Range(0, 1500),
		gen.Float32Range(0, 500),
		gen.IntRange(0, len(monotonicKinds)-1),
	))

	// With correction on, growing one axis towards square lowers the
	// increment, so monotonicity only holds at a fixed aspect ratio.
	properties.Property("default with aspect-ratio correction grows at a fixed ratio", prop.ForAll(
		func(x float32, w, grow, ratio float32) bool {
			p := DefaultParams()

			small := NewGeometry(screen.New(w, w*ratio, 2, screen.UIModeNormal))
			large := NewGeometry(screen.New(w+grow, (w+grow)*ratio, 2, screen.UIModeNormal))

			a := Calculate(x, small, KindDefault, lowestAuto, p, Constraints{}, 0, false)
			b := Calculate(x, large, KindDefault, lowestAuto, p, Constraints{}, 0, false)
			return b > a
		},
		gen.Float32Range(0.5, 500),
		gen.Float32Range(120, 2000),
		gen.Float32Range(1, 500),
		gen.Float32Range(1, 3),
	))

	properties.Property("fluid stays within its value range", prop.ForAll(
		func(w float32) bool {
			p := MustParams(WithFluid(40, 72, 320, 768))
			g := NewGeometry(screen.New(w, 5000, 2, screen.UIModeNormal))
			v := Calculate(16, g, KindFluid, lowestAuto, p, Constraints{}, 0, false)
			switch {
			case w <= 320:
				return v == 40
			case w >= 768:
				return v == 72
			default:
				return v > 40 && v < 72
			}
		},
		gen.Float32Range(1, 1500),
	))

	properties.Property("constraints bound every strategy", prop.ForAll(
		func(x float32, w, h, lo, span float32, kindIdx int) bool {
			kinds := Kinds()
			kind := kinds[kindIdx%len(kinds)]
			c := Constraints{}.WithMin(lo).WithMax(lo + span)
			g := NewGeometry(screen.New(w, h, 2, screen.UIModeNormal))
			v := Calculate(x, g, kind, lowestAuto, MustParams(WithFluid(10, 90, 320, 768)), c, 0, false)
			return v >= lo && v <= lo+span
		},
		gen.Float32Range(-100, 1000),
		gen.Float32Range(0, 3000),
		gen.Float32Range(0, 3000),
		gen.Float32Range(-50, 200),
		gen.Float32Range(0, 300),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
