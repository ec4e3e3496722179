// Package strategy turns a design-time base value into a screen-adjusted
// value using one of a closed set of scaling formulas.
//
// Calculate is a pure function intended for layout and render passes. It
// never returns an error and never panics: a degenerate screen falls back
// to the unscaled base value, and screening NaN or infinite inputs is left
// to the caller.
package strategy

import (
	"math"

	"github.com/conneroisu/dimens/internal/fastln"
	"github.com/conneroisu/dimens/internal/screen"
)

var (
	referenceDiagonal  = math.Hypot(screen.BaseReferenceWidth, screen.BaseReferenceHeight)
	referencePerimeter = float64(screen.BaseReferenceWidth + screen.BaseReferenceHeight)
)

// Geometry pairs a screen snapshot with its precomputed factors.
type Geometry struct {
	Config  screen.Config
	Factors screen.Factors
}

// NewGeometry computes the factors for c.
func NewGeometry(c screen.Config) Geometry {
	return Geometry{Config: c, Factors: screen.ComputeFactors(c)}
}

// Selection picks which screen axis a value scales against.
type Selection struct {
	Type screen.Type
	Base screen.Orientation
}

// Dimension resolves the axis selected by s on c.
//
// With an Auto base orientation, Lowest and Highest are the smaller and
// larger axis. A Portrait design maps Lowest to the width and Highest to
// the height; a Landscape design the reverse. When the device orientation
// differs from the design orientation, the requested type is inverted
// before that mapping.
func (s Selection) Dimension(c screen.Config) float32 {
	if s.Base == screen.OrientationAuto {
		if s.Type == screen.TypeHighest {
			return c.Highest()
		}
		return c.Lowest()
	}

	t := s.Type
	if c.Orientation() != s.Base {
		t = t.Invert()
	}
	lowestIsWidth := s.Base == screen.OrientationPortrait
	if (t == screen.TypeLowest) == lowestIsWidth {
		return c.Width
	}
	return c.Height
}

// Calculate scales x with the given strategy.
//
// The steps run in a fixed order: a resolved override replaces the
// formula, otherwise the formula runs; the result is then clamped to the
// constraint range, and finally to the physical size limit.
func Calculate(
	x float32,
	g Geometry,
	kind Kind,
	sel Selection,
	p Params,
	c Constraints,
	override float32,
	hasOverride bool,
) float32 {
	var v float32
	switch {
	case hasOverride:
		v = override
	case g.Config.Degenerate():
		v = x
	default:
		v = float32(Raw(float64(x), g, kind, sel, p))
	}
	return c.Apply(v)
}

// Raw evaluates the strategy formula without constraints. The geometry
// must not be degenerate.
func Raw(x float64, g Geometry, kind Kind, sel Selection, p Params) float64 {
	cfg := g.Config
	dim := float64(sel.Dimension(cfg))

	switch kind {
	case KindNone, KindUnspecified:
		return x
	case KindDefault:
		return defaultScale(x, dim, g.Factors, p)
	case KindPercentage:
		return percentage(x, dim)
	case KindBalanced:
		return balanced(x, dim, p.transition)
	case KindLogarithmic:
		return logarithmic(x, dim, p.sensitivity)
	case KindPower:
		return power(x, dim, p.exponent)
	case KindFluid:
		return fluid(x, dim, p)
	case KindInterpolated:
		return interpolated(x, dim)
	case KindDiagonal:
		return x * math.Hypot(float64(cfg.Width), float64(cfg.Height)) / referenceDiagonal
	case KindPerimeter:
		return x * float64(cfg.Width+cfg.Height) / referencePerimeter
	case KindFit:
		return x * math.Min(lowestRatio(cfg), highestRatio(cfg))
	case KindFill:
		return x * math.Max(lowestRatio(cfg), highestRatio(cfg))
	case KindAutoSize:
		// Auto-sizing needs the measured container bounds, which only the
		// platform layer has.
		return x
	default:
		return x
	}
}

func defaultScale(x, dim float64, f screen.Factors, p Params) float64 {
	return x * (1 + screen.AdjustmentFactor(dim)*f.Increment(p.aspectRatio, p.arSensitivity))
}

func percentage(x, dim float64) float64 {
	return x * dim / screen.BaseReferenceWidth
}

// balanced grows linearly up to t and logarithmically after it. The log
// branch x*(t/B)*(1+ln(dim/t)) has value x*t/B and slope x/B at dim == t,
// matching the linear branch, so the curve is C1. It uses the exact
// logarithm because table snapping would flatten the slope near t.
func balanced(x, dim, t float64) float64 {
	if dim < t {
		return percentage(x, dim)
	}
	return x * (t / screen.BaseReferenceWidth) * (1 + math.Log(dim/t))
}

// logarithmic is x*(1+s*ln(dim/B)), written as two branches so each side
// of the reference takes the logarithm of a ratio >= 1. The factor is
// floored at zero for very small screens.
func logarithmic(x, dim, s float64) float64 {
	var factor float64
	if dim >= screen.BaseReferenceWidth {
		factor = 1 + s*fastln.Ln(dim/screen.BaseReferenceWidth)
	} else {
		factor = 1 - s*fastln.Ln(screen.BaseReferenceWidth/dim)
	}
	if factor < 0 {
		factor = 0
	}
	return x * factor
}

func power(x, dim, e float64) float64 {
	return x * math.Pow(dim/screen.BaseReferenceWidth, e)
}

// fluid interpolates between the configured values over the configured
// width range and is constant outside it. x is used only when no fluid
// range is configured.
func fluid(x, dim float64, p Params) float64 {
	if !p.fluid {
		return x
	}
	switch {
	case dim <= p.fluidMinWidth:
		return p.fluidMinValue
	case dim >= p.fluidMaxWidth:
		return p.fluidMaxValue
	}
	t := (dim - p.fluidMinWidth) / (p.fluidMaxWidth - p.fluidMinWidth)
	return p.fluidMinValue + (p.fluidMaxValue-p.fluidMinValue)*t
}

func interpolated(x, dim float64) float64 {
	return x + (percentage(x, dim)-x)*0.5
}

// lowestRatio and highestRatio compare the screen to the portrait
// reference axis by axis, independent of the current orientation.
func lowestRatio(c screen.Config) float64 {
	return float64(c.Lowest()) / screen.BaseReferenceWidth
}

func highestRatio(c screen.Config) float64 {
	return float64(c.Highest()) / screen.BaseReferenceHeight
}
