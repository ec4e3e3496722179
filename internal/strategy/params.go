package strategy

import (
	"math"

	"github.com/conneroisu/dimens/internal/errors"
	"github.com/conneroisu/dimens/internal/screen"
)

// Default parameter values.
const (
	DefaultSensitivity     = 0.40
	DefaultExponent        = 0.75
	DefaultTransitionPoint = 480
)

// Params carries the per-strategy tuning values. A Params is immutable;
// build one with NewParams.
type Params struct {
	sensitivity float64
	exponent    float64
	transition  float64

	fluid         bool
	fluidMinValue float64
	fluidMaxValue float64
	fluidMinWidth float64
	fluidMaxWidth float64

	aspectRatio   bool
	arSensitivity float64
	// arSet marks an explicit sensitivity; otherwise the engine setting applies.
	arSet bool
}

// Option configures a Params under construction.
type Option func(*Params)

// WithSensitivity sets the Logarithmic sensitivity.
func WithSensitivity(s float64) Option {
	return func(p *Params) { p.sensitivity = s }
}

// WithExponent sets the Power exponent.
func WithExponent(e float64) Option {
	return func(p *Params) { p.exponent = e }
}

// WithTransitionPoint sets the dimension where Balanced switches from
// linear to logarithmic growth.
func WithTransitionPoint(t float64) Option {
	return func(p *Params) { p.transition = t }
}

// WithFluid sets the Fluid value range and the width range it spans.
func WithFluid(minValue, maxValue, minWidth, maxWidth float64) Option {
	return func(p *Params) {
		p.fluid = true
		p.fluidMinValue = minValue
		p.fluidMaxValue = maxValue
		p.fluidMinWidth = minWidth
		p.fluidMaxWidth = maxWidth
	}
}

// WithAspectRatio toggles aspect-ratio correction for Default and sets its
// sensitivity. A zero sensitivity keeps the default.
func WithAspectRatio(on bool, sensitivity float64) Option {
	return func(p *Params) {
		p.aspectRatio = on
		if sensitivity != 0 {
			p.arSensitivity = sensitivity
			p.arSet = true
		}
	}
}

// DefaultParams returns the parameter set used when a profile gives none.
func DefaultParams() Params {
	return Params{
		sensitivity:   DefaultSensitivity,
		exponent:      DefaultExponent,
		transition:    DefaultTransitionPoint,
		aspectRatio:   true,
		arSensitivity: screen.DefaultARSensitivity,
	}
}

// NewParams applies opts to DefaultParams and validates the result.
func NewParams(opts ...Option) (Params, error) {
	p := DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate().Err(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// MustParams is NewParams for statically known options. It panics on
// invalid input.
func MustParams(opts ...Option) Params {
	p, err := NewParams(opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate reports every invalid field.
func (p Params) Validate() *errors.ValidationErrorCollection {
	errs := &errors.ValidationErrorCollection{}
	code := errors.ErrCodeInvalidParams

	if !finite(p.sensitivity) || p.sensitivity < 0 {
		errs.AddField(code, "sensitivity", p.sensitivity, "must be a finite value >= 0")
	}
	if !finite(p.exponent) || p.exponent < 0 {
		errs.AddField(code, "exponent", p.exponent, "must be a finite value >= 0")
	}
	if !finite(p.transition) || p.transition <= 0 {
		errs.AddField(code, "transition_point", p.transition, "must be a finite value > 0")
	}
	if !finite(p.arSensitivity) || p.arSensitivity < 0 {
		errs.AddField(code, "aspect_ratio_sensitivity", p.arSensitivity, "must be a finite value >= 0")
	}
	if p.fluid {
		if !finite(p.fluidMinValue) || !finite(p.fluidMaxValue) {
			errs.AddField(code, "fluid.min_value", p.fluidMinValue, "fluid values must be finite")
		} else if p.fluidMinValue > p.fluidMaxValue {
			errs.AddField(code, "fluid.min_value", p.fluidMinValue, "must not exceed fluid.max_value",
				"swap min_value and max_value")
		}
		if !finite(p.fluidMinWidth) || !finite(p.fluidMaxWidth) || p.fluidMinWidth < 0 {
			errs.AddField(code, "fluid.min_width", p.fluidMinWidth, "fluid widths must be finite and >= 0")
		} else if p.fluidMinWidth >= p.fluidMaxWidth {
			errs.AddField(code, "fluid.min_width", p.fluidMinWidth, "must be below fluid.max_width")
		}
	}
	return errs
}

// Sensitivity returns the Logarithmic sensitivity.
func (p Params) Sensitivity() float64 { return p.sensitivity }

// Exponent returns the Power exponent.
func (p Params) Exponent() float64 { return p.exponent }

// TransitionPoint returns the Balanced transition dimension.
func (p Params) TransitionPoint() float64 { return p.transition }

// Fluid returns the fluid ranges and whether they were set.
func (p Params) Fluid() (minValue, maxValue, minWidth, maxWidth float64, ok bool) {
	return p.fluidMinValue, p.fluidMaxValue, p.fluidMinWidth, p.fluidMaxWidth, p.fluid
}

// AspectRatio reports whether aspect-ratio correction is on, and its
// sensitivity.
func (p Params) AspectRatio() (bool, float64) {
	return p.aspectRatio, p.arSensitivity
}

// ARSensitivitySet reports whether the aspect-ratio sensitivity was given
// explicitly rather than taken from the default.
func (p Params) ARSensitivitySet() bool { return p.arSet }

// WithDefaultARSensitivity returns a copy of p using s as the aspect-ratio
// sensitivity unless one was set explicitly.
func (p Params) WithDefaultARSensitivity(s float64) Params {
	if !p.arSet {
		p.arSensitivity = s
	}
	return p
}

// WithoutAspectRatio returns a copy of p with aspect-ratio correction off.
func (p Params) WithoutAspectRatio() Params {
	p.aspectRatio = false
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
