package strategy

import (
	"github.com/conneroisu/dimens/internal/errors"
	"github.com/conneroisu/dimens/internal/fnv1a"
	"github.com/conneroisu/dimens/internal/qualifier"
	"github.com/conneroisu/dimens/internal/screen"
)

// Profile is the immutable bundle of everything that shapes how a base
// value scales, apart from the value and the screen. Profiles are built
// once, usually at startup or when a profile file is loaded, and then
// shared across goroutines.
type Profile struct {
	name        string
	kind        Kind
	element     Element
	selection   Selection
	params      Params
	constraints Constraints
	overrides   []qualifier.Override
	fingerprint uint32
}

// Name returns the profile name.
func (p *Profile) Name() string { return p.name }

// Kind returns the explicit strategy, or KindUnspecified.
func (p *Profile) Kind() Kind { return p.kind }

// Element returns the element hint.
func (p *Profile) Element() Element { return p.element }

// Strategy returns the effective strategy after element inference.
func (p *Profile) Strategy() Kind { return Resolve(p.kind, p.element) }

// Selection returns the screen axis selection.
func (p *Profile) Selection() Selection { return p.selection }

// Params returns the strategy parameters.
func (p *Profile) Params() Params { return p.params }

// Constraints returns the output bounds.
func (p *Profile) Constraints() Constraints { return p.constraints }

// Overrides returns the qualifier overrides. The slice must not be
// modified.
func (p *Profile) Overrides() []qualifier.Override { return p.overrides }

// Fingerprint is a hash of every field that affects the computed value.
// Two profiles with equal fingerprints may share cache entries.
func (p *Profile) Fingerprint() uint32 { return p.fingerprint }

// ProfileBuilder provides a fluent interface for building profiles.
//
// Usage:
//
//	profile, err := strategy.NewProfileBuilder("title").
//	    Element(strategy.ElementText).
//	    Constraints(strategy.Constraints{}.WithMax(40)).
//	    Override(tvOverride).
//	    Build()
type ProfileBuilder struct {
	profile Profile
}

// NewProfileBuilder starts a profile with default parameters.
func NewProfileBuilder(name string) *ProfileBuilder {
	return &ProfileBuilder{profile: Profile{
		name:   name,
		params: DefaultParams(),
	}}
}

// Strategy sets an explicit strategy.
func (b *ProfileBuilder) Strategy(k Kind) *ProfileBuilder {
	b.profile.kind = k
	return b
}

// Element sets the element hint.
func (b *ProfileBuilder) Element(e Element) *ProfileBuilder {
	b.profile.element = e
	return b
}

// ScreenType selects the lowest or highest axis.
func (b *ProfileBuilder) ScreenType(t screen.Type) *ProfileBuilder {
	b.profile.selection.Type = t
	return b
}

// BaseOrientation sets the orientation the design was authored for.
func (b *ProfileBuilder) BaseOrientation(o screen.Orientation) *ProfileBuilder {
	b.profile.selection.Base = o
	return b
}

// Params replaces the strategy parameters.
func (b *ProfileBuilder) Params(p Params) *ProfileBuilder {
	b.profile.params = p
	return b
}

// Constraints replaces the output bounds.
func (b *ProfileBuilder) Constraints(c Constraints) *ProfileBuilder {
	b.profile.constraints = c
	return b
}

// Override appends qualifier overrides.
func (b *ProfileBuilder) Override(o ...qualifier.Override) *ProfileBuilder {
	b.profile.overrides = append(b.profile.overrides, o...)
	return b
}

// Build validates the profile and returns it. A Fluid profile without a
// fluid range, inconsistent constraints, invalid parameters and overrides
// without a condition are rejected here, never during calculation.
func (b *ProfileBuilder) Build() (*Profile, error) {
	p := b.profile
	errs := &errors.ValidationErrorCollection{}
	code := errors.ErrCodeInvalidParams

	if !p.kind.Valid() {
		errs.AddField(code, "strategy", p.kind, "unknown strategy")
	}
	if p.element >= numElements {
		errs.AddField(code, "element", p.element, "unknown element")
	}
	errs.Merge("params", p.params.Validate())
	errs.Merge("constraints", p.constraints.Validate())

	if p.Strategy() == KindFluid && !p.params.fluid {
		errs.AddField(code, "params.fluid", nil, "fluid strategy requires min/max values and widths",
			"set fluid.min_value, fluid.max_value, fluid.min_width and fluid.max_width")
	}
	for i, o := range p.overrides {
		if o.Tier() == 0 {
			errs.AddField(errors.ErrCodeInvalidOverride, "overrides", i, "override has no condition")
		}
	}

	if errs.HasErrors() {
		return nil, errors.NewConfigError(code, "invalid profile", errs).WithProfile(p.name)
	}

	p.overrides = append([]qualifier.Override(nil), p.overrides...)
	p.fingerprint = Fingerprint(p.kind, p.element, p.selection, p.params, p.constraints, p.overrides)
	return &p, nil
}

// Fingerprint hashes every input that shapes a calculated value apart
// from the base value and the screen. It does not allocate.
func Fingerprint(
	kind Kind,
	element Element,
	sel Selection,
	pr Params,
	c Constraints,
	overrides []qualifier.Override,
) uint32 {
	h := fnv1a.New().
		Byte(byte(kind)).
		Byte(byte(element)).
		Byte(byte(sel.Type)).
		Byte(byte(sel.Base))

	h = h.Float64(pr.sensitivity).
		Float64(pr.exponent).
		Float64(pr.transition).
		Bool(pr.fluid).
		Float64(pr.fluidMinValue).
		Float64(pr.fluidMaxValue).
		Float64(pr.fluidMinWidth).
		Float64(pr.fluidMaxWidth).
		Bool(pr.aspectRatio).
		Bool(pr.arSet).
		Float64(pr.arSensitivity)

	h = h.Bool(c.hasMin).Float32(c.min).
		Bool(c.hasMax).Float32(c.max).
		Bool(c.hasMaxMm).Float32(c.maxMm)

	for _, o := range overrides {
		h = h.Byte(byte(o.UIMode)).
			Bool(o.HasScreen).
			Byte(byte(o.Screen.Kind)).
			Float32(o.Screen.Threshold).
			Float32(o.Value)
	}
	return h.Sum32()
}
