package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/dimens/internal/errors"
	"github.com/conneroisu/dimens/internal/qualifier"
	"github.com/conneroisu/dimens/internal/screen"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		element Element
		want    Kind
	}{
		{ElementButton, KindBalanced},
		{ElementIcon, KindDefault},
		{ElementContainer, KindPercentage},
		{ElementDivider, KindNone},
		{ElementText, KindBalanced},
		{ElementImage, KindFit},
		{ElementBackground, KindFill},
		{ElementUnspecified, KindDefault},
		{Element(200), KindDefault},
	}

	for _, tt := range tests {
		t.Run(tt.element.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Infer(tt.element))
		})
	}

	for _, e := range Elements() {
		assert.NotEqual(t, KindUnspecified, Infer(e), "element %s", e)
	}
}

func TestResolveKeepsExplicitStrategy(t *testing.T) {
	assert.Equal(t, KindPower, Resolve(KindPower, ElementButton))
	assert.Equal(t, KindBalanced, Resolve(KindUnspecified, ElementButton))
}

func TestKindNamesRoundTrip(t *testing.T) {
	assert.Len(t, Kinds(), 13)
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	for _, e := range Elements() {
		parsed, err := ParseElement(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, parsed)
	}
	_, err := ParseKind("quadratic")
	assert.Error(t, err)
}

func TestNewParamsValidation(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		field string
	}{
		{"fluid min above max", []Option{WithFluid(72, 40, 320, 768)}, "fluid.min_value"},
		{"fluid widths inverted", []Option{WithFluid(40, 72, 768, 320)}, "fluid.min_width"},
		{"negative sensitivity", []Option{WithSensitivity(-1)}, "sensitivity"},
		{"zero transition", []Option{WithTransitionPoint(0)}, "transition_point"},
		{"negative exponent", []Option{WithExponent(-2)}, "exponent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParams(tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidParams))
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	p, err := NewParams(WithFluid(40, 40, 320, 768), WithAspectRatio(false, 0))
	require.NoError(t, err)
	on, s := p.AspectRatio()
	assert.False(t, on)
	assert.Equal(t, screen.DefaultARSensitivity, s)
	assert.False(t, p.ARSensitivitySet())

	p = MustParams(WithAspectRatio(true, 0.3))
	assert.True(t, p.ARSensitivitySet())
	_, s = p.WithDefaultARSensitivity(0.5).AspectRatio()
	assert.Equal(t, 0.3, s, "an explicit sensitivity wins")

	_, s = DefaultParams().WithDefaultARSensitivity(0.5).AspectRatio()
	assert.Equal(t, 0.5, s)

	pinned, err := NewProfileBuilder("a").Params(MustParams(WithAspectRatio(true, screen.DefaultARSensitivity))).Build()
	require.NoError(t, err)
	loose, err := NewProfileBuilder("a").Build()
	require.NoError(t, err)
	assert.NotEqual(t, pinned.Fingerprint(), loose.Fingerprint(),
		"an explicit sensitivity must not share cache keys with the engine default")
}

func TestProfileBuilder(t *testing.T) {
	tv, err := qualifier.New(screen.UIModeTelevision, nil, 64)
	require.NoError(t, err)

	p, err := NewProfileBuilder("headline").
		Element(ElementText).
		ScreenType(screen.TypeHighest).
		BaseOrientation(screen.OrientationPortrait).
		Constraints(Constraints{}.WithMax(40)).
		Override(tv).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "headline", p.Name())
	assert.Equal(t, KindUnspecified, p.Kind())
	assert.Equal(t, KindBalanced, p.Strategy())
	assert.Equal(t, screen.TypeHighest, p.Selection().Type)
	assert.Len(t, p.Overrides(), 1)
	assert.NotZero(t, p.Fingerprint())
}

func TestProfileBuilderRejectsFluidWithoutRange(t *testing.T) {
	_, err := NewProfileBuilder("hero").Strategy(KindFluid).Build()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidParams))
	assert.Contains(t, err.Error(), "hero")
}

func TestProfileBuilderRejectsBadConstraints(t *testing.T) {
	_, err := NewProfileBuilder("x").Constraints(Constraints{}.WithMin(10).WithMax(1)).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraints.min")
}

func TestProfileBuilderRejectsConditionlessOverride(t *testing.T) {
	_, err := NewProfileBuilder("x").Override(qualifier.Override{Value: 3}).Build()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidOverride))
}

func TestFingerprintCoversValueShapingFields(t *testing.T) {
	build := func(b *ProfileBuilder) uint32 {
		p, err := b.Build()
		require.NoError(t, err)
		return p.Fingerprint()
	}

	base := build(NewProfileBuilder("a").Strategy(KindPower))
	assert.Equal(t, base, build(NewProfileBuilder("b").Strategy(KindPower)), "the name does not shape values")
	assert.NotEqual(t, base, build(NewProfileBuilder("a").Strategy(KindPower).Params(MustParams(WithExponent(1)))))
	assert.NotEqual(t, base, build(NewProfileBuilder("a").Strategy(KindPower).Constraints(Constraints{}.WithMax(9))))
	assert.NotEqual(t, base, build(NewProfileBuilder("a").Strategy(KindPower).ScreenType(screen.TypeHighest)))
}
