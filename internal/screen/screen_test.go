package screen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		width, height float32
		density       float32
		wantWidth     float32
		wantHeight    float32
		wantSW        float32
		wantDensity   float32
	}{
		{"portrait phone", 360, 640, 3, 360, 640, 360, 3},
		{"landscape phone", 640, 360, 3, 640, 360, 360, 3},
		{"negative clamps to zero", -10, 500, 2, 0, 500, 0, 2},
		{"zero density defaults to one", 300, 533, 0, 300, 533, 300, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.width, tt.height, tt.density, UIModeNormal)
			assert.Equal(t, tt.wantWidth, c.Width)
			assert.Equal(t, tt.wantHeight, c.Height)
			assert.Equal(t, tt.wantSW, c.SmallestWidth)
			assert.Equal(t, tt.wantDensity, c.Density)
		})
	}
}

func TestOrientationAndAxes(t *testing.T) {
	p := New(360, 640, 2, UIModeNormal)
	assert.Equal(t, OrientationPortrait, p.Orientation())
	assert.Equal(t, float32(360), p.Lowest())
	assert.Equal(t, float32(640), p.Highest())

	l := New(640, 360, 2, UIModeNormal)
	assert.Equal(t, OrientationLandscape, l.Orientation())
	assert.Equal(t, p.Lowest(), l.Lowest())
	assert.Equal(t, p.Highest(), l.Highest())

	assert.True(t, p.SameGeometry(l), "an orientation flip keeps the geometry")
	assert.False(t, p.SameGeometry(New(360, 640, 3, UIModeNormal)), "density change")
	assert.False(t, p.SameGeometry(New(400, 640, 2, UIModeNormal)), "size change")
}

func TestDegenerate(t *testing.T) {
	assert.True(t, New(0, 0, 1, UIModeNormal).Degenerate())
	assert.True(t, New(320, 0, 1, UIModeNormal).Degenerate())
	assert.False(t, New(320, 480, 1, UIModeNormal).Degenerate())
}

func TestParse(t *testing.T) {
	m, err := ParseUIMode("television")
	require.NoError(t, err)
	assert.Equal(t, UIModeTelevision, m)
	_, err = ParseUIMode("toaster")
	assert.Error(t, err)

	o, err := ParseOrientation("landscape")
	require.NoError(t, err)
	assert.Equal(t, OrientationLandscape, o)
	_, err = ParseOrientation("sideways")
	assert.Error(t, err)

	st, err := ParseType("highest")
	require.NoError(t, err)
	assert.Equal(t, TypeHighest, st)
	assert.Equal(t, TypeLowest, st.Invert())
}

func TestAdjustmentFactor(t *testing.T) {
	assert.Equal(t, 0.0, AdjustmentFactor(300))
	assert.Equal(t, 2.0, AdjustmentFactor(360))
	assert.Equal(t, -1.0, AdjustmentFactor(270))
}

func TestComputeFactors(t *testing.T) {
	t.Run("reference screen", func(t *testing.T) {
		f := ComputeFactors(New(300, 533, 1, UIModeNormal))
		assert.InDelta(t, 1.0, f.FactorLowest, 1e-9)
		assert.InDelta(t, 1.0, f.FactorNoAR, 1e-9)
		assert.InDelta(t, 1.0, f.ARFactorLowest, 1e-9)
		// (533/300)/1.78 lands within tolerance of the 1.0 key.
		assert.Equal(t, 0.0, f.LnAspectRatio)
	})

	t.Run("typical phone", func(t *testing.T) {
		f := ComputeFactors(New(360, 640, 3, UIModeNormal))
		assert.InDelta(t, 1.2, f.FactorLowest, 1e-9)
		assert.InDelta(t, 1+AdjustmentFactor(640)*BaseIncrement, f.FactorHighest, 1e-9)
		assert.Equal(t, f.FactorLowest, f.FactorNoAR)

		inc := BaseIncrement + DefaultARSensitivity*f.LnAspectRatio
		assert.InDelta(t, 1+2*inc, f.ARFactorLowest, 1e-9)
	})

	t.Run("orientation does not change factors", func(t *testing.T) {
		assert.Equal(t,
			ComputeFactors(New(360, 640, 3, UIModeNormal)),
			ComputeFactors(New(640, 360, 3, UIModeNormal)))
	})

	t.Run("zero size is identity", func(t *testing.T) {
		f := ComputeFactors(New(0, 0, 1, UIModeNormal))
		assert.Equal(t, Identity, f)
		assert.False(t, math.IsNaN(f.ARFactorHighest))
	})
}

func TestAspectRatioCorrection(t *testing.T) {
	assert.InDelta(t, 0.0, AspectRatioCorrection(0.08, ReferenceAspectRatio), 1e-3)
	assert.Greater(t, AspectRatioCorrection(0.08, 2.2222), 0.0)
	assert.Less(t, AspectRatioCorrection(0.08, 1.3333), 0.0)
	assert.False(t, math.IsInf(AspectRatioCorrection(0.08, 0), 0))
}

func TestIncrement(t *testing.T) {
	f := ComputeFactors(New(400, 900, 2, UIModeNormal))
	assert.Equal(t, BaseIncrement, f.Increment(false, 0.5))
	assert.InDelta(t, BaseIncrement+0.5*f.LnAspectRatio, f.Increment(true, 0.5), 1e-12)
}
