package screen

import "github.com/conneroisu/dimens/internal/fastln"

// Reference geometry and scaling constants. A design authored for a
// 300x533 unit screen scales by BaseIncrement for every Step units of
// difference in the resolved dimension.
const (
	BaseReferenceWidth   = 300
	BaseReferenceHeight  = 533
	Step                 = 30
	BaseIncrement        = 0.10
	ReferenceAspectRatio = 1.78
	DefaultARSensitivity = 0.08
	AspectRatioEpsilon   = 1e-3
)

// Factors are the scale multipliers derived from one Config. They are
// computed once per geometry change and shared by every calculation made
// against that geometry.
type Factors struct {
	Lowest  float64
	Highest float64

	// FactorLowest and FactorHighest apply the plain increment to the
	// lowest and highest axis. FactorNoAR equals FactorLowest and is kept
	// under its own name because callers that disable aspect-ratio
	// correction read it directly.
	FactorLowest  float64
	FactorHighest float64
	FactorNoAR    float64

	// ARFactorLowest and ARFactorHighest add the aspect-ratio correction
	// computed with DefaultARSensitivity.
	ARFactorLowest  float64
	ARFactorHighest float64

	// LnAspectRatio is ln(aspect/ReferenceAspectRatio). Multiplying it by a
	// sensitivity gives the aspect-ratio correction for that sensitivity.
	LnAspectRatio float64
}

// Identity is the factor set of a degenerate screen: every multiplier is 1.
var Identity = Factors{
	FactorLowest:    1,
	FactorHighest:   1,
	FactorNoAR:      1,
	ARFactorLowest:  1,
	ARFactorHighest: 1,
}

// AdjustmentFactor returns how many Steps dim lies above the reference width.
func AdjustmentFactor(dim float64) float64 {
	return (dim - BaseReferenceWidth) / Step
}

// AspectRatioCorrection returns the increment correction for an aspect
// ratio. Ratios below AspectRatioEpsilon are clamped.
func AspectRatioCorrection(sensitivity, aspect float64) float64 {
	if aspect < AspectRatioEpsilon {
		aspect = AspectRatioEpsilon
	}
	return sensitivity * fastln.Ln(aspect/ReferenceAspectRatio)
}

// ComputeFactors derives the factor set for c. A degenerate config yields
// Identity instead of dividing by zero.
func ComputeFactors(c Config) Factors {
	if c.Degenerate() {
		return Identity
	}

	lowest := float64(c.Lowest())
	highest := float64(c.Highest())

	aspect := highest / lowest
	if aspect < AspectRatioEpsilon {
		aspect = AspectRatioEpsilon
	}
	lnAR := fastln.Ln(aspect / ReferenceAspectRatio)
	arInc := BaseIncrement + DefaultARSensitivity*lnAR

	f := Factors{
		Lowest:          lowest,
		Highest:         highest,
		FactorLowest:    1 + AdjustmentFactor(lowest)*BaseIncrement,
		FactorHighest:   1 + AdjustmentFactor(highest)*BaseIncrement,
		ARFactorLowest:  1 + AdjustmentFactor(lowest)*arInc,
		ARFactorHighest: 1 + AdjustmentFactor(highest)*arInc,
		LnAspectRatio:   lnAR,
	}
	f.FactorNoAR = f.FactorLowest
	return f
}

// Increment returns the per-step increment, corrected for the aspect ratio
// with the given sensitivity when ar is set.
func (f Factors) Increment(ar bool, sensitivity float64) float64 {
	if !ar {
		return BaseIncrement
	}
	return BaseIncrement + sensitivity*f.LnAspectRatio
}
