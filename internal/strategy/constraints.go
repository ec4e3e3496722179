package strategy

import (
	"github.com/conneroisu/dimens/internal/errors"
)

// Physical conversion constants. A unit is a density-independent pixel,
// 1/ReferenceDPI of an inch on every display.
const (
	MillimetersPerInch = 25.4
	ReferenceDPI       = 160
)

// Constraints bound a scaled value. The zero value imposes no bounds.
// Every With method returns a modified copy.
type Constraints struct {
	min, max, maxMm          float32
	hasMin, hasMax, hasMaxMm bool
}

// WithMin returns c with a lower bound.
func (c Constraints) WithMin(v float32) Constraints {
	c.min, c.hasMin = v, true
	return c
}

// WithMax returns c with an upper bound.
func (c Constraints) WithMax(v float32) Constraints {
	c.max, c.hasMax = v, true
	return c
}

// WithMaxPhysicalMm returns c with an upper bound expressed as a physical
// length on the display.
func (c Constraints) WithMaxPhysicalMm(mm float32) Constraints {
	c.maxMm, c.hasMaxMm = mm, true
	return c
}

// Min returns the lower bound and whether it is set.
func (c Constraints) Min() (float32, bool) { return c.min, c.hasMin }

// Max returns the upper bound and whether it is set.
func (c Constraints) Max() (float32, bool) { return c.max, c.hasMax }

// MaxPhysicalMm returns the physical bound and whether it is set.
func (c Constraints) MaxPhysicalMm() (float32, bool) { return c.maxMm, c.hasMaxMm }

// Validate reports inconsistent bounds.
func (c Constraints) Validate() *errors.ValidationErrorCollection {
	errs := &errors.ValidationErrorCollection{}
	code := errors.ErrCodeInvalidParams

	if c.hasMin && c.min != c.min {
		errs.AddField(code, "min", c.min, "must be a number")
	}
	if c.hasMax && c.max != c.max {
		errs.AddField(code, "max", c.max, "must be a number")
	}
	if c.hasMin && c.hasMax && c.min > c.max {
		errs.AddField(code, "min", c.min, "must not exceed max")
	}
	if c.hasMaxMm && !(c.maxMm > 0) {
		errs.AddField(code, "max_physical_mm", c.maxMm, "must be > 0")
	}
	return errs
}

// Apply clamps v to [min, max] and then to the physical bound.
func (c Constraints) Apply(v float32) float32 {
	if c.hasMin && v < c.min {
		v = c.min
	}
	if c.hasMax && v > c.max {
		v = c.max
	}
	if c.hasMaxMm {
		if limit := PhysicalToUnits(c.maxMm); v > limit {
			v = limit
		}
	}
	return v
}

// PhysicalToUnits converts millimetres to units. Units already abstract
// density away, so the result is the same on every display.
func PhysicalToUnits(mm float32) float32 {
	return float32(float64(mm) / MillimetersPerInch * ReferenceDPI)
}
