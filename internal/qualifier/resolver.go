// Package qualifier resolves designer-specified override values from a
// list of conditions on the UI mode and screen size.
package qualifier

import (
	"fmt"

	"github.com/conneroisu/dimens/internal/errors"
	"github.com/conneroisu/dimens/internal/screen"
)

// Kind selects which screen dimension a Screen qualifier compares.
type Kind uint8

const (
	KindSmallestWidth Kind = iota
	KindHeight
	KindWidth
)

// String returns the string representation of the qualifier kind
func (k Kind) String() string {
	switch k {
	case KindSmallestWidth:
		return "smallest_width"
	case KindHeight:
		return "height"
	case KindWidth:
		return "width"
	default:
		return "unknown"
	}
}

// ParseKind maps a name produced by String back to its Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "smallest_width", "sw":
		return KindSmallestWidth, nil
	case "height", "h":
		return KindHeight, nil
	case "width", "w":
		return KindWidth, nil
	}
	return KindSmallestWidth, fmt.Errorf("unknown qualifier kind %q", name)
}

// Screen is a size condition: the selected dimension must be at least
// Threshold units.
type Screen struct {
	Kind      Kind
	Threshold float32
}

func (s Screen) dimension(c screen.Config) float32 {
	switch s.Kind {
	case KindHeight:
		return c.Height
	case KindWidth:
		return c.Width
	default:
		return c.SmallestWidth
	}
}

// Matches reports whether c satisfies the condition.
func (s Screen) Matches(c screen.Config) bool {
	return s.dimension(c) >= s.Threshold
}

// Tier is the priority class of an Override. Lower tiers win.
type Tier uint8

const (
	TierCombined Tier = iota + 1
	TierUIMode
	TierScreen
)

// String returns the string representation of the tier
func (t Tier) String() string {
	switch t {
	case TierCombined:
		return "ui_mode+screen"
	case TierUIMode:
		return "ui_mode"
	case TierScreen:
		return "screen"
	default:
		return "invalid"
	}
}

// Override replaces the computed value with Value when its conditions
// hold. Build one with New so that at least one condition is present.
type Override struct {
	UIMode    screen.UIMode
	Screen    Screen
	HasScreen bool
	Value     float32
}

// New builds an Override. mode may be screen.UIModeUnspecified and sq may
// be nil, but not both.
func New(mode screen.UIMode, sq *Screen, value float32) (Override, error) {
	if mode == screen.UIModeUnspecified && sq == nil {
		return Override{}, errors.NewValidationError(errors.ErrCodeInvalidOverride,
			"override needs a ui mode, a screen qualifier, or both")
	}
	if sq != nil && sq.Threshold < 0 {
		return Override{}, errors.NewValidationError(errors.ErrCodeInvalidOverride,
			"screen qualifier threshold must not be negative").
			WithContext("threshold", sq.Threshold)
	}
	o := Override{UIMode: mode, Value: value}
	if sq != nil {
		o.Screen = *sq
		o.HasScreen = true
	}
	return o, nil
}

// Tier returns the priority class derived from which conditions are set.
func (o Override) Tier() Tier {
	hasMode := o.UIMode != screen.UIModeUnspecified
	switch {
	case hasMode && o.HasScreen:
		return TierCombined
	case hasMode:
		return TierUIMode
	case o.HasScreen:
		return TierScreen
	default:
		return 0
	}
}

// Matches reports whether every condition of o holds for c.
func (o Override) Matches(c screen.Config) bool {
	if o.UIMode != screen.UIModeUnspecified && o.UIMode != c.UIMode {
		return false
	}
	if o.HasScreen && !o.Screen.Matches(c) {
		return false
	}
	return o.Tier() != 0
}

// Resolve returns the value of the highest-priority override matching c.
// Within a tier the larger threshold wins and remaining ties go to the
// earliest entry. It makes a single pass and does not allocate.
func Resolve(c screen.Config, overrides []Override) (float32, bool) {
	best := -1
	var bestTier Tier
	var bestThreshold float32

	for i := range overrides {
		o := &overrides[i]
		if !o.Matches(c) {
			continue
		}
		tier := o.Tier()
		threshold := o.Screen.Threshold
		if !o.HasScreen {
			threshold = 0
		}
		if best < 0 || tier < bestTier || (tier == bestTier && threshold > bestThreshold) {
			best, bestTier, bestThreshold = i, tier, threshold
		}
	}

	if best < 0 {
		return 0, false
	}
	return overrides[best].Value, true
}
