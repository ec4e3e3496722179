// Package screen describes display geometry snapshots and the adjustment
// factors derived from them.
//
// A Config is an immutable value created whenever the host reports a
// geometry change. Every dimension is expressed in density-independent
// units; Density converts units to physical pixels.
package screen

import "fmt"

// UIMode is the kind of device the UI is running on.
type UIMode uint8

const (
	UIModeUnspecified UIMode = iota
	UIModeNormal
	UIModeCar
	UIModeTelevision
	UIModeWatch
	UIModeDesk
	UIModeAppliance
	UIModeVRHeadset
)

var uiModeNames = [...]string{
	UIModeUnspecified: "unspecified",
	UIModeNormal:      "normal",
	UIModeCar:         "car",
	UIModeTelevision:  "television",
	UIModeWatch:       "watch",
	UIModeDesk:        "desk",
	UIModeAppliance:   "appliance",
	UIModeVRHeadset:   "vr_headset",
}

// String returns the string representation of the UI mode
func (m UIMode) String() string {
	if int(m) < len(uiModeNames) {
		return uiModeNames[m]
	}
	return "unknown"
}

// ParseUIMode maps a name produced by String back to its UIMode.
func ParseUIMode(name string) (UIMode, error) {
	for i, n := range uiModeNames {
		if n == name {
			return UIMode(i), nil
		}
	}
	return UIModeUnspecified, fmt.Errorf("unknown ui mode %q", name)
}

// Orientation is either a device orientation or, when used as a base
// orientation, the orientation a design was authored for.
type Orientation uint8

const (
	OrientationAuto Orientation = iota
	OrientationPortrait
	OrientationLandscape
)

// String returns the string representation of the orientation
func (o Orientation) String() string {
	switch o {
	case OrientationAuto:
		return "auto"
	case OrientationPortrait:
		return "portrait"
	case OrientationLandscape:
		return "landscape"
	default:
		return "unknown"
	}
}

// ParseOrientation maps "auto", "portrait" or "landscape" to an Orientation.
func ParseOrientation(name string) (Orientation, error) {
	switch name {
	case "auto", "":
		return OrientationAuto, nil
	case "portrait":
		return OrientationPortrait, nil
	case "landscape":
		return OrientationLandscape, nil
	}
	return OrientationAuto, fmt.Errorf("unknown orientation %q", name)
}

// Type selects which of the two screen axes a value scales against.
type Type uint8

const (
	TypeLowest Type = iota
	TypeHighest
)

// String returns the string representation of the screen type
func (t Type) String() string {
	if t == TypeHighest {
		return "highest"
	}
	return "lowest"
}

// Invert swaps lowest and highest.
func (t Type) Invert() Type {
	if t == TypeHighest {
		return TypeLowest
	}
	return TypeHighest
}

// ParseType maps "lowest" or "highest" to a Type.
func ParseType(name string) (Type, error) {
	switch name {
	case "lowest", "":
		return TypeLowest, nil
	case "highest":
		return TypeHighest, nil
	}
	return TypeLowest, fmt.Errorf("unknown screen type %q", name)
}

// Config is an immutable snapshot of the display geometry.
type Config struct {
	Width         float32
	Height        float32
	SmallestWidth float32
	Density       float32
	UIMode        UIMode
	MultiWindow   bool
}

// New builds a Config. Negative dimensions are clamped to zero, a zero
// smallest width defaults to the lower of width and height, and a
// non-positive density defaults to 1.
func New(width, height, density float32, mode UIMode) Config {
	c := Config{
		Width:   nonNegative(width),
		Height:  nonNegative(height),
		Density: density,
		UIMode:  mode,
	}
	if c.Density <= 0 {
		c.Density = 1
	}
	c.SmallestWidth = c.Lowest()
	return c
}

// WithSmallestWidth returns a copy of c with an explicit smallest width,
// as reported by hosts that exclude system decorations from it.
func (c Config) WithSmallestWidth(sw float32) Config {
	c.SmallestWidth = nonNegative(sw)
	return c
}

// WithMultiWindow returns a copy of c flagged as running in a split or
// freeform window.
func (c Config) WithMultiWindow(on bool) Config {
	c.MultiWindow = on
	return c
}

// Lowest returns the smaller of the two axes.
func (c Config) Lowest() float32 {
	if c.Width < c.Height {
		return c.Width
	}
	return c.Height
}

// Highest returns the larger of the two axes.
func (c Config) Highest() float32 {
	if c.Width > c.Height {
		return c.Width
	}
	return c.Height
}

// Orientation reports landscape when the width exceeds the height.
func (c Config) Orientation() Orientation {
	if c.Width > c.Height {
		return OrientationLandscape
	}
	return OrientationPortrait
}

// Degenerate reports whether either axis is zero, as during a transient
// layout pass before the host has measured anything.
func (c Config) Degenerate() bool {
	return c.Width <= 0 || c.Height <= 0
}

// SameGeometry reports whether c and o describe the same logical size and
// density, ignoring which axis is currently the width. An orientation
// flip therefore keeps SameGeometry true.
func (c Config) SameGeometry(o Config) bool {
	if c.Density != o.Density {
		return false
	}
	return c.Lowest() == o.Lowest() && c.Highest() == o.Highest()
}

// String implements fmt.Stringer.
func (c Config) String() string {
	return fmt.Sprintf("%gx%g@%gx sw=%g mode=%s", c.Width, c.Height, c.Density, c.SmallestWidth, c.UIMode)
}

func nonNegative(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	return v
}
