package strategy

import "fmt"

// Kind is one of the closed set of scaling strategies. The zero value,
// KindUnspecified, asks the caller to infer a strategy from an Element.
type Kind uint8

const (
	KindUnspecified Kind = iota
	KindNone
	KindDefault
	KindPercentage
	KindBalanced
	KindLogarithmic
	KindPower
	KindFluid
	KindInterpolated
	KindDiagonal
	KindPerimeter
	KindFit
	KindFill
	KindAutoSize

	numKinds
)

var kindNames = [numKinds]string{
	KindUnspecified:  "unspecified",
	KindNone:         "none",
	KindDefault:      "default",
	KindPercentage:   "percentage",
	KindBalanced:     "balanced",
	KindLogarithmic:  "logarithmic",
	KindPower:        "power",
	KindFluid:        "fluid",
	KindInterpolated: "interpolated",
	KindDiagonal:     "diagonal",
	KindPerimeter:    "perimeter",
	KindFit:          "fit",
	KindFill:         "fill",
	KindAutoSize:     "auto_size",
}

// String returns the string representation of the strategy kind
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "unknown"
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k < numKinds
}

// Kinds returns every concrete strategy, excluding KindUnspecified.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := KindNone; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind maps a name produced by String back to its Kind.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return KindUnspecified, fmt.Errorf("unknown strategy %q", name)
}

// Element is a hint describing what a value is used for. It selects a
// strategy when none is given explicitly.
type Element uint8

const (
	ElementUnspecified Element = iota
	ElementText
	ElementButton
	ElementIcon
	ElementContainer
	ElementDivider
	ElementSpacing
	ElementCard
	ElementImage
	ElementBackground
	ElementToolbar
	ElementDialog
	ElementGrid

	numElements
)

var elementNames = [numElements]string{
	ElementUnspecified: "unspecified",
	ElementText:        "text",
	ElementButton:      "button",
	ElementIcon:        "icon",
	ElementContainer:   "container",
	ElementDivider:     "divider",
	ElementSpacing:     "spacing",
	ElementCard:        "card",
	ElementImage:       "image",
	ElementBackground:  "background",
	ElementToolbar:     "toolbar",
	ElementDialog:      "dialog",
	ElementGrid:        "grid",
}

// inference is the fixed element to strategy lookup table.
var inference = [numElements]Kind{
	ElementUnspecified: KindDefault,
	ElementText:        KindBalanced,
	ElementButton:      KindBalanced,
	ElementIcon:        KindDefault,
	ElementContainer:   KindPercentage,
	ElementDivider:     KindNone,
	ElementSpacing:     KindBalanced,
	ElementCard:        KindBalanced,
	ElementImage:       KindFit,
	ElementBackground:  KindFill,
	ElementToolbar:     KindDefault,
	ElementDialog:      KindBalanced,
	ElementGrid:        KindPercentage,
}

// String returns the string representation of the element
func (e Element) String() string {
	if e < numElements {
		return elementNames[e]
	}
	return "unknown"
}

// Elements returns every element hint, excluding ElementUnspecified.
func Elements() []Element {
	out := make([]Element, 0, numElements-1)
	for e := ElementText; e < numElements; e++ {
		out = append(out, e)
	}
	return out
}

// ParseElement maps a name produced by String back to its Element.
func ParseElement(name string) (Element, error) {
	for i, n := range elementNames {
		if n == name {
			return Element(i), nil
		}
	}
	return ElementUnspecified, fmt.Errorf("unknown element %q", name)
}

// Infer returns the strategy for e. Unknown elements get KindDefault.
func Infer(e Element) Kind {
	if e < numElements {
		return inference[e]
	}
	return KindDefault
}

// Resolve returns k unless it is KindUnspecified, in which case the
// strategy is inferred from e.
func Resolve(k Kind, e Element) Kind {
	if k == KindUnspecified || !k.Valid() {
		return Infer(e)
	}
	return k
}
