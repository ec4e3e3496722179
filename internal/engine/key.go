package engine

import (
	"github.com/conneroisu/dimens/internal/fnv1a"
	"github.com/conneroisu/dimens/internal/screen"
	"github.com/conneroisu/dimens/internal/strategy"
)

// Key folds everything that determines a calculated value into a 32-bit
// FNV-1a hash: the base value bits, the screen width, height and smallest
// width, the strategy and element ordinals, then the density, UI mode,
// axis selection and the profile fingerprint. Width and height are hashed
// as given, so an orientation flip produces different keys rather than
// reusing entries computed for the other orientation.
func Key(
	base float32,
	cfg screen.Config,
	kind strategy.Kind,
	element strategy.Element,
	sel strategy.Selection,
	fingerprint uint32,
) uint32 {
	return fnv1a.New().
		Float32(base).
		Float32(cfg.Width).
		Float32(cfg.Height).
		Float32(cfg.SmallestWidth).
		Byte(byte(kind)).
		Byte(byte(element)).
		Float32(cfg.Density).
		Byte(byte(cfg.UIMode)).
		Byte(byte(sel.Type)).
		Byte(byte(sel.Base)).
		Uint32(fingerprint).
		Sum32()
}
