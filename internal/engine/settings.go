package engine

import (
	"time"

	"github.com/conneroisu/dimens/internal/cache"
	"github.com/conneroisu/dimens/internal/errors"
	"github.com/conneroisu/dimens/internal/screen"
)

// Settings are the process-wide switches of an Engine. They are built
// once at startup and passed to New; nothing reads them from global state.
type Settings struct {
	CacheEnabled  bool          `json:"cache_enabled" yaml:"cache_enabled"`
	CacheCapacity int           `json:"cache_capacity" yaml:"cache_capacity"`
	CacheTTL      time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// AspectRatio enables aspect-ratio correction for profiles that ask
	// for it. ARSensitivity is the default sensitivity for calls that do
	// not carry their own.
	AspectRatio   bool    `json:"aspect_ratio" yaml:"aspect_ratio"`
	ARSensitivity float64 `json:"ar_sensitivity" yaml:"ar_sensitivity"`

	// IgnoreMultiWindow returns base values unscaled while the app runs in
	// a split or freeform window, where the window size says little about
	// the physical display.
	IgnoreMultiWindow bool `json:"ignore_multi_window" yaml:"ignore_multi_window"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		CacheEnabled:      true,
		CacheCapacity:     cache.DefaultCapacity,
		CacheTTL:          cache.DefaultTTL,
		AspectRatio:       true,
		ARSensitivity:     screen.DefaultARSensitivity,
		IgnoreMultiWindow: true,
	}
}

// Validate reports every invalid field.
func (s Settings) Validate() error {
	errs := &errors.ValidationErrorCollection{}
	code := errors.ErrCodeInvalidSettings

	if s.CacheCapacity < cache.MinCapacity || s.CacheCapacity > cache.MaxCapacity {
		errs.AddField(code, "cache.capacity", s.CacheCapacity,
			"must be between 256 and 4096")
	} else if s.CacheCapacity&(s.CacheCapacity-1) != 0 {
		errs.AddField(code, "cache.capacity", s.CacheCapacity,
			"must be a power of two", "use 256, 512, 1024, 2048 or 4096")
	}
	if s.CacheTTL < 0 {
		errs.AddField(code, "cache.ttl", s.CacheTTL, "must not be negative")
	}
	if s.ARSensitivity < 0 || s.ARSensitivity != s.ARSensitivity {
		errs.AddField(code, "aspect_ratio.sensitivity", s.ARSensitivity, "must be >= 0")
	}

	return errs.Err()
}
