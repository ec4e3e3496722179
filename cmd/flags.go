package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conneroisu/dimens/internal/screen"
	"github.com/conneroisu/dimens/internal/strategy"
)

// enumValue adapts a parse function and a Stringer to pflag.Value so that
// invalid names fail while flags are parsed.
type enumValue[T fmt.Stringer] struct {
	value    *T
	parse    func(string) (T, error)
	typeName string
}

func newEnumValue[T fmt.Stringer](p *T, parse func(string) (T, error), typeName string) *enumValue[T] {
	return &enumValue[T]{value: p, parse: parse, typeName: typeName}
}

func (e *enumValue[T]) String() string {
	if e.value == nil {
		return ""
	}
	return (*e.value).String()
}

func (e *enumValue[T]) Set(s string) error {
	v, err := e.parse(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	*e.value = v
	return nil
}

func (e *enumValue[T]) Type() string { return e.typeName }

var _ pflag.Value = (*enumValue[strategy.Kind])(nil)

// OutputFormat selects how commands print results.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

func (f OutputFormat) String() string { return string(f) }

func parseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputTable, OutputJSON, OutputYAML:
		return OutputFormat(s), nil
	case "text":
		return OutputTable, nil
	}
	return OutputTable, fmt.Errorf("invalid output format %q, must be one of: table, json, yaml", s)
}

func addOutputFlag(cmd *cobra.Command, f *OutputFormat) {
	*f = OutputTable
	cmd.Flags().VarP(newEnumValue(f, parseOutputFormat, "format"), "output", "o", "Output format (table|json|yaml)")
}

// screenFlags describe one screen on the command line.
type screenFlags struct {
	width, height, density, smallestWidth float32
	uiMode                                screen.UIMode
	multiWindow                           bool
}

func (s *screenFlags) add(cmd *cobra.Command) {
	fs := cmd.Flags()
	s.uiMode = screen.UIModeNormal
	fs.Float32Var(&s.width, "width", screen.BaseReferenceWidth, "screen width in units")
	fs.Float32Var(&s.height, "height", screen.BaseReferenceHeight, "screen height in units")
	fs.Float32Var(&s.density, "density", 1, "pixels per unit")
	fs.Float32Var(&s.smallestWidth, "smallest-width", 0, "smallest width reported by the host (default min(width, height))")
	fs.Var(newEnumValue(&s.uiMode, screen.ParseUIMode, "mode"), "ui-mode",
		"UI mode (normal, car, television, watch, desk, appliance, vr_headset)")
	fs.BoolVar(&s.multiWindow, "multi-window", false, "the app runs in a split or freeform window")

	AddFlagValidation(cmd, "density", ValidatePositive)
	AddFlagValidation(cmd, "width", ValidateNonNegative)
	AddFlagValidation(cmd, "height", ValidateNonNegative)
}

func (s *screenFlags) config() screen.Config {
	c := screen.New(s.width, s.height, s.density, s.uiMode).WithMultiWindow(s.multiWindow)
	if s.smallestWidth > 0 {
		c = c.WithSmallestWidth(s.smallestWidth)
	}
	return c
}

// screenList is a comma-separated list of WxH screens.
type screenList struct {
	screens []screen.Config
}

func newScreenList(defaults string) *screenList {
	l := &screenList{}
	if err := l.Set(defaults); err != nil {
		panic(err)
	}
	return l
}

func (l *screenList) String() string {
	parts := make([]string, len(l.screens))
	for i, s := range l.screens {
		parts[i] = screenLabel(s)
	}
	return strings.Join(parts, ",")
}

// Set replaces the list. pflag calls it once per flag occurrence.
func (l *screenList) Set(v string) error {
	var out []screen.Config
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		w, h, ok := strings.Cut(strings.ToLower(part), "x")
		if !ok {
			return fmt.Errorf("invalid screen %q, want WIDTHxHEIGHT", part)
		}
		width, err := strconv.ParseFloat(w, 32)
		if err != nil || width <= 0 {
			return fmt.Errorf("invalid width in %q", part)
		}
		height, err := strconv.ParseFloat(h, 32)
		if err != nil || height <= 0 {
			return fmt.Errorf("invalid height in %q", part)
		}
		out = append(out, screen.New(float32(width), float32(height), 1, screen.UIModeNormal))
	}
	if len(out) == 0 {
		return fmt.Errorf("no screens in %q", v)
	}
	l.screens = out
	return nil
}

func (l *screenList) Type() string { return "screens" }

// withDensity returns the screens with density applied.
func (l *screenList) withDensity(d float32) []screen.Config {
	out := make([]screen.Config, len(l.screens))
	for i, s := range l.screens {
		out[i] = screen.New(s.Width, s.Height, d, s.UIMode)
	}
	return out
}

func screenLabel(s screen.Config) string {
	return strconv.FormatFloat(float64(s.Width), 'g', -1, 32) + "x" +
		strconv.FormatFloat(float64(s.Height), 'g', -1, 32)
}

const defaultScreens = "320x568,360x640,411x731,600x1024,768x1024,1024x768,1280x800,1920x1080"

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:       flag.Value,
		validator:   validator,
		originalSet: flag.Value.Set,
	}
}

type validatingValue struct {
	pflag.Value
	validator   func(string) error
	originalSet func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.originalSet(val)
}

// ValidatePositive accepts numbers > 0.
func ValidatePositive(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number: %s", s)
	}
	if !(f > 0) {
		return fmt.Errorf("must be > 0, got %s", s)
	}
	return nil
}

// ValidateNonNegative accepts numbers >= 0.
func ValidateNonNegative(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number: %s", s)
	}
	if !(f >= 0) {
		return fmt.Errorf("must be >= 0, got %s", s)
	}
	return nil
}
