package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/dimens/internal/config"
	"github.com/conneroisu/dimens/internal/engine"
	"github.com/conneroisu/dimens/internal/errors"
	"github.com/conneroisu/dimens/internal/screen"
	"github.com/conneroisu/dimens/internal/strategy"
)

type calcOptions struct {
	root   *rootOptions
	screen screenFlags
	output OutputFormat

	kind        strategy.Kind
	element     strategy.Element
	screenType  screen.Type
	orientation screen.Orientation
	profile     string

	sensitivity, exponent, transition float64
	fluid                             string
	min, max, maxMm                   float32
}

// calcResult is one calculated value and what produced it.
type calcResult struct {
	Base     float32 `json:"base" yaml:"base"`
	Value    float32 `json:"value" yaml:"value"`
	Pixels   float32 `json:"pixels" yaml:"pixels"`
	Strategy string  `json:"strategy" yaml:"strategy"`
	Profile  string  `json:"profile,omitempty" yaml:"profile,omitempty"`
	Screen   string  `json:"screen" yaml:"screen"`
}

func newCalcCommand(root *rootOptions) *cobra.Command {
	o := &calcOptions{root: root}

	cmd := &cobra.Command{
		Use:   "calc <base>",
		Short: "Scale one base value for a screen",
		Long: `Scale a design-time value for the given screen.

Either name a profile from the profile file with --profile, or describe the
calculation with flags. Without --strategy, the strategy is inferred from
--element.

Examples:
  dimens calc 16 --width 411 --height 731 --density 2.625
  dimens calc 16 --element text --width 1280 --height 800
  dimens calc 24 --strategy fluid --fluid 16,32,320,1280 --width 800
  dimens calc 14 --profile title --profile-file profiles.yml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: o.run,
	}

	o.screen.add(cmd)
	addOutputFlag(cmd, &o.output)

	fs := cmd.Flags()
	fs.Var(newEnumValue(&o.kind, strategy.ParseKind, "strategy"), "strategy", "scaling strategy (default inferred from --element)")
	fs.Var(newEnumValue(&o.element, strategy.ParseElement, "element"), "element", "element hint used to infer the strategy")
	fs.Var(newEnumValue(&o.screenType, screen.ParseType, "type"), "screen-type", "axis to scale against (lowest, highest)")
	fs.Var(newEnumValue(&o.orientation, screen.ParseOrientation, "orientation"), "orientation",
		"orientation the design was authored for (auto, portrait, landscape)")
	fs.StringVar(&o.profile, "profile", "", "use a named profile from the profile file")
	fs.Float64Var(&o.sensitivity, "sensitivity", strategy.DefaultSensitivity, "logarithmic sensitivity")
	fs.Float64Var(&o.exponent, "exponent", strategy.DefaultExponent, "power exponent")
	fs.Float64Var(&o.transition, "transition-point", strategy.DefaultTransitionPoint, "balanced transition point")
	fs.StringVar(&o.fluid, "fluid", "", "fluid range as minValue,maxValue,minWidth,maxWidth")
	fs.Float32Var(&o.min, "min", 0, "lower bound of the result")
	fs.Float32Var(&o.max, "max", 0, "upper bound of the result")
	fs.Float32Var(&o.maxMm, "max-mm", 0, "physical upper bound in millimetres")

	return cmd
}

func (o *calcOptions) run(cmd *cobra.Command, args []string) error {
	base, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return fmt.Errorf("invalid base value %q: %w", args[0], err)
	}

	a, err := o.root.load(cmd)
	if err != nil {
		return err
	}

	cfg := o.screen.config()
	res := calcResult{Base: float32(base), Screen: cfg.String()}

	if o.profile != "" {
		p, err := o.namedProfile(cmd, a.cfg)
		if err != nil {
			return err
		}
		res.Value = a.engine.Calculate(res.Base, p, cfg)
		res.Strategy = p.Strategy().String()
		res.Profile = p.Name()
	} else {
		req, err := o.request(cmd, res.Base, cfg)
		if err != nil {
			return err
		}
		res.Value = a.engine.CalculateWith(req)
		res.Strategy = strategy.Resolve(req.Strategy, req.Element).String()
	}
	res.Pixels = res.Value * cfg.Density

	a.logger.Debug(cmd.Context(), "calculated", "base", res.Base, "value", res.Value, "strategy", res.Strategy)

	if o.output == OutputTable {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), formatValue(res.Value))
		return err
	}
	return writeStructured(cmd.OutOrStdout(), o.output, res)
}

var profileExclusive = []string{
	"strategy", "element", "screen-type", "orientation", "sensitivity", "exponent",
	"transition-point", "fluid", "min", "max", "max-mm",
}

func (o *calcOptions) namedProfile(cmd *cobra.Command, cfg *config.Config) (*strategy.Profile, error) {
	for _, name := range profileExclusive {
		if cmd.Flags().Changed(name) {
			return nil, fmt.Errorf("--%s cannot be combined with --profile", name)
		}
	}
	if cfg.Profiles.File == "" {
		return nil, errors.NewValidationError(errors.ErrCodeFileNotFound,
			"--profile needs a profile file; set --profile-file or profiles.file")
	}
	set, err := config.LoadProfiles(cfg.Profiles.File)
	if err != nil {
		return nil, err
	}
	return set.Get(o.profile)
}

// request builds an ad-hoc calculation from the flags, validating the
// parameters the same way a profile would.
func (o *calcOptions) request(cmd *cobra.Command, base float32, cfg screen.Config) (engine.Request, error) {
	opts := []strategy.Option{
		strategy.WithSensitivity(o.sensitivity),
		strategy.WithExponent(o.exponent),
		strategy.WithTransitionPoint(o.transition),
	}
	if o.fluid != "" {
		v, err := parseFluid(o.fluid)
		if err != nil {
			return engine.Request{}, err
		}
		opts = append(opts, strategy.WithFluid(v[0], v[1], v[2], v[3]))
	}
	params, err := strategy.NewParams(opts...)
	if err != nil {
		return engine.Request{}, err
	}

	var c strategy.Constraints
	fs := cmd.Flags()
	if fs.Changed("min") {
		c = c.WithMin(o.min)
	}
	if fs.Changed("max") {
		c = c.WithMax(o.max)
	}
	if fs.Changed("max-mm") {
		c = c.WithMaxPhysicalMm(o.maxMm)
	}
	if err := c.Validate().Err(); err != nil {
		return engine.Request{}, err
	}

	if strategy.Resolve(o.kind, o.element) == strategy.KindFluid && o.fluid == "" {
		return engine.Request{}, errors.NewValidationError(errors.ErrCodeInvalidParams,
			"fluid strategy requires --fluid minValue,maxValue,minWidth,maxWidth")
	}

	return engine.Request{
		BaseValue:       base,
		Strategy:        o.kind,
		Element:         o.element,
		Screen:          cfg,
		ScreenType:      o.screenType,
		BaseOrientation: o.orientation,
		Params:          &params,
		Constraints:     c,
	}, nil
}

func parseFluid(s string) ([4]float64, error) {
	var out [4]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return out, fmt.Errorf("--fluid wants 4 comma-separated numbers, got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, fmt.Errorf("--fluid: invalid number %q", p)
		}
		out[i] = v
	}
	return out, nil
}
