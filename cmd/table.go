package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/dimens/internal/config"
	"github.com/conneroisu/dimens/internal/engine"
	"github.com/conneroisu/dimens/internal/screen"
	"github.com/conneroisu/dimens/internal/strategy"
)

type tableOptions struct {
	root    *rootOptions
	screens *screenList
	output  OutputFormat
	base    float32
	density float32
	fluid   string
}

// tableRow is one strategy or profile evaluated on every screen.
type tableRow struct {
	Name   string      `json:"name" yaml:"name"`
	Values []tableCell `json:"values" yaml:"values"`
}

type tableCell struct {
	Screen string  `json:"screen" yaml:"screen"`
	Value  float32 `json:"value" yaml:"value"`
}

func newTableCommand(root *rootOptions) *cobra.Command {
	o := &tableOptions{root: root, screens: newScreenList(defaultScreens)}

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Compare strategies or profiles across screens",
		Long: `Print a base value scaled by every strategy for a list of screens.

When a profile file is configured, each profile is a row instead.

Examples:
  dimens table --base 16
  dimens table --screens 360x640,1280x800 -o json
  dimens table --profile-file profiles.yml`,
		Args: cobra.NoArgs,
		RunE: o.run,
	}

	fs := cmd.Flags()
	fs.Var(o.screens, "screens", "comma-separated WIDTHxHEIGHT screens")
	fs.Float32Var(&o.base, "base", 16, "base value")
	fs.Float32Var(&o.density, "density", 1, "pixels per unit for every screen")
	fs.StringVar(&o.fluid, "fluid", "", "fluid range as minValue,maxValue,minWidth,maxWidth (fluid is skipped without it)")
	addOutputFlag(cmd, &o.output)
	AddFlagValidation(cmd, "density", ValidatePositive)

	return cmd
}

func (o *tableOptions) run(cmd *cobra.Command, _ []string) error {
	a, err := o.root.load(cmd)
	if err != nil {
		return err
	}

	var profiles []*strategy.Profile
	if a.cfg.Profiles.File != "" {
		set, err := config.LoadProfiles(a.cfg.Profiles.File)
		if err != nil {
			return err
		}
		profiles = set.Profiles()
	} else {
		profiles, err = o.strategyProfiles()
		if err != nil {
			return err
		}
	}

	rows := evaluate(a.engine, o.base, profiles, o.screens.withDensity(o.density))
	if o.output != OutputTable {
		return writeStructured(cmd.OutOrStdout(), o.output, rows)
	}
	return writeRows(cmd, o.screens.screens, rows)
}

// strategyProfiles returns one profile per concrete strategy.
func (o *tableOptions) strategyProfiles() ([]*strategy.Profile, error) {
	var fluid []strategy.Option
	if o.fluid != "" {
		v, err := parseFluid(o.fluid)
		if err != nil {
			return nil, err
		}
		fluid = append(fluid, strategy.WithFluid(v[0], v[1], v[2], v[3]))
	}
	params, err := strategy.NewParams(fluid...)
	if err != nil {
		return nil, err
	}

	var out []*strategy.Profile
	for _, k := range strategy.Kinds() {
		if k == strategy.KindFluid && o.fluid == "" {
			continue
		}
		p, err := strategy.NewProfileBuilder(k.String()).Strategy(k).Params(params).Build()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func evaluate(e *engine.Engine, base float32, profiles []*strategy.Profile, screens []screen.Config) []tableRow {
	rows := make([]tableRow, 0, len(profiles))
	for _, p := range profiles {
		row := tableRow{Name: p.Name(), Values: make([]tableCell, 0, len(screens))}
		for _, s := range screens {
			row.Values = append(row.Values, tableCell{
				Screen: screenLabel(s),
				Value:  e.Calculate(base, p, s),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func writeRows(cmd *cobra.Command, screens []screen.Config, rows []tableRow) error {
	header := make([]string, 0, len(screens)+1)
	header = append(header, "NAME")
	for _, s := range screens {
		header = append(header, screenLabel(s))
	}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, 0, len(r.Values)+1)
		line = append(line, displayName(r.Name))
		for _, c := range r.Values {
			line = append(line, formatValue(c.Value))
		}
		cells = append(cells, line)
	}
	return writeTable(cmd.OutOrStdout(), header, cells)
}
