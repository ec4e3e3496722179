package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/dimens/internal/errors"
	"github.com/conneroisu/dimens/internal/qualifier"
	"github.com/conneroisu/dimens/internal/screen"
	"github.com/conneroisu/dimens/internal/strategy"
)

// ProfileFile is the on-disk layout of a profile file.
//
//	profiles:
//	  - name: title
//	    element: text
//	    constraints: {max: 40}
//	    overrides:
//	      - ui_mode: television
//	        value: 48
type ProfileFile struct {
	Profiles []ProfileDoc `json:"profiles" yaml:"profiles"`
}

// ProfileDoc describes one profile. Optional numeric fields are pointers
// so that an absent key keeps the default.
type ProfileDoc struct {
	Name        string          `json:"name" yaml:"name"`
	Strategy    string          `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Element     string          `json:"element,omitempty" yaml:"element,omitempty"`
	ScreenType  string          `json:"screen_type,omitempty" yaml:"screen_type,omitempty"`
	Orientation string          `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Params      *ParamsDoc      `json:"params,omitempty" yaml:"params,omitempty"`
	Constraints *ConstraintsDoc `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Overrides   []OverrideDoc   `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// ParamsDoc holds the tuning parameters of a profile. Unset fields keep
// their defaults.
type ParamsDoc struct {
	Sensitivity     *float64  `json:"sensitivity,omitempty" yaml:"sensitivity,omitempty"`
	Exponent        *float64  `json:"exponent,omitempty" yaml:"exponent,omitempty"`
	TransitionPoint *float64  `json:"transition_point,omitempty" yaml:"transition_point,omitempty"`
	AspectRatio     *bool     `json:"aspect_ratio,omitempty" yaml:"aspect_ratio,omitempty"`
	ARSensitivity   *float64  `json:"aspect_ratio_sensitivity,omitempty" yaml:"aspect_ratio_sensitivity,omitempty"`
	Fluid           *FluidDoc `json:"fluid,omitempty" yaml:"fluid,omitempty"`
}

// FluidDoc is the value and width range of the fluid strategy.
type FluidDoc struct {
	MinValue float64 `json:"min_value" yaml:"min_value"`
	MaxValue float64 `json:"max_value" yaml:"max_value"`
	MinWidth float64 `json:"min_width" yaml:"min_width"`
	MaxWidth float64 `json:"max_width" yaml:"max_width"`
}

// ConstraintsDoc bounds a profile's result.
type ConstraintsDoc struct {
	Min   *float32 `json:"min,omitempty" yaml:"min,omitempty"`
	Max   *float32 `json:"max,omitempty" yaml:"max,omitempty"`
	MaxMm *float32 `json:"max_mm,omitempty" yaml:"max_mm,omitempty"`
}

// OverrideDoc replaces the formula with Value when its UI mode or
// screen-size qualifier matches.
type OverrideDoc struct {
	UIMode string     `json:"ui_mode,omitempty" yaml:"ui_mode,omitempty"`
	Screen *ScreenDoc `json:"screen,omitempty" yaml:"screen,omitempty"`
	Value  float32    `json:"value" yaml:"value"`
}

// ScreenDoc is a smallest-width, width or height threshold qualifier.
type ScreenDoc struct {
	Kind      string  `json:"kind" yaml:"kind"`
	Threshold float32 `json:"threshold" yaml:"threshold"`
}

// ProfileSet is a validated, name-indexed set of profiles in file order.
type ProfileSet struct {
	byName map[string]*strategy.Profile
	order  []string
}

// Get returns the named profile.
func (s *ProfileSet) Get(name string) (*strategy.Profile, error) {
	if p, ok := s.byName[name]; ok {
		return p, nil
	}
	known := append([]string(nil), s.order...)
	sort.Strings(known)
	return nil, errors.NewValidationError(errors.ErrCodeProfileNotFound,
		fmt.Sprintf("profile %q not found", name)).
		WithContext("known", known)
}

// Names returns the profile names in file order.
func (s *ProfileSet) Names() []string { return append([]string(nil), s.order...) }

// Profiles returns the profiles in file order.
func (s *ProfileSet) Profiles() []*strategy.Profile {
	out := make([]*strategy.Profile, len(s.order))
	for i, name := range s.order {
		out[i] = s.byName[name]
	}
	return out
}

// Len returns the number of profiles.
func (s *ProfileSet) Len() int { return len(s.order) }

// LoadProfiles reads and validates the profile file at path.
func LoadProfiles(path string) (*ProfileSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound, "profile file not found", err).
				WithContext("path", path)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound, "cannot open profile file", err).
			WithContext("path", path)
	}
	defer f.Close()

	set, err := DecodeProfiles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ParseProfiles decodes and validates a profile document.
func ParseProfiles(data []byte) (*ProfileSet, error) {
	return DecodeProfiles(bytes.NewReader(data))
}

// DecodeProfiles decodes a profile document from r. Unknown keys are
// rejected. Every invalid profile is reported, not just the first.
func DecodeProfiles(r io.Reader) (*ProfileSet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file ProfileFile
	if err := dec.Decode(&file); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.NewConfigError(errors.ErrCodeMalformedFile, "malformed profile file", err)
	}

	set := &ProfileSet{byName: make(map[string]*strategy.Profile, len(file.Profiles))}
	errs := &errors.ValidationErrorCollection{}

	for i, doc := range file.Profiles {
		field := fmt.Sprintf("profiles[%d]", i)
		if doc.Name == "" {
			errs.AddField(errors.ErrCodeInvalidParams, field+".name", "", "profile name is required")
			continue
		}
		if _, dup := set.byName[doc.Name]; dup {
			errs.AddField(errors.ErrCodeDuplicateProfile, field+".name", doc.Name, "duplicate profile name")
			continue
		}

		p, docErrs := doc.Build()
		if docErrs != nil {
			errs.Merge(field, docErrs)
			continue
		}
		set.byName[doc.Name] = p
		set.order = append(set.order, doc.Name)
	}

	if err := errs.Err(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidParams, "invalid profile file", err)
	}
	return set, nil
}

// Build converts the document into a validated profile. It returns the
// collected problems instead of an error so that callers can merge them.
func (d ProfileDoc) Build() (*strategy.Profile, *errors.ValidationErrorCollection) {
	errs := &errors.ValidationErrorCollection{}
	b := strategy.NewProfileBuilder(d.Name)

	if d.Strategy != "" {
		k, err := strategy.ParseKind(d.Strategy)
		if err != nil {
			errs.AddField(errors.ErrCodeUnknownName, "strategy", d.Strategy, err.Error(),
				strategyNames()...)
		}
		b.Strategy(k)
	}
	if d.Element != "" {
		e, err := strategy.ParseElement(d.Element)
		if err != nil {
			errs.AddField(errors.ErrCodeUnknownName, "element", d.Element, err.Error())
		}
		b.Element(e)
	}
	if d.ScreenType != "" {
		t, err := screen.ParseType(d.ScreenType)
		if err != nil {
			errs.AddField(errors.ErrCodeUnknownName, "screen_type", d.ScreenType, err.Error(),
				"lowest", "highest")
		}
		b.ScreenType(t)
	}
	if d.Orientation != "" {
		o, err := screen.ParseOrientation(d.Orientation)
		if err != nil {
			errs.AddField(errors.ErrCodeUnknownName, "orientation", d.Orientation, err.Error(),
				"auto", "portrait", "landscape")
		}
		b.BaseOrientation(o)
	}

	if d.Params != nil {
		b.Params(d.Params.params())
	}
	if d.Constraints != nil {
		b.Constraints(d.Constraints.constraints())
	}

	for i, od := range d.Overrides {
		o, err := od.override()
		if err != nil {
			errs.AddField(errors.ErrCodeInvalidOverride, fmt.Sprintf("overrides[%d]", i), od.Value, err.Error())
			continue
		}
		b.Override(o)
	}

	if errs.HasErrors() {
		return nil, errs
	}

	p, err := b.Build()
	if err != nil {
		var vec *errors.ValidationErrorCollection
		if stderrors.As(err, &vec) {
			return nil, vec
		}
		errs.AddField(errors.ErrCodeInvalidParams, "profile", d.Name, err.Error())
		return nil, errs
	}
	return p, nil
}

// params applies the document over the defaults. Validation happens when
// the profile is built.
func (d *ParamsDoc) params() strategy.Params {
	var opts []strategy.Option
	if d.Sensitivity != nil {
		opts = append(opts, strategy.WithSensitivity(*d.Sensitivity))
	}
	if d.Exponent != nil {
		opts = append(opts, strategy.WithExponent(*d.Exponent))
	}
	if d.TransitionPoint != nil {
		opts = append(opts, strategy.WithTransitionPoint(*d.TransitionPoint))
	}
	if d.AspectRatio != nil || d.ARSensitivity != nil {
		on, sens := true, 0.0
		if d.AspectRatio != nil {
			on = *d.AspectRatio
		}
		if d.ARSensitivity != nil {
			sens = *d.ARSensitivity
		}
		opts = append(opts, strategy.WithAspectRatio(on, sens))
	}
	if f := d.Fluid; f != nil {
		opts = append(opts, strategy.WithFluid(f.MinValue, f.MaxValue, f.MinWidth, f.MaxWidth))
	}

	p := strategy.DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (d *ConstraintsDoc) constraints() strategy.Constraints {
	var c strategy.Constraints
	if d.Min != nil {
		c = c.WithMin(*d.Min)
	}
	if d.Max != nil {
		c = c.WithMax(*d.Max)
	}
	if d.MaxMm != nil {
		c = c.WithMaxPhysicalMm(*d.MaxMm)
	}
	return c
}

func (d OverrideDoc) override() (qualifier.Override, error) {
	var mode screen.UIMode
	if d.UIMode != "" {
		m, err := screen.ParseUIMode(d.UIMode)
		if err != nil {
			return qualifier.Override{}, err
		}
		mode = m
	}

	var sq *qualifier.Screen
	if d.Screen != nil {
		kind, err := qualifier.ParseKind(d.Screen.Kind)
		if err != nil {
			return qualifier.Override{}, err
		}
		sq = &qualifier.Screen{Kind: kind, Threshold: d.Screen.Threshold}
	}
	return qualifier.New(mode, sq, d.Value)
}

// Describe converts a profile back into its document form.
func Describe(p *strategy.Profile) ProfileDoc {
	d := ProfileDoc{Name: p.Name()}
	if p.Kind() != strategy.KindUnspecified {
		d.Strategy = p.Kind().String()
	}
	if p.Element() != strategy.ElementUnspecified {
		d.Element = p.Element().String()
	}
	sel := p.Selection()
	if sel.Type != screen.TypeLowest {
		d.ScreenType = sel.Type.String()
	}
	if sel.Base != screen.OrientationAuto {
		d.Orientation = sel.Base.String()
	}

	pr := p.Params()
	sens, exp, tp := pr.Sensitivity(), pr.Exponent(), pr.TransitionPoint()
	ar, arSens := pr.AspectRatio()
	d.Params = &ParamsDoc{
		Sensitivity:     &sens,
		Exponent:        &exp,
		TransitionPoint: &tp,
		AspectRatio:     &ar,
	}
	if pr.ARSensitivitySet() {
		d.Params.ARSensitivity = &arSens
	}
	if minV, maxV, minW, maxW, ok := pr.Fluid(); ok {
		d.Params.Fluid = &FluidDoc{MinValue: minV, MaxValue: maxV, MinWidth: minW, MaxWidth: maxW}
	}

	c := p.Constraints()
	cd := &ConstraintsDoc{}
	if v, ok := c.Min(); ok {
		cd.Min = &v
	}
	if v, ok := c.Max(); ok {
		cd.Max = &v
	}
	if v, ok := c.MaxPhysicalMm(); ok {
		cd.MaxMm = &v
	}
	if cd.Min != nil || cd.Max != nil || cd.MaxMm != nil {
		d.Constraints = cd
	}

	for _, o := range p.Overrides() {
		od := OverrideDoc{Value: o.Value}
		if o.UIMode != screen.UIModeUnspecified {
			od.UIMode = o.UIMode.String()
		}
		if o.HasScreen {
			od.Screen = &ScreenDoc{Kind: o.Screen.Kind.String(), Threshold: o.Screen.Threshold}
		}
		d.Overrides = append(d.Overrides, od)
	}
	return d
}

// MarshalProfiles encodes profiles as a profile document.
func MarshalProfiles(profiles []*strategy.Profile) ([]byte, error) {
	file := ProfileFile{Profiles: make([]ProfileDoc, len(profiles))}
	for i, p := range profiles {
		file.Profiles[i] = Describe(p)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeMalformedFile, "cannot encode profiles", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func strategyNames() []string {
	kinds := strategy.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}
