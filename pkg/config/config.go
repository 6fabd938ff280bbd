// Package config loads PSI/KHI sets, override bindings and run options.
//
// Documents are YAML; JSON is accepted as well. A PSI set lists its edge
// types inline:
//
//	psis:
//	  - id: compliant
//	    rimjoist: 0.3
//	    parapet-convex: 0.35
//	building:
//	  psi: compliant
//	surfaces:
//	  - id: south-wall
//	    khis:
//	      - id: poor (BETBG)
//	        count: 4
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/tbd/pkg/geometry"
	"github.com/dd0wney/tbd/pkg/psi"
)

// ErrInvalidConfig wraps every structural configuration error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Limits on run options.
const (
	MinTolerance = 1e-4
	MaxTolerance = 0.1
	MaxWorkers   = 256
)

// PSIDoc is a PSI set as written in a document.
type PSIDoc struct {
	ID     string             `yaml:"id" json:"id"`
	Values map[string]float64 `yaml:",inline" json:"-"`
}

// KHIDoc is a point thermal bridge entry.
type KHIDoc struct {
	ID    string  `yaml:"id" json:"id"`
	Point float64 `yaml:"point" json:"point"`
}

// BindingDoc assigns a PSI set to a story, space type or space.
type BindingDoc struct {
	ID  string `yaml:"id" json:"id"`
	PSI string `yaml:"psi" json:"psi"`
}

// PointRefDoc counts occurrences of a KHI entry on a surface.
type PointRefDoc struct {
	ID    string `yaml:"id" json:"id"`
	Count int    `yaml:"count" json:"count"`
}

// SurfaceDoc holds per-surface overrides.
type SurfaceDoc struct {
	ID   string        `yaml:"id" json:"id"`
	PSI  string        `yaml:"psi,omitempty" json:"psi,omitempty"`
	KHIs []PointRefDoc `yaml:"khis,omitempty" json:"khis,omitempty"`
}

// EdgeDoc overrides the set, and optionally the type, of the edges shared by
// the listed surfaces. When both endpoints are given only the matching edge
// is affected.
type EdgeDoc struct {
	PSI      string    `yaml:"psi" json:"psi"`
	Type     string    `yaml:"type,omitempty" json:"type,omitempty"`
	Surfaces []string  `yaml:"surfaces" json:"surfaces"`
	V0       []float64 `yaml:"v0,flow,omitempty" json:"v0,omitempty"`
	V1       []float64 `yaml:"v1,flow,omitempty" json:"v1,omitempty"`
}

// OptionsDoc holds run options. Missing values take defaults.
type OptionsDoc struct {
	Parapet   *bool   `yaml:"parapet,omitempty" json:"parapet,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
	Workers   int     `yaml:"workers,omitempty" json:"workers,omitempty"`
}

// Document is the on-disk configuration.
type Document struct {
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	PSIs        []PSIDoc     `yaml:"psis,omitempty" json:"psis,omitempty"`
	KHIs        []KHIDoc     `yaml:"khis,omitempty" json:"khis,omitempty"`
	Building    *BindingDoc  `yaml:"building,omitempty" json:"building,omitempty"`
	Stories     []BindingDoc `yaml:"stories,omitempty" json:"stories,omitempty"`
	SpaceTypes  []BindingDoc `yaml:"spacetypes,omitempty" json:"spacetypes,omitempty"`
	Spaces      []BindingDoc `yaml:"spaces,omitempty" json:"spaces,omitempty"`
	Surfaces    []SurfaceDoc `yaml:"surfaces,omitempty" json:"surfaces,omitempty"`
	Edges       []EdgeDoc    `yaml:"edges,omitempty" json:"edges,omitempty"`
	Options     OptionsDoc   `yaml:"options,omitempty" json:"options,omitempty"`
}

// Load decodes a YAML or JSON document.
func Load(r io.Reader) (*Document, error) {
	var d Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &d, nil
}

// LoadFile decodes the document at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Marshal encodes d as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Validate checks the document structure. Set contents are checked when the
// library is built.
func (d *Document) Validate() error {
	v := NewValidator("config")
	for i, p := range d.PSIs {
		v.Required(fmt.Sprintf("psis[%d].id", i), p.ID)
	}
	for i, k := range d.KHIs {
		v.Required(fmt.Sprintf("khis[%d].id", i), k.ID)
	}
	v.When(d.Building != nil, func(v *Validator) {
		v.Required("building.psi", d.Building.PSI)
	})
	scopes := []struct {
		name     string
		bindings []BindingDoc
	}{
		{"stories", d.Stories},
		{"spacetypes", d.SpaceTypes},
		{"spaces", d.Spaces},
	}
	for _, sc := range scopes {
		for i, b := range sc.bindings {
			v.Required(fmt.Sprintf("%s[%d].id", sc.name, i), b.ID)
			v.Required(fmt.Sprintf("%s[%d].psi", sc.name, i), b.PSI)
		}
	}
	for i, s := range d.Surfaces {
		v.Required(fmt.Sprintf("surfaces[%d].id", i), s.ID)
		for j, k := range s.KHIs {
			v.Required(fmt.Sprintf("surfaces[%d].khis[%d].id", i, j), k.ID)
			v.NonNegative(fmt.Sprintf("surfaces[%d].khis[%d].count", i, j), k.Count)
		}
	}
	for i, e := range d.Edges {
		field := fmt.Sprintf("edges[%d]", i)
		v.Required(field+".psi", e.PSI)
		v.Custom(field, func() error { return e.check() })
	}
	v.When(d.Options.Tolerance != 0, func(v *Validator) {
		v.RangeFloat("options.tolerance", d.Options.Tolerance, MinTolerance, MaxTolerance)
	})
	v.RangeInt("options.workers", d.Options.Workers, 0, MaxWorkers)
	return v.Validate()
}

func (e *EdgeDoc) check() error {
	if len(e.Surfaces) == 0 {
		return errors.New("at least one surface is required")
	}
	if e.Type != "" && !psi.Valid(psi.Type(e.Type)) {
		return fmt.Errorf("%w: %q", psi.ErrUnknownType, e.Type)
	}
	if (e.V0 == nil) != (e.V1 == nil) {
		return errors.New("v0 and v1 must be given together")
	}
	for _, p := range [][]float64{e.V0, e.V1} {
		if p != nil && len(p) != 3 {
			return fmt.Errorf("point %v must have 3 coordinates", p)
		}
	}
	return nil
}

// Options are the run options.
type Options struct {
	// Parapet selects "parapet" over "roof" for wall/roof edges.
	Parapet   bool
	Tolerance float64
	Workers   int
}

// PointRef counts occurrences of a KHI entry on a surface.
type PointRef struct {
	ID    string
	Count int
}

// SurfaceOverride holds per-surface overrides.
type SurfaceOverride struct {
	PSI  string
	KHIs []PointRef
}

// EdgeOverride forces a set, and optionally a type, on matching edges.
type EdgeOverride struct {
	PSI      string
	Type     psi.Type
	Surfaces []string
	// V0 and V1 are nil unless the override targets one edge.
	V0, V1 *r3.Vec
}

// Matches reports whether an edge between a and b, touching the given
// surfaces, is targeted by o.
func (o *EdgeOverride) Matches(surfaces []string, a, b r3.Vec, tol float64) bool {
	have := make(map[string]bool, len(surfaces))
	for _, s := range surfaces {
		have[s] = true
	}
	for _, s := range o.Surfaces {
		if !have[s] {
			return false
		}
	}
	if o.V0 == nil {
		return true
	}
	near := func(p, q r3.Vec) bool { return r3.Norm(r3.Sub(p, q)) < tol }
	return (near(*o.V0, a) && near(*o.V1, b)) || (near(*o.V0, b) && near(*o.V1, a))
}

// Config is a validated run configuration.
type Config struct {
	PSIs       []psi.Set
	KHIs       []psi.Point
	Building   string
	Stories    map[string]string
	SpaceTypes map[string]string
	Spaces     map[string]string
	Surfaces   map[string]SurfaceOverride
	Edges      []EdgeOverride
	Options    Options
}

// Default returns the configuration used when none is given: built-in sets,
// the default building set, parapets, the default tolerance and one worker.
func Default() *Config {
	return &Config{
		Building:   psi.DefaultSet,
		Stories:    make(map[string]string),
		SpaceTypes: make(map[string]string),
		Spaces:     make(map[string]string),
		Surfaces:   make(map[string]SurfaceOverride),
		Options: Options{
			Parapet:   true,
			Tolerance: geometry.DefaultTolerance,
			Workers:   1,
		},
	}
}

// Config validates d and converts it into a run configuration.
func (d *Document) Config() (*Config, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	c := Default()
	for _, p := range d.PSIs {
		s := psi.Set{ID: p.ID, Values: make(map[psi.Type]float64, len(p.Values))}
		for k, v := range p.Values {
			s.Values[psi.Type(k)] = v
		}
		c.PSIs = append(c.PSIs, s)
	}
	for _, k := range d.KHIs {
		c.KHIs = append(c.KHIs, psi.Point{ID: k.ID, Value: k.Point})
	}
	if d.Building != nil {
		c.Building = d.Building.PSI
	}
	for _, b := range d.Stories {
		c.Stories[b.ID] = b.PSI
	}
	for _, b := range d.SpaceTypes {
		c.SpaceTypes[b.ID] = b.PSI
	}
	for _, b := range d.Spaces {
		c.Spaces[b.ID] = b.PSI
	}
	for _, s := range d.Surfaces {
		o := c.Surfaces[s.ID]
		if s.PSI != "" {
			o.PSI = s.PSI
		}
		for _, k := range s.KHIs {
			o.KHIs = append(o.KHIs, PointRef{ID: k.ID, Count: k.Count})
		}
		c.Surfaces[s.ID] = o
	}
	for _, e := range d.Edges {
		o := EdgeOverride{PSI: e.PSI, Type: psi.Type(e.Type), Surfaces: append([]string(nil), e.Surfaces...)}
		if e.V0 != nil {
			o.V0 = &r3.Vec{X: e.V0[0], Y: e.V0[1], Z: e.V0[2]}
			o.V1 = &r3.Vec{X: e.V1[0], Y: e.V1[1], Z: e.V1[2]}
		}
		c.Edges = append(c.Edges, o)
	}
	if d.Options.Parapet != nil {
		c.Options.Parapet = *d.Options.Parapet
	}
	if d.Options.Tolerance != 0 {
		c.Options.Tolerance = d.Options.Tolerance
	}
	if d.Options.Workers != 0 {
		c.Options.Workers = d.Options.Workers
	}
	return c, nil
}

// Document converts c back into its on-disk form. Maps are written in key
// order so output is stable.
func (c *Config) Document() *Document {
	d := &Document{}
	for _, s := range c.PSIs {
		p := PSIDoc{ID: s.ID, Values: make(map[string]float64, len(s.Values))}
		for k, v := range s.Values {
			p.Values[string(k)] = v
		}
		d.PSIs = append(d.PSIs, p)
	}
	for _, k := range c.KHIs {
		d.KHIs = append(d.KHIs, KHIDoc{ID: k.ID, Point: k.Value})
	}
	if c.Building != "" {
		d.Building = &BindingDoc{PSI: c.Building}
	}
	d.Stories = bindings(c.Stories)
	d.SpaceTypes = bindings(c.SpaceTypes)
	d.Spaces = bindings(c.Spaces)
	for _, id := range sortedKeys(c.Surfaces) {
		o := c.Surfaces[id]
		s := SurfaceDoc{ID: id, PSI: o.PSI}
		for _, k := range o.KHIs {
			s.KHIs = append(s.KHIs, PointRefDoc{ID: k.ID, Count: k.Count})
		}
		d.Surfaces = append(d.Surfaces, s)
	}
	for _, e := range c.Edges {
		ed := EdgeDoc{PSI: e.PSI, Type: string(e.Type), Surfaces: append([]string(nil), e.Surfaces...)}
		if e.V0 != nil && e.V1 != nil {
			ed.V0 = []float64{e.V0.X, e.V0.Y, e.V0.Z}
			ed.V1 = []float64{e.V1.X, e.V1.Y, e.V1.Z}
		}
		d.Edges = append(d.Edges, ed)
	}
	parapet := c.Options.Parapet
	d.Options = OptionsDoc{Parapet: &parapet, Tolerance: c.Options.Tolerance, Workers: c.Options.Workers}
	return d
}

func bindings(m map[string]string) []BindingDoc {
	var out []BindingDoc
	for _, k := range sortedKeys(m) {
		out = append(out, BindingDoc{ID: k, PSI: m[k]})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
