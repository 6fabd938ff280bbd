package model

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/tbd/pkg/geometry"
)

// Document is the on-disk form of a Model. JSON documents decode too.
type Document struct {
	Spaces        []SpaceDoc        `yaml:"spaces"`
	Constructions []ConstructionDoc `yaml:"constructions"`
	Surfaces      []SurfaceDoc      `yaml:"surfaces"`
	Openings      []OpeningDoc      `yaml:"openings"`
	Shades        []ShadeDoc        `yaml:"shades"`
}

type SpaceDoc struct {
	ID        string `yaml:"id"`
	Story     string `yaml:"story"`
	SpaceType string `yaml:"spacetype"`
	Heated    bool   `yaml:"heated"`
	Cooled    bool   `yaml:"cooled"`
	Plenum    bool   `yaml:"plenum"`
}

type LayerDoc struct {
	ID           string  `yaml:"id"`
	Thickness    float64 `yaml:"thickness"`
	Conductivity float64 `yaml:"conductivity"`
	Resistance   float64 `yaml:"resistance"`
	Derated      bool    `yaml:"derated"`
}

type ConstructionDoc struct {
	ID         string     `yaml:"id"`
	Film       float64    `yaml:"film"`
	Insulating *int       `yaml:"insulating"`
	Layers     []LayerDoc `yaml:"layers"`
}

type SurfaceDoc struct {
	ID           string       `yaml:"id"`
	Class        string       `yaml:"class"`
	Boundary     string       `yaml:"boundary"`
	Adjacent     string       `yaml:"adjacent"`
	Space        string       `yaml:"space"`
	Construction string       `yaml:"construction"`
	Spandrel     bool         `yaml:"spandrel"`
	Vertices     [][3]float64 `yaml:"vertices"`
}

type OpeningDoc struct {
	ID       string       `yaml:"id"`
	Host     string       `yaml:"host"`
	Kind     string       `yaml:"kind"`
	UFactor  float64      `yaml:"ufactor"`
	Vertices [][3]float64 `yaml:"vertices"`
}

type ShadeDoc struct {
	ID       string       `yaml:"id"`
	Vertices [][3]float64 `yaml:"vertices"`
}

// Load decodes a model document.
func Load(r io.Reader) (*Model, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return doc.Model()
}

// LoadFile decodes the model document at path.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Model builds an in-memory model from the document.
func (d *Document) Model() (*Model, error) {
	m := NewModel()
	for _, s := range d.Spaces {
		if err := m.AddSpace(Space{
			ID:        s.ID,
			Story:     s.Story,
			SpaceType: s.SpaceType,
			Heated:    s.Heated,
			Cooled:    s.Cooled,
			Plenum:    s.Plenum,
		}); err != nil {
			return nil, err
		}
	}

	constructions := make(map[string]*Construction, len(d.Constructions))
	for _, cd := range d.Constructions {
		c := &Construction{ID: cd.ID, FilmResistance: cd.Film, Insulating: -1}
		if cd.Insulating != nil {
			c.Insulating = *cd.Insulating
		}
		for _, ld := range cd.Layers {
			c.Layers = append(c.Layers, Layer{
				ID:           ld.ID,
				Massless:     ld.Thickness == 0 && ld.Resistance > 0,
				Thickness:    ld.Thickness,
				Conductivity: ld.Conductivity,
				Resistance:   ld.Resistance,
				Derated:      ld.Derated,
			})
		}
		constructions[cd.ID] = c
	}

	for _, sd := range d.Surfaces {
		c, ok := constructions[sd.Construction]
		if !ok && sd.Construction != "" {
			return nil, fmt.Errorf("surface %q: unknown construction %q", sd.ID, sd.Construction)
		}
		if err := m.AddSurface(Surface{
			ID:              sd.ID,
			Vertices:        polygon(sd.Vertices),
			Class:           SurfaceClass(sd.Class),
			Boundary:        BoundaryCondition(sd.Boundary),
			AdjacentSurface: sd.Adjacent,
			Space:           sd.Space,
			Construction:    c,
			Spandrel:        sd.Spandrel,
		}); err != nil {
			return nil, err
		}
	}

	for _, od := range d.Openings {
		m.AddOpening(Opening{
			ID:       od.ID,
			Vertices: polygon(od.Vertices),
			Host:     od.Host,
			Kind:     OpeningKind(od.Kind),
			UFactor:  od.UFactor,
		})
	}
	for _, sd := range d.Shades {
		m.AddShade(Shade{ID: sd.ID, Vertices: polygon(sd.Vertices)})
	}
	return m, nil
}

func polygon(pts [][3]float64) geometry.Polygon {
	out := make(geometry.Polygon, len(pts))
	for i, p := range pts {
		out[i] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
	}
	return out
}

// Document converts m back into its on-disk form. Constructions shared by
// several surfaces are written once.
func (m *Model) Document() *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d := &Document{}
	for _, id := range sortedSpaceIDs(m.spaces) {
		s := m.spaces[id]
		d.Spaces = append(d.Spaces, SpaceDoc{
			ID:        s.ID,
			Story:     s.Story,
			SpaceType: s.SpaceType,
			Heated:    s.Heated,
			Cooled:    s.Cooled,
			Plenum:    s.Plenum,
		})
	}
	seen := make(map[*Construction]bool)
	for _, s := range m.surfaces {
		sd := SurfaceDoc{
			ID:       s.ID,
			Class:    string(s.Class),
			Boundary: string(s.Boundary),
			Adjacent: s.AdjacentSurface,
			Space:    s.Space,
			Spandrel: s.Spandrel,
			Vertices: points(s.Vertices),
		}
		if c := s.Construction; c != nil {
			sd.Construction = c.ID
			if !seen[c] {
				seen[c] = true
				d.Constructions = append(d.Constructions, constructionDoc(c))
			}
		}
		d.Surfaces = append(d.Surfaces, sd)
	}
	for _, o := range m.openings {
		d.Openings = append(d.Openings, OpeningDoc{
			ID:       o.ID,
			Host:     o.Host,
			Kind:     string(o.Kind),
			UFactor:  o.UFactor,
			Vertices: points(o.Vertices),
		})
	}
	for _, s := range m.shades {
		d.Shades = append(d.Shades, ShadeDoc{ID: s.ID, Vertices: points(s.Vertices)})
	}
	return d
}

func constructionDoc(c *Construction) ConstructionDoc {
	cd := ConstructionDoc{ID: c.ID, Film: c.FilmResistance}
	if c.Insulating >= 0 {
		i := c.Insulating
		cd.Insulating = &i
	}
	for _, l := range c.Layers {
		cd.Layers = append(cd.Layers, LayerDoc{
			ID:           l.ID,
			Thickness:    l.Thickness,
			Conductivity: l.Conductivity,
			Resistance:   l.Resistance,
			Derated:      l.Derated,
		})
	}
	return cd
}

func points(p geometry.Polygon) [][3]float64 {
	out := make([][3]float64, len(p))
	for i, v := range p {
		out[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return out
}

func sortedSpaceIDs(spaces map[string]*Space) []string {
	ids := make([]string, 0, len(spaces))
	for id := range spaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
