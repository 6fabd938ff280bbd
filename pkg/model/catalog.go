package model

import (
	"github.com/dd0wney/tbd/pkg/geometry"
	"github.com/dd0wney/tbd/pkg/logging"
)

// Record is the normalized view of one surface, opening or shade for a run.
type Record struct {
	Index int
	ID    string
	Role  Role

	Polygon  geometry.Polygon
	Boundary BoundaryCondition
	Spandrel bool

	Space        string
	Story        string
	SpaceType    string
	Conditioning Conditioning

	// Deratable is computed once when the catalog is built.
	Deratable bool
	// Excluded marks records whose geometry could not be used. They stay in
	// the catalog but never receive heat loss.
	Excluded bool

	// Openings only.
	Host      int
	Kind      OpeningKind
	UFactor   float64
	Openings  []int
	GrossArea float64
	NetArea   float64

	Construction *Construction
}

// Insulation returns the insulating layer of an opaque record.
func (r *Record) Insulation() (Layer, bool) {
	return r.Construction.InsulatingLayer()
}

// Catalog holds every record of a run, addressed by index.
type Catalog struct {
	Records []Record
	byID    map[string]int
}

// NewCatalog normalizes the provider's surfaces, openings and shades.
// Orphaned openings are logged and dropped.
func NewCatalog(p Provider, log logging.Logger) *Catalog {
	log = log.With(logging.Component("catalog"))
	c := &Catalog{byID: make(map[string]int)}

	add := func(r Record) (int, bool) {
		if _, dup := c.byID[r.ID]; dup {
			log.Error("duplicate record id, skipping", logging.SurfaceID(r.ID))
			return -1, false
		}
		r.Index = len(c.Records)
		c.byID[r.ID] = r.Index
		c.Records = append(c.Records, r)
		return r.Index, true
	}

	surfaces := make(map[string]Surface)
	for _, s := range p.Surfaces() {
		surfaces[s.ID] = s
		r := Record{
			ID:           s.ID,
			Role:         RoleOf(s.Class),
			Polygon:      s.Vertices,
			Boundary:     s.Boundary,
			Spandrel:     s.Spandrel,
			Space:        s.Space,
			Host:         -1,
			Construction: s.Construction,
			GrossArea:    geometry.Area(s.Vertices),
		}
		if r.Role == RoleOther {
			log.Warn("unknown surface class", logging.SurfaceID(s.ID), logging.String("class", string(s.Class)))
		}
		if sp, ok := p.Space(s.Space); ok {
			r.Story = sp.Story
			r.SpaceType = sp.SpaceType
			r.Conditioning = sp.Conditioning()
		} else {
			log.Warn("surface has no space, treating as unconditioned", logging.SurfaceID(s.ID))
		}
		r.NetArea = r.GrossArea
		add(r)
	}

	for _, o := range p.Openings() {
		hi, ok := c.byID[o.Host]
		if !ok {
			log.Error("orphaned opening, skipping", logging.SurfaceID(o.ID), logging.String("host", o.Host))
			continue
		}
		host := &c.Records[hi]
		r := Record{
			ID:           o.ID,
			Role:         RoleOpening,
			Polygon:      o.Vertices,
			Space:        host.Space,
			Story:        host.Story,
			SpaceType:    host.SpaceType,
			Conditioning: host.Conditioning,
			Host:         hi,
			Kind:         o.Kind,
			UFactor:      o.UFactor,
			GrossArea:    geometry.Area(o.Vertices),
		}
		r.NetArea = r.GrossArea
		if idx, ok := add(r); ok {
			host = &c.Records[hi]
			host.Openings = append(host.Openings, idx)
			host.NetArea -= r.GrossArea
		}
	}

	for _, s := range p.Shades() {
		add(Record{
			ID:        s.ID,
			Role:      RoleShade,
			Polygon:   s.Vertices,
			Host:      -1,
			GrossArea: geometry.Area(s.Vertices),
		})
	}

	for i := range c.Records {
		r := &c.Records[i]
		if !r.Role.Opaque() {
			continue
		}
		if len(r.Openings) > 0 && r.NetArea <= 0 {
			log.Error("openings cover the whole surface", logging.SurfaceID(r.ID), logging.Float64("net_area", r.NetArea))
			r.Excluded = true
			continue
		}
		r.Deratable = c.deratable(r, surfaces, p, log)
	}

	return c
}

// deratable reports whether r faces outdoors or an unconditioned space from
// a conditioned one and has an insulating layer to adjust.
func (c *Catalog) deratable(r *Record, surfaces map[string]Surface, p Provider, log logging.Logger) bool {
	if r.Conditioning == Unconditioned {
		return false
	}
	switch r.Boundary {
	case Outdoors:
	case Adjacent:
		other, ok := surfaces[surfaces[r.ID].AdjacentSurface]
		if !ok {
			log.Debug("adjacent surface not found", logging.SurfaceID(r.ID))
			return false
		}
		sp, ok := p.Space(other.Space)
		if !ok || sp.Conditioning() != Unconditioned {
			return false
		}
	default:
		return false
	}
	l, ok := r.Insulation()
	if !ok {
		log.Warn("no insulating layer, not deratable", logging.SurfaceID(r.ID))
		return false
	}
	if l.R() <= 0 {
		log.Warn("insulating layer has no resistance, not deratable", logging.SurfaceID(r.ID))
		return false
	}
	return true
}

// Lookup returns the record with the given id.
func (c *Catalog) Lookup(id string) (*Record, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.Records[i], true
}

// Exclude marks a record as unusable for the rest of the run.
func (c *Catalog) Exclude(i int) {
	c.Records[i].Excluded = true
}

// Deratables returns the indices of records eligible for derating.
func (c *Catalog) Deratables() []int {
	var out []int
	for i, r := range c.Records {
		if r.Deratable && !r.Excluded {
			out = append(out, i)
		}
	}
	return out
}
