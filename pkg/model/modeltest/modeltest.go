// Package modeltest builds small reference buildings for tests.
package modeltest

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dd0wney/tbd/pkg/geometry"
	"github.com/dd0wney/tbd/pkg/model"
)

// Insulated returns a two-layer construction whose insulating layer has
// resistance r. The interior finish adds about 0.08 m2K/W and films 0.17.
func Insulated(id string, r float64) *model.Construction {
	return &model.Construction{
		ID:             id,
		FilmResistance: 0.17,
		Insulating:     1,
		Layers: []model.Layer{
			{ID: "gypsum", Thickness: 0.0127, Conductivity: 0.16},
			{ID: id + " insulation", Thickness: 0.1, Conductivity: 0.1 / r},
		},
	}
}

// Massless returns a construction with a single massless insulating layer.
func Massless(id string, r float64) *model.Construction {
	return &model.Construction{
		ID:         id,
		Insulating: 0,
		Layers:     []model.Layer{{ID: id + " insulation", Massless: true, Resistance: r}},
	}
}

// Rect returns the counter-clockwise (seen from outside) ring of an axis
// aligned rectangle lying in a plane of constant x, y or z.
func Rect(a, b r3.Vec, normal r3.Vec) geometry.Polygon {
	switch {
	case normal.Y < 0: // y = a.Y, faces south
		return geometry.Polygon{{X: a.X, Y: a.Y, Z: b.Z}, {X: a.X, Y: a.Y, Z: a.Z}, {X: b.X, Y: a.Y, Z: a.Z}, {X: b.X, Y: a.Y, Z: b.Z}}
	case normal.Y > 0: // faces north
		return geometry.Polygon{{X: b.X, Y: a.Y, Z: b.Z}, {X: b.X, Y: a.Y, Z: a.Z}, {X: a.X, Y: a.Y, Z: a.Z}, {X: a.X, Y: a.Y, Z: b.Z}}
	case normal.X > 0: // faces east
		return geometry.Polygon{{X: a.X, Y: a.Y, Z: b.Z}, {X: a.X, Y: a.Y, Z: a.Z}, {X: a.X, Y: b.Y, Z: a.Z}, {X: a.X, Y: b.Y, Z: b.Z}}
	case normal.X < 0: // faces west
		return geometry.Polygon{{X: a.X, Y: b.Y, Z: b.Z}, {X: a.X, Y: b.Y, Z: a.Z}, {X: a.X, Y: a.Y, Z: a.Z}, {X: a.X, Y: a.Y, Z: b.Z}}
	case normal.Z > 0: // faces up
		return geometry.Polygon{{X: a.X, Y: a.Y, Z: a.Z}, {X: b.X, Y: a.Y, Z: a.Z}, {X: b.X, Y: b.Y, Z: a.Z}, {X: a.X, Y: b.Y, Z: a.Z}}
	default: // faces down
		return geometry.Polygon{{X: a.X, Y: a.Y, Z: a.Z}, {X: a.X, Y: b.Y, Z: a.Z}, {X: b.X, Y: b.Y, Z: a.Z}, {X: b.X, Y: a.Y, Z: a.Z}}
	}
}

var (
	South = r3.Vec{Y: -1}
	North = r3.Vec{Y: 1}
	East  = r3.Vec{X: 1}
	West  = r3.Vec{X: -1}
	Up    = r3.Vec{Z: 1}
	Down  = r3.Vec{Z: -1}
)

// BoxOptions configures Box.
type BoxOptions struct {
	Width, Depth, Height float64
	WallR, RoofR         float64
	// FloorBoundary defaults to Ground.
	FloorBoundary model.BoundaryCondition
	// Window adds a 2 m x 1.5 m window to the south wall, sill at 1 m.
	Window bool
	// Door adds a 1 m x 2 m door to the north wall at floor level.
	Door bool
	// Skylight adds a 1 m x 1 m skylight in the middle of the roof.
	Skylight bool
	// Canopy adds a shade sharing the south wall / roof edge.
	Canopy bool
	// Unconditioned leaves the space without setpoints.
	Unconditioned bool
}

// Surface ids used by Box.
const (
	SouthWall = "south-wall"
	NorthWall = "north-wall"
	EastWall  = "east-wall"
	WestWall  = "west-wall"
	Roof      = "roof"
	Slab      = "slab"
	Window    = "window"
	Door      = "door"
	Skylight  = "skylight"
	Canopy    = "canopy"
)

// Box builds a single-zone rectangular building with its south-west bottom
// corner at the origin.
func Box(o BoxOptions) *model.Model {
	if o.Width == 0 {
		o.Width, o.Depth, o.Height = 10, 6, 3
	}
	if o.WallR == 0 {
		o.WallR = 2
	}
	if o.RoofR == 0 {
		o.RoofR = 4
	}
	if o.FloorBoundary == "" {
		o.FloorBoundary = model.Ground
	}
	w, d, h := o.Width, o.Depth, o.Height

	m := model.NewModel()
	_ = m.AddSpace(model.Space{
		ID:        "zone",
		Story:     "level-1",
		SpaceType: "office",
		Heated:    !o.Unconditioned,
		Cooled:    !o.Unconditioned,
	})

	wall := Insulated("wall", o.WallR)
	roof := Insulated("roof", o.RoofR)
	slab := Insulated("slab", 1)

	add := func(id string, class model.SurfaceClass, bc model.BoundaryCondition, c *model.Construction, p geometry.Polygon) {
		_ = m.AddSurface(model.Surface{
			ID:           id,
			Vertices:     p,
			Class:        class,
			Boundary:     bc,
			Space:        "zone",
			Construction: c,
		})
	}
	add(SouthWall, model.Wall, model.Outdoors, wall, Rect(r3.Vec{}, r3.Vec{X: w, Z: h}, South))
	add(EastWall, model.Wall, model.Outdoors, wall, Rect(r3.Vec{X: w}, r3.Vec{X: w, Y: d, Z: h}, East))
	add(NorthWall, model.Wall, model.Outdoors, wall, Rect(r3.Vec{Y: d}, r3.Vec{X: w, Y: d, Z: h}, North))
	add(WestWall, model.Wall, model.Outdoors, wall, Rect(r3.Vec{}, r3.Vec{Y: d, Z: h}, West))
	add(Roof, model.RoofCeiling, model.Outdoors, roof, Rect(r3.Vec{Z: h}, r3.Vec{X: w, Y: d, Z: h}, Up))
	add(Slab, model.Floor, o.FloorBoundary, slab, Rect(r3.Vec{}, r3.Vec{X: w, Y: d}, Down))

	if o.Window {
		m.AddOpening(model.Opening{
			ID:       Window,
			Host:     SouthWall,
			Kind:     model.FixedWindow,
			UFactor:  2.0,
			Vertices: Rect(r3.Vec{X: 2, Z: 1}, r3.Vec{X: 4, Z: 2.5}, South),
		})
	}
	if o.Door {
		m.AddOpening(model.Opening{
			ID:       Door,
			Host:     NorthWall,
			Kind:     model.Door,
			UFactor:  1.8,
			Vertices: Rect(r3.Vec{X: 4, Y: d}, r3.Vec{X: 5, Y: d, Z: 2}, North),
		})
	}
	if o.Skylight {
		cx, cy := w/2, d/2
		m.AddOpening(model.Opening{
			ID:       Skylight,
			Host:     Roof,
			Kind:     model.Skylight,
			UFactor:  2.8,
			Vertices: Rect(r3.Vec{X: cx - 0.5, Y: cy - 0.5, Z: h}, r3.Vec{X: cx + 0.5, Y: cy + 0.5, Z: h}, Up),
		})
	}
	if o.Canopy {
		// horizontal canopy projecting south from the top of the south wall
		m.AddShade(model.Shade{
			ID:       Canopy,
			Vertices: Rect(r3.Vec{Y: -1.5, Z: h}, r3.Vec{X: w, Z: h}, Up),
		})
	}
	return m
}

// Zone returns a model holding only the conditioned "zone" space.
func Zone() *model.Model {
	m := model.NewModel()
	_ = m.AddSpace(model.Space{ID: "zone", Story: "level-1", SpaceType: "office", Heated: true})
	return m
}

// Exterior returns an outdoor-facing surface of the zone.
func Exterior(id string, class model.SurfaceClass, c *model.Construction, p geometry.Polygon) model.Surface {
	return model.Surface{
		ID:           id,
		Vertices:     p,
		Class:        class,
		Boundary:     model.Outdoors,
		Space:        "zone",
		Construction: c,
	}
}
