// Package analyzer derives the geometric facts edge classification needs:
// edge orientation, the in-plane direction of every face leaving an edge,
// and whether two faces meet flat, concave or convex.
package analyzer

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dd0wney/tbd/pkg/geometry"
	"github.com/dd0wney/tbd/pkg/topology"
)

// ErrNoPolarVector is returned when no vertex of a face lies off the edge.
var ErrNoPolarVector = errors.New("face has no point off the edge")

// Relation is the dihedral relationship of two faces along an edge, seen from
// outside the building.
type Relation int

const (
	Flat Relation = iota
	Concave
	Convex
)

func (r Relation) String() string {
	switch r {
	case Concave:
		return "concave"
	case Convex:
		return "convex"
	default:
		return "flat"
	}
}

// FaceFacts describes one face leaving an edge.
type FaceFacts struct {
	topology.Assoc
	Owner  int
	Normal r3.Vec
	// Polar is the unit vector in the face plane, perpendicular to the edge,
	// pointing from the edge into the face.
	Polar r3.Vec
	// Angle is the position of Polar around the edge, in [0, 2π).
	Angle float64
	// Tilt is the angle between Normal and the zenith.
	Tilt float64
}

// Horizontal reports whether the face itself lies flat (floor, flat roof).
func (f FaceFacts) Horizontal(tol float64) bool {
	return math.Abs(math.Abs(f.Normal.Z)-1) < tol
}

// EdgeFacts holds everything the classifier needs to know about one edge.
type EdgeFacts struct {
	Edge       int
	V0, V1     r3.Vec
	Length     float64
	Dir        r3.Vec
	Vertical   bool
	Horizontal bool
	// Faces is sorted by Angle, ties broken by face index.
	Faces []FaceFacts
	tol   float64
}

// Relation returns how faces i and j (indices into Faces) meet.
func (ef *EdgeFacts) Relation(i, j int) Relation {
	a, b := ef.Faces[i], ef.Faces[j]
	if r3.Norm(r3.Sub(a.Normal, b.Normal)) < ef.tol {
		return Flat
	}
	s := r3.Dot(r3.Cross(a.Normal, b.Normal), r3.Cross(a.Polar, a.Normal))
	switch {
	case math.Abs(s) < ef.tol*ef.tol:
		return Flat
	case s > 0:
		return Convex
	default:
		return Concave
	}
}

// Position returns the index in Faces of the given face, or -1.
func (ef *EdgeFacts) Position(face int) int {
	for i, f := range ef.Faces {
		if f.Face == face {
			return i
		}
	}
	return -1
}

// Analyzer computes EdgeFacts over a graph.
type Analyzer struct {
	g   *topology.Graph
	tol float64
}

// New creates an analyzer. tol is both the orientation tolerance in metres
// and the normal comparison tolerance.
func New(g *topology.Graph, tol float64) *Analyzer {
	if tol <= 0 {
		tol = geometry.DefaultTolerance
	}
	return &Analyzer{g: g, tol: tol}
}

// Edge analyzes one edge. An error names the first face whose polar vector
// could not be found; the facts for the remaining faces are still returned.
func (a *Analyzer) Edge(e int) (EdgeFacts, error) {
	v0, v1 := a.g.Endpoints(e)
	d := r3.Sub(v1, v0)
	length := r3.Norm(d)
	ef := EdgeFacts{
		Edge:       e,
		V0:         v0,
		V1:         v1,
		Length:     length,
		Vertical:   math.Abs(d.X) < a.tol && math.Abs(d.Y) < a.tol,
		Horizontal: math.Abs(d.Z) < a.tol,
		tol:        a.tol,
	}
	if length == 0 {
		return ef, fmt.Errorf("edge %d: zero length", e)
	}
	ef.Dir = r3.Scale(1/length, d)
	ref := a.reference(ef)

	var firstErr error
	for _, as := range a.g.Edges[e].Faces {
		face := a.g.Faces[as.Face]
		polar, err := a.polar(ef, as, face.Normal)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("edge %d face %d: %w", e, as.Face, err)
			}
			continue
		}
		ef.Faces = append(ef.Faces, FaceFacts{
			Assoc:  as,
			Owner:  face.Owner,
			Normal: face.Normal,
			Polar:  polar,
			Angle:  geometry.SignedAngle(ref, polar, ef.Dir),
			Tilt:   geometry.Angle(face.Normal, geometry.Zenith),
		})
	}

	sort.SliceStable(ef.Faces, func(i, j int) bool {
		fi, fj := ef.Faces[i], ef.Faces[j]
		if math.Abs(fi.Angle-fj.Angle) > 1e-9 {
			return fi.Angle < fj.Angle
		}
		return fi.Face < fj.Face
	})
	return ef, firstErr
}

// reference is the zero direction for polar angles: the zenith for
// horizontal edges, north for vertical ones, and the zenith projected off the
// edge otherwise.
func (a *Analyzer) reference(ef EdgeFacts) r3.Vec {
	if ef.Vertical {
		return geometry.North
	}
	z := geometry.Perpendicular(geometry.Zenith, ef.Dir)
	if r3.Norm(z) > a.tol {
		return r3.Unit(z)
	}
	return r3.Unit(geometry.Perpendicular(geometry.North, ef.Dir))
}

// polar finds the in-plane direction pointing from the edge into the face.
// The wire winding gives the side (left of travel for the outer boundary,
// right of travel for holes); the farthest outer vertex on that side fixes
// the direction so slightly warped faces still resolve.
func (a *Analyzer) polar(ef EdgeFacts, as topology.Assoc, normal r3.Vec) (r3.Vec, error) {
	travel := ef.Dir
	if !as.Forward {
		travel = r3.Scale(-1, travel)
	}
	side := r3.Cross(normal, travel)
	if as.Wire > 0 {
		side = r3.Scale(-1, side)
	}
	if r3.Norm(side) < 1e-9 {
		return r3.Vec{}, ErrNoPolarVector
	}
	side = r3.Unit(side)

	var best r3.Vec
	bestD := a.tol
	for _, p := range a.g.WirePoints(as.Face, 0) {
		perp := geometry.Perpendicular(r3.Sub(p, ef.V0), ef.Dir)
		if d := r3.Dot(perp, side); d > bestD {
			best, bestD = perp, d
		}
	}
	if bestD <= a.tol {
		return r3.Vec{}, ErrNoPolarVector
	}
	return r3.Unit(best), nil
}

// All analyzes every edge of the graph. Errors are collected per edge.
func (a *Analyzer) All() ([]EdgeFacts, map[int]error) {
	out := make([]EdgeFacts, len(a.g.Edges))
	errs := make(map[int]error)
	for e := range a.g.Edges {
		ef, err := a.Edge(e)
		if err != nil {
			errs[e] = err
		}
		out[e] = ef
	}
	return out, errs
}
