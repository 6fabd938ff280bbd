package topology

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrDegenerateFace is returned when a wire collapses below three
	// distinct vertices after merging.
	ErrDegenerateFace = errors.New("degenerate face")
	// ErrDuplicateOwner is returned when an owner is added twice.
	ErrDuplicateOwner = errors.New("owner already has a face")
)

// Vertex is a merged 3D point.
type Vertex struct {
	Point r3.Vec
}

// Assoc links an edge to one wire of one face.
type Assoc struct {
	Face int
	// Wire is 0 for the outer boundary and k for the k-th hole.
	Wire int
	// Forward is true when the wire runs from the edge's V0 to V1.
	Forward bool
}

// Edge is an undirected segment between two vertices.
type Edge struct {
	V0, V1 int
	Faces  []Assoc
}

// Face is the polygon of one catalog record.
type Face struct {
	Owner int
	// Wires holds vertex indices; Wires[0] is the outer boundary.
	Wires [][]int
	// Holes holds the owner indices of the faces whose outlines are the
	// hole wires, aligned with Wires[1:].
	Holes  []int
	Normal r3.Vec
	Edges  []int
}

// Graph is the result of a build.
type Graph struct {
	Vertices []Vertex
	Edges    []Edge
	Faces    []Face

	byOwner map[int]int
}

// FaceOf returns the face index of a catalog record.
func (g *Graph) FaceOf(owner int) (int, bool) {
	f, ok := g.byOwner[owner]
	return f, ok
}

// Endpoints returns the two points of an edge.
func (g *Graph) Endpoints(e int) (r3.Vec, r3.Vec) {
	ed := g.Edges[e]
	return g.Vertices[ed.V0].Point, g.Vertices[ed.V1].Point
}

// Length returns the length of an edge.
func (g *Graph) Length(e int) float64 {
	a, b := g.Endpoints(e)
	return r3.Norm(r3.Sub(b, a))
}

// WirePoints returns the points of one wire of a face.
func (g *Graph) WirePoints(f, wire int) []r3.Vec {
	w := g.Faces[f].Wires[wire]
	out := make([]r3.Vec, len(w))
	for i, v := range w {
		out[i] = g.Vertices[v].Point
	}
	return out
}
