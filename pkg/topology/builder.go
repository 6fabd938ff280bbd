package topology

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dd0wney/tbd/pkg/geometry"
)

type edgeKey struct{ a, b int }

func keyOf(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Builder accumulates faces into a Graph.
type Builder struct {
	tol   float64
	grid  map[[3]int64][]int
	edges map[edgeKey]int
	g     *Graph
}

// NewBuilder creates a builder merging vertices closer than tol. A
// non-positive tol selects geometry.DefaultTolerance.
func NewBuilder(tol float64) *Builder {
	if tol <= 0 {
		tol = geometry.DefaultTolerance
	}
	return &Builder{
		tol:   tol,
		grid:  make(map[[3]int64][]int),
		edges: make(map[edgeKey]int),
		g:     &Graph{byOwner: make(map[int]int)},
	}
}

// Tolerance returns the merge distance.
func (b *Builder) Tolerance() float64 {
	return b.tol
}

// vertex finds or creates the vertex within tol of p. Points are hashed into
// cells of size tol, so a match can only live in the 27 surrounding cells.
func (b *Builder) vertex(p r3.Vec) int {
	c := geometry.Round(p, b.tol)
	best, bestD := -1, b.tol
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, v := range b.grid[[3]int64{c[0] + dx, c[1] + dy, c[2] + dz}] {
					if d := r3.Norm(r3.Sub(b.g.Vertices[v].Point, p)); d < bestD {
						best, bestD = v, d
					}
				}
			}
		}
	}
	if best >= 0 {
		return best
	}
	idx := len(b.g.Vertices)
	b.g.Vertices = append(b.g.Vertices, Vertex{Point: p})
	b.grid[c] = append(b.grid[c], idx)
	return idx
}

// wire snaps a polygon to vertices and drops repeated indices.
func (b *Builder) wire(p geometry.Polygon) ([]int, error) {
	if err := geometry.Validate(p, b.tol); err != nil {
		return nil, err
	}
	out := make([]int, 0, len(p))
	for _, pt := range p {
		v := b.vertex(pt)
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return nil, ErrDegenerateFace
	}
	return out, nil
}

// Hole is an opening outline added to a host face.
type Hole struct {
	Owner   int
	Polygon geometry.Polygon
}

// AddFace registers the outer polygon of owner plus its holes and returns
// the face index. A degenerate outer polygon rejects the whole face; a
// degenerate hole is reported but the face is kept without it.
func (b *Builder) AddFace(owner int, outer geometry.Polygon, holes ...Hole) (int, error) {
	if _, dup := b.g.byOwner[owner]; dup {
		return -1, fmt.Errorf("owner %d: %w", owner, ErrDuplicateOwner)
	}
	normal, err := geometry.Normal(outer)
	if err != nil {
		return -1, fmt.Errorf("owner %d: %w", owner, err)
	}
	ow, err := b.wire(outer)
	if err != nil {
		return -1, fmt.Errorf("owner %d: %w", owner, err)
	}

	wires := [][]int{ow}
	var holeOwners []int
	var holeErr error
	for _, h := range holes {
		hw, err := b.wire(h.Polygon)
		if err != nil {
			holeErr = fmt.Errorf("owner %d hole %d: %w", owner, h.Owner, err)
			continue
		}
		wires = append(wires, hw)
		holeOwners = append(holeOwners, h.Owner)
	}

	f := len(b.g.Faces)
	b.g.Faces = append(b.g.Faces, Face{
		Owner:  owner,
		Wires:  wires,
		Holes:  holeOwners,
		Normal: normal,
	})
	b.g.byOwner[owner] = f

	for wi, w := range wires {
		for i := range w {
			b.link(f, wi, w[i], w[(i+1)%len(w)])
		}
	}
	return f, holeErr
}

// link registers the edge between vertices a and b for one wire of face f.
func (b *Builder) link(f, wire, a, c int) {
	if a == c {
		return
	}
	k := keyOf(a, c)
	e, ok := b.edges[k]
	if !ok {
		e = len(b.g.Edges)
		b.g.Edges = append(b.g.Edges, Edge{V0: a, V1: c})
		b.edges[k] = e
	}
	edge := &b.g.Edges[e]
	for _, as := range edge.Faces {
		if as.Face == f {
			return
		}
	}
	edge.Faces = append(edge.Faces, Assoc{Face: f, Wire: wire, Forward: edge.V0 == a})
	b.g.Faces[f].Edges = append(b.g.Faces[f].Edges, e)
}

// Graph returns the built graph. The builder must not be used afterwards.
func (b *Builder) Graph() *Graph {
	return b.g
}
