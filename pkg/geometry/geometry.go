package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultTolerance is the point deduplication distance in metres.
const DefaultTolerance = 0.01

var (
	// Zenith points straight up.
	Zenith = r3.Vec{Z: 1}
	// North is the compass reference used for vertical edges.
	North = r3.Vec{Y: 1}

	// ErrDegeneratePolygon is returned for polygons with fewer than three
	// distinct, non-collinear points.
	ErrDegeneratePolygon = errors.New("degenerate polygon")
)

// Polygon is an ordered ring of points. The closing segment is implicit.
type Polygon []r3.Vec

// Equal reports whether a and b are within tol of each other.
func Equal(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) < tol
}

// Newell returns the (unnormalized) Newell vector of a ring: its direction is
// the right-hand-rule normal and its length is twice the enclosed area.
func Newell(p Polygon) r3.Vec {
	var n r3.Vec
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// Normal returns the unit outward normal of a counter-clockwise ring.
func Normal(p Polygon) (r3.Vec, error) {
	n := Newell(p)
	if r3.Norm(n) < 1e-9 {
		return r3.Vec{}, ErrDegeneratePolygon
	}
	return r3.Unit(n), nil
}

// Area returns the planar area enclosed by the ring.
func Area(p Polygon) float64 {
	return r3.Norm(Newell(p)) / 2
}

// Dedup drops consecutive points closer than tol, including a closing point
// equal to the first.
func Dedup(p Polygon, tol float64) Polygon {
	out := make(Polygon, 0, len(p))
	for _, v := range p {
		if len(out) > 0 && Equal(out[len(out)-1], v, tol) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && Equal(out[0], out[len(out)-1], tol) {
		out = out[:len(out)-1]
	}
	return out
}

// Validate checks that p has at least three distinct points that are not all
// collinear and that it encloses more than tol² of area.
func Validate(p Polygon, tol float64) error {
	d := Dedup(p, tol)
	if len(d) < 3 {
		return ErrDegeneratePolygon
	}
	if Area(d) < tol*tol {
		return ErrDegeneratePolygon
	}
	return nil
}

// DistanceToLine returns the distance from p to the infinite line through a
// and b.
func DistanceToLine(p, a, b r3.Vec) float64 {
	ab := r3.Sub(b, a)
	l := r3.Norm(ab)
	if l == 0 {
		return r3.Norm(r3.Sub(p, a))
	}
	return r3.Norm(r3.Cross(ab, r3.Sub(p, a))) / l
}

// Perpendicular returns the component of v orthogonal to the unit vector u.
func Perpendicular(v, u r3.Vec) r3.Vec {
	return r3.Sub(v, r3.Scale(r3.Dot(v, u), u))
}

// Angle returns the unsigned angle between a and b in radians.
func Angle(a, b r3.Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	c := r3.Dot(a, b) / (na * nb)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// SignedAngle returns the counter-clockwise angle in [0, 2π) from ref to v
// seen looking down axis (axis pointing at the viewer). ref and v should be
// orthogonal to axis.
func SignedAngle(ref, v, axis r3.Vec) float64 {
	a := math.Atan2(r3.Dot(r3.Cross(ref, v), axis), r3.Dot(ref, v))
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Round snaps v to a grid of the given cell size, returning integer cell
// coordinates.
func Round(v r3.Vec, cell float64) [3]int64 {
	return [3]int64{
		int64(math.Floor(v.X/cell + 0.5)),
		int64(math.Floor(v.Y/cell + 0.5)),
		int64(math.Floor(v.Z/cell + 0.5)),
	}
}
