package model

// Role is the closed set of parts a record can play in edge classification.
type Role int

const (
	RoleOther Role = iota
	RoleWall
	RoleRoof
	RoleFloor
	RoleOpening
	RoleShade
)

func (r Role) String() string {
	switch r {
	case RoleWall:
		return "wall"
	case RoleRoof:
		return "roof"
	case RoleFloor:
		return "floor"
	case RoleOpening:
		return "opening"
	case RoleShade:
		return "shade"
	default:
		return "other"
	}
}

// Opaque reports whether the role is an opaque envelope surface.
func (r Role) Opaque() bool {
	return r == RoleWall || r == RoleRoof || r == RoleFloor
}

// RoleOf maps a surface class to its role.
func RoleOf(c SurfaceClass) Role {
	switch c {
	case Wall:
		return RoleWall
	case RoofCeiling:
		return RoleRoof
	case Floor:
		return RoleFloor
	default:
		return RoleOther
	}
}
