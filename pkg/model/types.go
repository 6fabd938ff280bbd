package model

import (
	"github.com/dd0wney/tbd/pkg/geometry"
)

// BoundaryCondition is the outside boundary of an opaque surface.
type BoundaryCondition string

const (
	Outdoors                 BoundaryCondition = "Outdoors"
	Ground                   BoundaryCondition = "Ground"
	Foundation               BoundaryCondition = "Foundation"
	GroundFCfactorMethod     BoundaryCondition = "GroundFCfactorMethod"
	Adjacent                 BoundaryCondition = "Surface"
	Adiabatic                BoundaryCondition = "Adiabatic"
	OtherSideCoefficients    BoundaryCondition = "OtherSideCoefficients"
	OtherSideConditionsModel BoundaryCondition = "OtherSideConditionsModel"
)

// IsGround reports whether the surface faces soil.
func (b BoundaryCondition) IsGround() bool {
	switch b {
	case Ground, Foundation, GroundFCfactorMethod:
		return true
	}
	return false
}

// IsParty reports whether the other side is modelled externally (party walls,
// adiabatic partitions).
func (b BoundaryCondition) IsParty() bool {
	switch b {
	case Adiabatic, OtherSideCoefficients, OtherSideConditionsModel:
		return true
	}
	return false
}

// SurfaceClass is the opaque surface type.
type SurfaceClass string

const (
	Wall        SurfaceClass = "Wall"
	RoofCeiling SurfaceClass = "RoofCeiling"
	Floor       SurfaceClass = "Floor"
)

// OpeningKind is the sub-surface type of an opening.
type OpeningKind string

const (
	FixedWindow             OpeningKind = "FixedWindow"
	OperableWindow          OpeningKind = "OperableWindow"
	GlassDoor               OpeningKind = "GlassDoor"
	Door                    OpeningKind = "Door"
	OverheadDoor            OpeningKind = "OverheadDoor"
	Skylight                OpeningKind = "Skylight"
	TubularDaylightDome     OpeningKind = "TubularDaylightDome"
	TubularDaylightDiffuser OpeningKind = "TubularDaylightDiffuser"
)

// Family groups opening kinds by the PSI types their perimeters receive.
type Family int

const (
	WindowFamily Family = iota
	DoorFamily
	SkylightFamily
)

// Family returns the fenestration family of k. Unknown kinds are windows.
func (k OpeningKind) Family() Family {
	switch k {
	case Door, OverheadDoor:
		return DoorFamily
	case Skylight, TubularDaylightDome, TubularDaylightDiffuser:
		return SkylightFamily
	default:
		return WindowFamily
	}
}

// Conditioning describes whether a space is heated or cooled.
type Conditioning int

const (
	Unconditioned Conditioning = iota
	Conditioned
	IndirectlyConditioned
)

func (c Conditioning) String() string {
	switch c {
	case Conditioned:
		return "conditioned"
	case IndirectlyConditioned:
		return "indirectly-conditioned"
	default:
		return "unconditioned"
	}
}

// Space is a thermal zone with its story and space type.
type Space struct {
	ID        string
	Story     string
	SpaceType string
	Heated    bool
	Cooled    bool
	Plenum    bool
}

// Conditioning derives the conditioning state from setpoint presence.
func (s *Space) Conditioning() Conditioning {
	switch {
	case s.Heated || s.Cooled:
		return Conditioned
	case s.Plenum:
		return IndirectlyConditioned
	default:
		return Unconditioned
	}
}

// Layer is one material layer of a construction. Massless layers carry a
// resistance; standard layers carry thickness and conductivity.
type Layer struct {
	ID           string
	Massless     bool
	Thickness    float64 // m
	Conductivity float64 // W/mK
	Resistance   float64 // m2K/W, massless only
	// Derated marks a layer produced by a previous derating run.
	Derated bool
}

// R returns the thermal resistance of the layer in m2K/W.
func (l Layer) R() float64 {
	if l.Massless {
		return l.Resistance
	}
	if l.Conductivity <= 0 {
		return 0
	}
	return l.Thickness / l.Conductivity
}

// Construction is an ordered layer stack with one insulating layer.
type Construction struct {
	ID     string
	Layers []Layer
	// FilmResistance is the combined air film resistance in m2K/W.
	FilmResistance float64
	// Insulating is the index of the insulating layer, or -1.
	Insulating int
}

// RSI returns the total resistance including films.
func (c *Construction) RSI() float64 {
	r := c.FilmResistance
	for _, l := range c.Layers {
		r += l.R()
	}
	return r
}

// InsulatingLayer returns the designated insulating layer.
func (c *Construction) InsulatingLayer() (Layer, bool) {
	if c == nil || c.Insulating < 0 || c.Insulating >= len(c.Layers) {
		return Layer{}, false
	}
	return c.Layers[c.Insulating], true
}

// Clone returns a deep copy of c.
func (c *Construction) Clone() *Construction {
	out := *c
	out.Layers = append([]Layer(nil), c.Layers...)
	return &out
}

// Surface is an opaque envelope or interior surface.
type Surface struct {
	ID       string
	Vertices geometry.Polygon
	Class    SurfaceClass
	Boundary BoundaryCondition
	// AdjacentSurface is set when Boundary is Adjacent.
	AdjacentSurface string
	Space           string
	Construction    *Construction
	Spandrel        bool
}

// Opening is a window, door or skylight hosted by exactly one surface.
type Opening struct {
	ID       string
	Vertices geometry.Polygon
	Host     string
	Kind     OpeningKind
	UFactor  float64
}

// Shade is a shading or canopy surface. Shades never receive heat loss.
type Shade struct {
	ID       string
	Vertices geometry.Polygon
}
