package psi

import (
	"strings"
)

// Type is an edge-type symbol.
type Type string

const (
	RimJoist     Type = "rimjoist"
	Parapet      Type = "parapet"
	Roof         Type = "roof"
	Fenestration Type = "fenestration"
	Head         Type = "head"
	Sill         Type = "sill"
	Jamb         Type = "jamb"
	Door         Type = "door"
	DoorHead     Type = "door-head"
	DoorSill     Type = "door-sill"
	DoorJamb     Type = "door-jamb"
	Skylight     Type = "skylight"
	SkylightHead Type = "skylight-head"
	SkylightSill Type = "skylight-sill"
	SkylightJamb Type = "skylight-jamb"
	Spandrel     Type = "spandrel"
	Corner       Type = "corner"
	Balcony      Type = "balcony"
	BalconySill  Type = "balcony-sill"
	Party        Type = "party"
	Grade        Type = "grade"
	Joint        Type = "joint"
	Transition   Type = "transition"
)

const (
	concaveSuffix = "-concave"
	convexSuffix  = "-convex"
)

// bases lists every undecorated type in registration order.
var bases = []Type{
	RimJoist, Parapet, Roof, Fenestration, Head, Sill, Jamb,
	Door, DoorHead, DoorSill, DoorJamb,
	Skylight, SkylightHead, SkylightSill, SkylightJamb,
	Spandrel, Corner, Balcony, BalconySill, Party, Grade, Joint, Transition,
}

// decorable types accept -concave / -convex variants.
var decorable = map[Type]bool{
	RimJoist: true, Parapet: true, Roof: true, Head: true, Sill: true, Jamb: true,
	Spandrel: true, Corner: true, Balcony: true, BalconySill: true, Party: true, Grade: true,
}

// Mandatory types must be present in a building default set.
var Mandatory = []Type{RimJoist, Parapet, Fenestration, Corner, Balcony, Party, Grade}

// Bases returns all undecorated types.
func Bases() []Type {
	return append([]Type(nil), bases...)
}

// Base strips a concave/convex decoration.
func Base(t Type) Type {
	s := string(t)
	if b, ok := strings.CutSuffix(s, concaveSuffix); ok {
		return Type(b)
	}
	if b, ok := strings.CutSuffix(s, convexSuffix); ok {
		return Type(b)
	}
	return t
}

// Concave returns the concave variant of a decorable type.
func Concave(t Type) Type {
	if !decorable[Base(t)] {
		return Base(t)
	}
	return Base(t) + concaveSuffix
}

// Convex returns the convex variant of a decorable type.
func Convex(t Type) Type {
	if !decorable[Base(t)] {
		return Base(t)
	}
	return Base(t) + convexSuffix
}

// Valid reports whether t is a known base type or a decoration of a
// decorable one.
func Valid(t Type) bool {
	b := Base(t)
	if b == t {
		for _, x := range bases {
			if x == t {
				return true
			}
		}
		return false
	}
	return decorable[b]
}

// IsFenestration reports whether t is a window, door or skylight perimeter
// type.
func IsFenestration(t Type) bool {
	switch Base(t) {
	case Fenestration, Head, Sill, Jamb,
		Door, DoorHead, DoorSill, DoorJamb,
		Skylight, SkylightHead, SkylightSill, SkylightJamb:
		return true
	}
	return false
}

// Chain returns the lookup order for t within one set.
func Chain(t Type) []Type {
	out := []Type{t}
	b := Base(t)
	if b != t {
		out = append(out, b)
	}
	switch b {
	case Head, Sill, Jamb:
		out = append(out, Fenestration)
	case DoorHead, DoorSill, DoorJamb:
		out = append(out, Door, Fenestration)
	case SkylightHead, SkylightSill, SkylightJamb:
		out = append(out, Skylight, Fenestration)
	case Door, Skylight:
		out = append(out, Fenestration)
	case BalconySill:
		out = append(out, Balcony)
	case Roof:
		out = append(out, Parapet)
	}
	return out
}
