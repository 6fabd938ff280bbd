package psi

import (
	"fmt"
	"math"

	"github.com/dd0wney/tbd/pkg/logging"
)

// Tier identifies the override level that supplied a factor.
type Tier int

const (
	TierNone Tier = iota
	TierEdge
	TierSurface
	TierSpace
	TierSpaceType
	TierStory
	TierBuilding
)

var tierNames = [...]string{"none", "edge", "surface", "space", "spacetype", "story", "building"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// SurfaceScope locates one deratable surface of an edge in the building.
type SurfaceScope struct {
	ID        string
	Space     string
	SpaceType string
	Story     string
}

// Scope is what the resolver needs to know about an edge.
type Scope struct {
	// Edge is the set named by an edge override, if any.
	Edge     string
	Surfaces []SurfaceScope
}

// Resolution is the outcome for one edge.
type Resolution struct {
	Type   Type
	Key    Type
	Factor float64
	Set    string
	Tier   Tier
}

// Hierarchy layers PSI sets by scope.
type Hierarchy struct {
	lib        *Library
	building   string
	stories    map[string]string
	spaceTypes map[string]string
	spaces     map[string]string
	surfaces   map[string]string
}

// NewHierarchy binds the building default. An empty id selects DefaultSet;
// an unknown or incomplete default is logged and replaced by the
// non-thermal-bridging set.
func NewHierarchy(lib *Library, building string, log logging.Logger) *Hierarchy {
	if log == nil {
		log = logging.NopLogger{}
	}
	h := &Hierarchy{
		lib:        lib,
		stories:    make(map[string]string),
		spaceTypes: make(map[string]string),
		spaces:     make(map[string]string),
		surfaces:   make(map[string]string),
	}
	if building == "" {
		building = DefaultSet
	}
	set, err := lib.PSI(building)
	switch {
	case err != nil:
		log.Error("building default set not found",
			logging.SetID(building), logging.Error(err))
		building = NonThermalBridging
	case !set.Complete():
		log.Error("building default set is incomplete",
			logging.SetID(building),
			logging.Any("missing", set.Missing()),
			logging.Error(ErrIncompleteDefault))
		building = NonThermalBridging
	}
	if !lib.HasPSI(building) {
		nb := BuiltinSets()[0]
		_ = lib.AddPSI(nb)
	}
	h.building = building
	return h
}

// Building returns the effective building default set id.
func (h *Hierarchy) Building() string {
	return h.building
}

func (h *Hierarchy) bind(m map[string]string, key, set string) error {
	if !h.lib.HasPSI(set) {
		return fmt.Errorf("%w: psi %q for %q", ErrUnknownSet, set, key)
	}
	m[key] = set
	return nil
}

// SetStory assigns a set to a story.
func (h *Hierarchy) SetStory(story, set string) error { return h.bind(h.stories, story, set) }

// SetSpaceType assigns a set to a space type.
func (h *Hierarchy) SetSpaceType(spaceType, set string) error {
	return h.bind(h.spaceTypes, spaceType, set)
}

// SetSpace assigns a set to a space.
func (h *Hierarchy) SetSpace(space, set string) error { return h.bind(h.spaces, space, set) }

// SetSurface assigns a set to a surface.
func (h *Hierarchy) SetSurface(surface, set string) error {
	return h.bind(h.surfaces, surface, set)
}

// SurfaceSet returns the set bound to a surface, if any.
func (h *Hierarchy) SurfaceSet(surface string) (string, bool) {
	s, ok := h.surfaces[surface]
	return s, ok
}

// Resolve selects the final type and factor for an edge. For each candidate
// the first tier yielding a value wins; among candidates the largest
// magnitude wins and ties keep the earlier candidate. Candidates no tier can
// resolve are returned as unresolved. An unresolved transition resolves to
// zero. When nothing resolves, the result is a zero transition with
// TierNone.
func (h *Hierarchy) Resolve(candidates []Type, scope Scope) (Resolution, []Type) {
	var (
		best       Resolution
		found      bool
		unresolved []Type
	)
	for _, c := range candidates {
		r, ok := h.resolveOne(c, scope)
		if !ok {
			if Base(c) != Transition {
				unresolved = append(unresolved, c)
				continue
			}
			r = Resolution{Type: c, Key: c}
		}
		if !found || math.Abs(r.Factor) > math.Abs(best.Factor) {
			best = r
			found = true
		}
	}
	if !found {
		return Resolution{Type: Transition, Key: Transition}, unresolved
	}
	return best, unresolved
}

func (h *Hierarchy) resolveOne(t Type, scope Scope) (Resolution, bool) {
	if scope.Edge != "" {
		if r, ok := h.fromSets(t, TierEdge, []string{scope.Edge}); ok {
			return r, true
		}
	}
	tiers := []struct {
		tier Tier
		m    map[string]string
		key  func(SurfaceScope) string
	}{
		{TierSurface, h.surfaces, func(s SurfaceScope) string { return s.ID }},
		{TierSpace, h.spaces, func(s SurfaceScope) string { return s.Space }},
		{TierSpaceType, h.spaceTypes, func(s SurfaceScope) string { return s.SpaceType }},
		{TierStory, h.stories, func(s SurfaceScope) string { return s.Story }},
	}
	for _, tr := range tiers {
		var ids []string
		for _, s := range scope.Surfaces {
			k := tr.key(s)
			if k == "" {
				continue
			}
			if id, ok := tr.m[k]; ok {
				ids = append(ids, id)
			}
		}
		if r, ok := h.fromSets(t, tr.tier, ids); ok {
			return r, true
		}
	}
	return h.fromSets(t, TierBuilding, []string{h.building})
}

// fromSets looks t up in each set of one tier and keeps the largest
// magnitude; ties keep the earlier set.
func (h *Hierarchy) fromSets(t Type, tier Tier, ids []string) (Resolution, bool) {
	var (
		best  Resolution
		found bool
	)
	for _, id := range ids {
		set, err := h.lib.PSI(id)
		if err != nil {
			continue
		}
		v, key, ok := set.Lookup(t)
		if !ok {
			continue
		}
		if !found || math.Abs(v) > math.Abs(best.Factor) {
			best = Resolution{Type: t, Key: key, Factor: v, Set: id, Tier: tier}
			found = true
		}
	}
	return best, found
}
