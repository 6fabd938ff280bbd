// Package classifier assigns thermal bridge types to analyzed edges.
//
// Every deratable face on an edge is paired with every other face, in polar
// order, and the pair runs through an ordered rule list. The first rule that
// matches yields the pair's candidate. Candidates are collected per edge in
// registration order without duplicates; choosing among them is left to the
// factor resolver.
package classifier

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dd0wney/tbd/pkg/analyzer"
	"github.com/dd0wney/tbd/pkg/geometry"
	"github.com/dd0wney/tbd/pkg/model"
	"github.com/dd0wney/tbd/pkg/psi"
)

// Policy holds caller choices that geometry alone cannot settle.
type Policy struct {
	// Parapet selects "parapet" rather than "roof" for wall/roof edges.
	Parapet bool
}

// Result is the classification of one edge.
type Result struct {
	Edge       int
	Candidates []psi.Type
	// Deratable lists the owners of the deratable faces on the edge, in
	// polar order.
	Deratable []int
	// Openings lists the owners of opening faces on the edge.
	Openings []int
	Shaded   bool
}

// Pair is one (deratable face, other face) combination on an edge.
type Pair struct {
	Facts *analyzer.EdgeFacts
	// D and O index Facts.Faces.
	D, O int

	Self, Other *model.Record
	// Opening is set when Other is an opening hosted by Self.
	Opening *model.Record

	Shaded  bool
	Glazed  bool
	Policy  Policy
	Tol     float64
	relates analyzer.Relation
}

// Relation returns how Self and Other meet along the edge.
func (p *Pair) Relation() analyzer.Relation {
	return p.relates
}

// Rule inspects a pair and returns its candidate type when it applies.
type Rule struct {
	Name  string
	Match func(p *Pair) (psi.Type, bool)
}

// DefaultRules is the classification cascade, in priority order.
var DefaultRules = []Rule{
	{"fenestration", fenestration},
	{"spandrel", spandrel},
	{"corner", corner},
	{"parapet", parapet},
	{"party", party},
	{"grade", grade},
	{"rimjoist", rimJoist},
}

// Classifier classifies edges of one catalog.
type Classifier struct {
	cat    *model.Catalog
	policy Policy
	rules  []Rule
	tol    float64
}

// New creates a classifier using DefaultRules.
func New(cat *model.Catalog, policy Policy, tol float64) *Classifier {
	if tol <= 0 {
		tol = geometry.DefaultTolerance
	}
	return &Classifier{cat: cat, policy: policy, rules: DefaultRules, tol: tol}
}

// deratable reports whether the face at position i contributes to derating.
func (c *Classifier) deratable(ef *analyzer.EdgeFacts, i int) bool {
	r := &c.cat.Records[ef.Faces[i].Owner]
	return r.Deratable && !r.Excluded
}

// Classify produces the candidates of one edge. Edges without a deratable
// face return a result with no candidates.
func (c *Classifier) Classify(ef *analyzer.EdgeFacts) Result {
	res := Result{Edge: ef.Edge}
	for i, f := range ef.Faces {
		r := &c.cat.Records[f.Owner]
		switch r.Role {
		case model.RoleShade:
			res.Shaded = true
		case model.RoleOpening:
			res.Openings = append(res.Openings, f.Owner)
		}
		if c.deratable(ef, i) {
			res.Deratable = append(res.Deratable, f.Owner)
		}
	}
	if len(res.Deratable) == 0 {
		return res
	}

	seen := make(map[psi.Type]bool)
	add := func(t psi.Type) {
		if !seen[t] {
			seen[t] = true
			res.Candidates = append(res.Candidates, t)
		}
	}

	for d := range ef.Faces {
		if !c.deratable(ef, d) {
			continue
		}
		self := &c.cat.Records[ef.Faces[d].Owner]
		for o := range ef.Faces {
			if o == d {
				continue
			}
			p := &Pair{
				Facts:   ef,
				D:       d,
				O:       o,
				Self:    self,
				Other:   &c.cat.Records[ef.Faces[o].Owner],
				Shaded:  res.Shaded,
				Glazed:  len(res.Openings) > 0,
				Policy:  c.policy,
				Tol:     c.tol,
				relates: ef.Relation(d, o),
			}
			if p.Other.Role == model.RoleOpening && p.Other.Host == self.Index {
				p.Opening = p.Other
			}
			if t, ok := c.match(p); ok {
				add(t)
			}
		}
	}
	// Transition only covers edges no rule matched.
	if len(res.Candidates) == 0 {
		add(psi.Transition)
	}
	return res
}

func (c *Classifier) match(p *Pair) (psi.Type, bool) {
	for _, r := range c.rules {
		if t, ok := r.Match(p); ok {
			return t, true
		}
	}
	return "", false
}

// decorate applies the pair's concave/convex relation to t.
func decorate(t psi.Type, rel analyzer.Relation) psi.Type {
	switch rel {
	case analyzer.Convex:
		return psi.Convex(t)
	case analyzer.Concave:
		return psi.Concave(t)
	}
	return t
}

func isDeratable(r *model.Record, role model.Role) bool {
	return r.Role == role && r.Deratable && !r.Excluded
}

func fenestration(p *Pair) (psi.Type, bool) {
	if p.Opening == nil {
		return "", false
	}
	ef := p.Facts
	self := ef.Faces[p.D]

	polar := ef.Faces[p.O].Polar

	var pos psi.Type
	switch {
	case ef.Horizontal && !self.Horizontal(p.Tol):
		if r3.Dot(polar, geometry.Zenith) > 0 {
			pos = psi.Sill
		} else {
			pos = psi.Head
		}
	default:
		pos = psi.Jamb
	}

	var t psi.Type
	switch p.Opening.Kind.Family() {
	case model.DoorFamily:
		t = map[psi.Type]psi.Type{psi.Head: psi.DoorHead, psi.Sill: psi.DoorSill, psi.Jamb: psi.DoorJamb}[pos]
	case model.SkylightFamily:
		t = map[psi.Type]psi.Type{psi.Head: psi.SkylightHead, psi.Sill: psi.SkylightSill, psi.Jamb: psi.SkylightJamb}[pos]
	default:
		t = pos
	}
	return decorate(t, p.relates), true
}

func spandrel(p *Pair) (psi.Type, bool) {
	if !isDeratable(p.Self, model.RoleWall) || !isDeratable(p.Other, model.RoleWall) {
		return "", false
	}
	if p.Self.Spandrel == p.Other.Spandrel {
		return "", false
	}
	return decorate(psi.Spandrel, p.relates), true
}

func corner(p *Pair) (psi.Type, bool) {
	if !isDeratable(p.Self, model.RoleWall) || !isDeratable(p.Other, model.RoleWall) {
		return "", false
	}
	if p.relates == analyzer.Flat {
		return "", false
	}
	return decorate(psi.Corner, p.relates), true
}

func parapet(p *Pair) (psi.Type, bool) {
	wallRoof := isDeratable(p.Self, model.RoleWall) && isDeratable(p.Other, model.RoleRoof)
	roofWall := isDeratable(p.Self, model.RoleRoof) && isDeratable(p.Other, model.RoleWall)
	if !wallRoof && !roofWall {
		return "", false
	}
	t := psi.Roof
	if p.Policy.Parapet {
		t = psi.Parapet
	}
	return decorate(t, p.relates), true
}

func party(p *Pair) (psi.Type, bool) {
	if !p.Other.Role.Opaque() || !p.Other.Boundary.IsParty() {
		return "", false
	}
	return decorate(psi.Party, p.relates), true
}

func grade(p *Pair) (psi.Type, bool) {
	if !p.Other.Role.Opaque() || !p.Other.Boundary.IsGround() {
		return "", false
	}
	return decorate(psi.Grade, p.relates), true
}

func rimJoist(p *Pair) (psi.Type, bool) {
	wallFloor := isDeratable(p.Self, model.RoleWall) && p.Other.Role == model.RoleFloor
	floorWall := isDeratable(p.Self, model.RoleFloor) && isDeratable(p.Other, model.RoleWall)
	if !wallFloor && !floorWall {
		return "", false
	}
	t := psi.RimJoist
	switch {
	case p.Shaded && p.Glazed:
		t = psi.BalconySill
	case p.Shaded:
		t = psi.Balcony
	}
	return decorate(t, p.relates), true
}
