package psi

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSet        = errors.New("unknown set")
	ErrDuplicateSet      = errors.New("duplicate set")
	ErrInvalidSet        = errors.New("invalid set")
	ErrUnknownType       = errors.New("unknown edge type")
	ErrIncompleteDefault = errors.New("building default set is incomplete")
)

// Library holds registered PSI sets and KHI entries. Ids are unique within
// each kind. Registration order is preserved for export.
type Library struct {
	sets   map[string]*Set
	order  []string
	points map[string]Point
	porder []string
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{
		sets:   make(map[string]*Set),
		points: make(map[string]Point),
	}
}

// DefaultLibrary returns a library preloaded with the built-in sets.
func DefaultLibrary() *Library {
	lib := NewLibrary()
	for _, s := range BuiltinSets() {
		if err := lib.AddPSI(s); err != nil {
			panic(err)
		}
	}
	for _, p := range BuiltinPoints() {
		if err := lib.AddKHI(p); err != nil {
			panic(err)
		}
	}
	return lib
}

// AddPSI validates and registers a PSI set.
func (l *Library) AddPSI(s Set) error {
	if err := ValidateSet(&s); err != nil {
		return err
	}
	if _, ok := l.sets[s.ID]; ok {
		return fmt.Errorf("%w: psi %q", ErrDuplicateSet, s.ID)
	}
	l.sets[s.ID] = s.Clone()
	l.order = append(l.order, s.ID)
	return nil
}

// AddKHI validates and registers a KHI entry.
func (l *Library) AddKHI(p Point) error {
	if err := ValidatePoint(&p); err != nil {
		return err
	}
	if _, ok := l.points[p.ID]; ok {
		return fmt.Errorf("%w: khi %q", ErrDuplicateSet, p.ID)
	}
	l.points[p.ID] = p
	l.porder = append(l.porder, p.ID)
	return nil
}

// PSI returns the set registered under id.
func (l *Library) PSI(id string) (*Set, error) {
	s, ok := l.sets[id]
	if !ok {
		return nil, fmt.Errorf("%w: psi %q", ErrUnknownSet, id)
	}
	return s, nil
}

// KHI returns the point entry registered under id.
func (l *Library) KHI(id string) (Point, error) {
	p, ok := l.points[id]
	if !ok {
		return Point{}, fmt.Errorf("%w: khi %q", ErrUnknownSet, id)
	}
	return p, nil
}

// HasPSI reports whether id is a registered PSI set.
func (l *Library) HasPSI(id string) bool {
	_, ok := l.sets[id]
	return ok
}

// PSIs returns the registered sets in registration order.
func (l *Library) PSIs() []*Set {
	out := make([]*Set, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.sets[id])
	}
	return out
}

// KHIs returns the registered point entries in registration order.
func (l *Library) KHIs() []Point {
	out := make([]Point, 0, len(l.porder))
	for _, id := range l.porder {
		out = append(out, l.points[id])
	}
	return out
}
