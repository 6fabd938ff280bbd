package model

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrSurfaceNotFound   = errors.New("surface not found")
	ErrNoInsulatingLayer = errors.New("construction has no insulating layer")
	ErrDuplicateID       = errors.New("duplicate id")
)

// Provider is the read side of a building model plus the single write the
// derating step performs.
type Provider interface {
	Surfaces() []Surface
	Openings() []Opening
	Shades() []Shade
	Space(id string) (*Space, bool)
	// ReplaceInsulatingLayer swaps the insulating layer of one surface. The
	// surface's construction is cloned first so shared constructions are
	// never modified in place.
	ReplaceInsulatingLayer(surfaceID string, layer Layer) error
}

// Model is an in-memory Provider.
type Model struct {
	mu       sync.RWMutex
	surfaces []Surface
	index    map[string]int
	openings []Opening
	shades   []Shade
	spaces   map[string]*Space
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		index:  make(map[string]int),
		spaces: make(map[string]*Space),
	}
}

// AddSpace registers a space.
func (m *Model) AddSpace(s Space) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.spaces[s.ID]; ok {
		return fmt.Errorf("space %q: %w", s.ID, ErrDuplicateID)
	}
	m.spaces[s.ID] = &s
	return nil
}

// AddSurface registers an opaque surface.
func (m *Model) AddSurface(s Surface) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[s.ID]; ok {
		return fmt.Errorf("surface %q: %w", s.ID, ErrDuplicateID)
	}
	m.index[s.ID] = len(m.surfaces)
	m.surfaces = append(m.surfaces, s)
	return nil
}

// AddOpening registers an opening. The host is checked when the catalog is
// built, not here.
func (m *Model) AddOpening(o Opening) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openings = append(m.openings, o)
}

// AddShade registers a shading surface.
func (m *Model) AddShade(s Shade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shades = append(m.shades, s)
}

func (m *Model) Surfaces() []Surface {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Surface(nil), m.surfaces...)
}

func (m *Model) Openings() []Opening {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Opening(nil), m.openings...)
}

func (m *Model) Shades() []Shade {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Shade(nil), m.shades...)
}

func (m *Model) Space(id string) (*Space, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.spaces[id]
	return s, ok
}

// Surface returns a copy of one surface.
func (m *Model) Surface(id string) (Surface, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.index[id]
	if !ok {
		return Surface{}, false
	}
	return m.surfaces[i], true
}

func (m *Model) ReplaceInsulatingLayer(surfaceID string, layer Layer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[surfaceID]
	if !ok {
		return fmt.Errorf("surface %q: %w", surfaceID, ErrSurfaceNotFound)
	}
	s := &m.surfaces[i]
	if _, ok := s.Construction.InsulatingLayer(); !ok {
		return fmt.Errorf("surface %q: %w", surfaceID, ErrNoInsulatingLayer)
	}
	c := s.Construction.Clone()
	c.ID = derivedID(c.ID, surfaceID)
	c.Layers[c.Insulating] = layer
	s.Construction = c
	return nil
}

// derivedID names a per-surface construction clone.
func derivedID(constructionID, surfaceID string) string {
	return fmt.Sprintf("%s:%s c tbd", surfaceID, constructionID)
}
