package model_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/tbd/pkg/logging"
	"github.com/dd0wney/tbd/pkg/model"
	"github.com/dd0wney/tbd/pkg/model/modeltest"
)

func TestCatalogBox(t *testing.T) {
	col := logging.NewCollector(nil)
	cat := model.NewCatalog(modeltest.Box(modeltest.BoxOptions{Window: true, Canopy: true}), col)

	wall, ok := cat.Lookup(modeltest.SouthWall)
	require.True(t, ok)
	assert.Equal(t, model.RoleWall, wall.Role)
	assert.True(t, wall.Deratable)
	assert.Equal(t, "level-1", wall.Story)
	assert.Equal(t, "office", wall.SpaceType)
	assert.InDelta(t, 30.0, wall.GrossArea, 1e-9)
	assert.InDelta(t, 27.0, wall.NetArea, 1e-9)
	require.Len(t, wall.Openings, 1)

	win, ok := cat.Lookup(modeltest.Window)
	require.True(t, ok)
	assert.Equal(t, model.RoleOpening, win.Role)
	assert.Equal(t, wall.Index, win.Host)
	assert.False(t, win.Deratable)

	slab, _ := cat.Lookup(modeltest.Slab)
	assert.False(t, slab.Deratable, "ground floors are not derated")

	canopy, _ := cat.Lookup(modeltest.Canopy)
	assert.Equal(t, model.RoleShade, canopy.Role)
	assert.False(t, canopy.Deratable)

	assert.Len(t, cat.Deratables(), 5)
	assert.True(t, col.Clean())
}

func TestCatalogUnconditioned(t *testing.T) {
	cat := model.NewCatalog(modeltest.Box(modeltest.BoxOptions{Unconditioned: true}), logging.NopLogger{})
	assert.Empty(t, cat.Deratables())
}

func TestCatalogOrphanAndDuplicate(t *testing.T) {
	m := modeltest.Zone()
	wall := modeltest.Exterior("w", model.Wall, modeltest.Insulated("w", 2),
		modeltest.Rect(r3.Vec{}, r3.Vec{X: 4, Z: 3}, modeltest.South))
	require.NoError(t, m.AddSurface(wall))
	assert.ErrorIs(t, m.AddSurface(wall), model.ErrDuplicateID)
	m.AddOpening(model.Opening{ID: "lost", Host: "nowhere",
		Vertices: modeltest.Rect(r3.Vec{X: 1, Z: 1}, r3.Vec{X: 2, Z: 2}, modeltest.South)})
	m.AddOpening(model.Opening{ID: "w", Host: "w",
		Vertices: modeltest.Rect(r3.Vec{X: 1, Z: 1}, r3.Vec{X: 2, Z: 2}, modeltest.South)})

	col := logging.NewCollector(nil)
	cat := model.NewCatalog(m, col)
	assert.Len(t, cat.Records, 1)
	_, ok := cat.Lookup("lost")
	assert.False(t, ok)
	assert.Len(t, col.RecordsAt(logging.ErrorLevel), 2)
}

func TestCatalogOpeningsCoverSurface(t *testing.T) {
	m := modeltest.Zone()
	require.NoError(t, m.AddSurface(modeltest.Exterior("w", model.Wall, modeltest.Insulated("w", 2),
		modeltest.Rect(r3.Vec{}, r3.Vec{X: 2, Z: 2}, modeltest.South))))
	m.AddOpening(model.Opening{ID: "glass", Host: "w", Kind: model.FixedWindow,
		Vertices: modeltest.Rect(r3.Vec{}, r3.Vec{X: 2, Z: 2}, modeltest.South)})

	cat := model.NewCatalog(m, logging.NopLogger{})
	w, _ := cat.Lookup("w")
	assert.True(t, w.Excluded)
	assert.False(t, w.Deratable)
}

func TestCatalogAdjacent(t *testing.T) {
	m := modeltest.Zone()
	require.NoError(t, m.AddSpace(model.Space{ID: "attic"}))
	require.NoError(t, m.AddSpace(model.Space{ID: "plenum", Plenum: true}))
	ceiling := modeltest.Insulated("ceiling", 5)
	add := func(id, space, adjacent string) {
		require.NoError(t, m.AddSurface(model.Surface{
			ID:              id,
			Class:           model.RoofCeiling,
			Boundary:        model.Adjacent,
			AdjacentSurface: adjacent,
			Space:           space,
			Construction:    ceiling,
			Vertices:        modeltest.Rect(r3.Vec{Z: 3}, r3.Vec{X: 4, Y: 4, Z: 3}, modeltest.Up),
		}))
	}
	add("below-attic", "zone", "attic-floor")
	add("attic-floor", "attic", "below-attic")
	add("below-plenum", "zone", "plenum-floor")
	add("plenum-floor", "plenum", "below-plenum")

	cat := model.NewCatalog(m, logging.NopLogger{})
	for id, want := range map[string]bool{
		"below-attic":  true,
		"attic-floor":  false,
		"below-plenum": false,
		"plenum-floor": false,
	} {
		r, ok := cat.Lookup(id)
		require.True(t, ok, id)
		assert.Equal(t, want, r.Deratable, id)
	}
}

func TestCatalogNoInsulation(t *testing.T) {
	m := modeltest.Zone()
	bare := &model.Construction{ID: "bare", Insulating: -1, Layers: []model.Layer{{ID: "brick", Thickness: 0.1, Conductivity: 0.8}}}
	require.NoError(t, m.AddSurface(modeltest.Exterior("w", model.Wall, bare,
		modeltest.Rect(r3.Vec{}, r3.Vec{X: 4, Z: 3}, modeltest.South))))
	col := logging.NewCollector(nil)
	cat := model.NewCatalog(m, col)
	assert.Empty(t, cat.Deratables())
	assert.Equal(t, logging.WarnLevel, col.Status())
}

func TestSpaceConditioning(t *testing.T) {
	assert.Equal(t, model.Conditioned, (&model.Space{Cooled: true}).Conditioning())
	assert.Equal(t, model.IndirectlyConditioned, (&model.Space{Plenum: true}).Conditioning())
	assert.Equal(t, model.Unconditioned, (&model.Space{}).Conditioning())
}

func TestOpeningFamily(t *testing.T) {
	assert.Equal(t, model.DoorFamily, model.OverheadDoor.Family())
	assert.Equal(t, model.SkylightFamily, model.TubularDaylightDome.Family())
	assert.Equal(t, model.WindowFamily, model.GlassDoor.Family())
	assert.Equal(t, model.WindowFamily, model.OpeningKind("Porthole").Family())
}

func TestLayerR(t *testing.T) {
	assert.InDelta(t, 2.5, model.Layer{Thickness: 0.1, Conductivity: 0.04}.R(), 1e-12)
	assert.InDelta(t, 3.0, model.Layer{Massless: true, Resistance: 3}.R(), 1e-12)
	assert.Zero(t, model.Layer{Thickness: 0.1}.R())

	c := modeltest.Insulated("wall", 2)
	assert.InDelta(t, 0.17+0.0127/0.16+2, c.RSI(), 1e-9)
}

func TestReplaceInsulatingLayer(t *testing.T) {
	m := modeltest.Box(modeltest.BoxOptions{})
	south, _ := m.Surface(modeltest.SouthWall)
	shared := south.Construction

	derated := model.Layer{ID: "wall insulation tbd", Thickness: 0.1, Conductivity: 0.06, Derated: true}
	require.NoError(t, m.ReplaceInsulatingLayer(modeltest.SouthWall, derated))

	south, _ = m.Surface(modeltest.SouthWall)
	l, ok := south.Construction.InsulatingLayer()
	require.True(t, ok)
	assert.Equal(t, derated, l)
	assert.NotEqual(t, shared.ID, south.Construction.ID)

	north, _ := m.Surface(modeltest.NorthWall)
	assert.Same(t, shared, north.Construction, "other surfaces keep the shared construction")
	orig, _ := shared.InsulatingLayer()
	assert.False(t, orig.Derated)

	err := m.ReplaceInsulatingLayer("missing", derated)
	assert.True(t, errors.Is(err, model.ErrSurfaceNotFound))
}

const sample = `
spaces:
  - id: zone
    story: level-1
    spacetype: office
    heated: true
constructions:
  - id: wall
    film: 0.17
    insulating: 1
    layers:
      - id: gypsum
        thickness: 0.0127
        conductivity: 0.16
      - id: mineral wool
        resistance: 2.5
surfaces:
  - id: south
    class: Wall
    boundary: Outdoors
    space: zone
    construction: wall
    vertices: [[0, 0, 3], [0, 0, 0], [4, 0, 0], [4, 0, 3]]
openings:
  - id: window
    host: south
    kind: FixedWindow
    ufactor: 2.0
    vertices: [[1, 0, 2], [1, 0, 1], [2, 0, 1], [2, 0, 2]]
shades:
  - id: fin
    vertices: [[0, 0, 3], [0, -1, 3], [0, -1, 0], [0, 0, 0]]
`

func TestLoad(t *testing.T) {
	m, err := model.Load(strings.NewReader(sample))
	require.NoError(t, err)

	s, ok := m.Surface("south")
	require.True(t, ok)
	assert.Equal(t, model.Wall, s.Class)
	l, ok := s.Construction.InsulatingLayer()
	require.True(t, ok)
	assert.True(t, l.Massless)
	assert.InDelta(t, 2.5, l.R(), 1e-12)
	assert.Len(t, m.Openings(), 1)
	assert.Len(t, m.Shades(), 1)

	_, err = model.Load(strings.NewReader("surfaces:\n  - id: x\n    construction: nope\n"))
	assert.Error(t, err)
}

func TestDocumentRoundTrip(t *testing.T) {
	m, err := model.Load(strings.NewReader(sample))
	require.NoError(t, err)
	require.NoError(t, m.ReplaceInsulatingLayer("south", model.Layer{ID: "mineral wool tbd", Massless: true, Resistance: 2.1, Derated: true}))

	data, err := yaml.Marshal(m.Document())
	require.NoError(t, err)
	back, err := model.Load(bytes.NewReader(data))
	require.NoError(t, err)

	s, _ := back.Surface("south")
	l, ok := s.Construction.InsulatingLayer()
	require.True(t, ok)
	assert.True(t, l.Derated)
	assert.InDelta(t, 2.1, l.R(), 1e-12)
	orig, _ := m.Surface("south")
	assert.Equal(t, orig.Vertices, s.Vertices)
	assert.Equal(t, orig.Construction.ID, s.Construction.ID)
	assert.Len(t, back.Openings(), 1)
}
