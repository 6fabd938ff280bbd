package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/tbd/pkg/geometry"
	"github.com/dd0wney/tbd/pkg/logging"
	"github.com/dd0wney/tbd/pkg/model"
	"github.com/dd0wney/tbd/pkg/model/modeltest"
)

func TestFromCatalog_BoxWithOpenings(t *testing.T) {
	log := logging.NewCollector(nil)
	m := modeltest.Box(modeltest.BoxOptions{Window: true, Door: true, Skylight: true})
	cat := model.NewCatalog(m, log)

	g := FromCatalog(cat, 0, log)
	assert.True(t, log.Clean())
	assert.Len(t, g.Faces, len(cat.Records))

	wall, ok := cat.Lookup(modeltest.SouthWall)
	require.True(t, ok)
	f, ok := g.FaceOf(wall.Index)
	require.True(t, ok)
	require.Len(t, g.Faces[f].Wires, 2)

	win, _ := cat.Lookup(modeltest.Window)
	assert.Equal(t, []int{win.Index}, g.Faces[f].Holes)

	// every window edge is shared by exactly the window and its host
	wf, _ := g.FaceOf(win.Index)
	for _, e := range g.Faces[wf].Edges {
		assert.Len(t, g.Edges[e].Faces, 2)
	}
}

func TestFromCatalog_DegenerateSurfaceIsFatal(t *testing.T) {
	m := modeltest.Box(modeltest.BoxOptions{})
	require.NoError(t, m.AddSurface(model.Surface{
		ID:           "sliver",
		Class:        model.Wall,
		Boundary:     model.Outdoors,
		Space:        "zone",
		Construction: modeltest.Insulated("wall", 2),
		Vertices: geometry.Polygon{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0},
		},
	}))
	log := logging.NewCollector(nil)
	cat := model.NewCatalog(m, log)

	g := FromCatalog(cat, 0, log)
	assert.Equal(t, logging.FatalLevel, log.Status())

	r, _ := cat.Lookup("sliver")
	assert.True(t, r.Excluded)
	_, ok := g.FaceOf(r.Index)
	assert.False(t, ok)
	assert.Len(t, g.Faces, len(cat.Records)-1)
}

func TestFromCatalog_DegenerateOpening(t *testing.T) {
	m := modeltest.Box(modeltest.BoxOptions{})
	m.AddOpening(model.Opening{
		ID:   "slot",
		Host: modeltest.SouthWall,
		Kind: model.FixedWindow,
		Vertices: geometry.Polygon{
			{X: 1, Z: 1}, {X: 1.001, Z: 1}, {X: 1.001, Z: 1.001}, {X: 1, Z: 1.001},
		},
	})
	log := logging.NewCollector(nil)
	cat := model.NewCatalog(m, log)

	g := FromCatalog(cat, 0, log)
	assert.Equal(t, logging.ErrorLevel, log.Status())

	wall, _ := cat.Lookup(modeltest.SouthWall)
	assert.False(t, wall.Excluded)
	f, ok := g.FaceOf(wall.Index)
	require.True(t, ok)
	assert.Len(t, g.Faces[f].Wires, 1)

	slot, _ := cat.Lookup("slot")
	assert.True(t, slot.Excluded)
}
