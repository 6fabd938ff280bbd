package topology

import (
	"github.com/dd0wney/tbd/pkg/logging"
	"github.com/dd0wney/tbd/pkg/model"
)

// FromCatalog builds the graph of every usable record. Owners are catalog
// indices; opaque surfaces carry their openings as hole wires. Records whose
// polygon is rejected are excluded from the catalog for the rest of the run.
func FromCatalog(cat *model.Catalog, tol float64, log logging.Logger) *Graph {
	log = log.With(logging.Component("topology"))
	b := NewBuilder(tol)

	for i := range cat.Records {
		r := &cat.Records[i]
		if r.Excluded {
			continue
		}
		var holes []Hole
		for _, o := range r.Openings {
			holes = append(holes, Hole{Owner: o, Polygon: cat.Records[o].Polygon})
		}
		_, err := b.AddFace(i, r.Polygon, holes...)
		switch {
		case err == nil:
		case r.Role.Opaque() && !hasFace(b, i):
			log.Fatal("degenerate surface polygon", logging.SurfaceID(r.ID), logging.Error(err))
			cat.Exclude(i)
		case hasFace(b, i):
			log.Error("degenerate opening outline", logging.SurfaceID(r.ID), logging.Error(err))
		default:
			log.Error("degenerate polygon", logging.SurfaceID(r.ID), logging.Error(err))
			cat.Exclude(i)
		}
	}

	g := b.Graph()
	log.Debug("topology built",
		logging.Int("vertices", len(g.Vertices)),
		logging.Int("edges", len(g.Edges)),
		logging.Int("faces", len(g.Faces)))
	return g
}

func hasFace(b *Builder, owner int) bool {
	_, ok := b.g.byOwner[owner]
	return ok
}
