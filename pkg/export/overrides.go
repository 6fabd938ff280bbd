package export

import (
	"github.com/dd0wney/tbd/pkg/config"
	"github.com/dd0wney/tbd/pkg/psi"
	"github.com/dd0wney/tbd/pkg/tbd"
)

// Overrides turns res into a configuration document that pins every edge
// to the type and set it resolved to. Running with the document reproduces
// the same classification. Built-in sets are referenced by id only; user
// sets are written when something uses them.
func Overrides(res *tbd.Result) *config.Document {
	cfg := res.Config
	if cfg == nil {
		cfg = config.Default()
	}
	d := cfg.Document()
	d.Description = "edge overrides of run " + res.RunID

	used := make(map[string]bool)
	use := func(id string) {
		if id != "" {
			used[id] = true
		}
	}
	use(cfg.Building)
	for _, m := range []map[string]string{cfg.Stories, cfg.SpaceTypes, cfg.Spaces} {
		for _, id := range m {
			use(id)
		}
	}
	for _, s := range cfg.Surfaces {
		use(s.PSI)
	}

	d.Edges = nil
	for _, e := range res.Edges {
		set := e.Set
		if set == "" {
			set = psi.NonThermalBridging
		}
		use(set)
		d.Edges = append(d.Edges, config.EdgeDoc{
			PSI:      set,
			Type:     string(e.Type),
			Surfaces: append([]string(nil), e.Faces...),
			V0:       []float64{e.V0.X, e.V0.Y, e.V0.Z},
			V1:       []float64{e.V1.X, e.V1.Y, e.V1.Z},
		})
	}

	d.PSIs = nil
	for _, s := range cfg.PSIs {
		if !used[s.ID] || psi.IsBuiltin(s.ID) {
			continue
		}
		if res.Library != nil && !res.Library.HasPSI(s.ID) {
			continue
		}
		p := config.PSIDoc{ID: s.ID, Values: make(map[string]float64, len(s.Values))}
		for k, v := range s.Values {
			p.Values[string(k)] = v
		}
		d.PSIs = append(d.PSIs, p)
	}
	return d
}
