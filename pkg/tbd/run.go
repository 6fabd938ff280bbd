package tbd

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/tbd/pkg/analyzer"
	"github.com/dd0wney/tbd/pkg/classifier"
	"github.com/dd0wney/tbd/pkg/config"
	"github.com/dd0wney/tbd/pkg/derate"
	"github.com/dd0wney/tbd/pkg/logging"
	"github.com/dd0wney/tbd/pkg/metrics"
	"github.com/dd0wney/tbd/pkg/model"
	"github.com/dd0wney/tbd/pkg/parallel"
	"github.com/dd0wney/tbd/pkg/psi"
	"github.com/dd0wney/tbd/pkg/topology"
)

// Options configure a run.
type Options struct {
	// Config defaults to config.Default().
	Config *config.Config
	// Collector receives the run's diagnostics. It is reset on entry. A new
	// one is created when nil.
	Collector *logging.Collector
	// Logger, when set, also receives every diagnostic.
	Logger logging.Logger
	// Metrics, when set, records run statistics.
	Metrics *metrics.Registry
	// DryRun computes everything but leaves the model untouched.
	DryRun bool
}

// edgeWork is the per-edge output of the parallel stage.
type edgeWork struct {
	facts      analyzer.EdgeFacts
	err        error
	class      classifier.Result
	override   *config.EdgeOverride
	resolution psi.Resolution
	unresolved []psi.Type
}

// Run derates the envelope of p. Only a nil provider or invalid options
// return an error; every other problem is recorded in Result.Log.
func Run(p model.Provider, opts Options) (*Result, error) {
	if p == nil {
		return nil, NewError("run").Cause(ErrNilProvider).Err()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := checkOptions(cfg.Options); err != nil {
		return nil, NewError("run").Options().Cause(fmt.Errorf("%w: %w", ErrInvalidOptions, err)).Err()
	}

	collector := opts.Collector
	if collector == nil {
		collector = logging.NewCollector(opts.Logger)
	}
	collector.Reset()

	runID := uuid.NewString()
	log := collector.With(logging.RunID(runID), logging.Component("tbd"))
	timer := logging.StartTimer(log, "derating run")
	start := time.Now()
	stage := func(name string, since time.Time) {
		if opts.Metrics != nil {
			opts.Metrics.RecordStage(name, time.Since(since))
		}
	}
	tol := cfg.Options.Tolerance

	t := time.Now()
	lib := cfg.Library(log)
	h := cfg.Hierarchy(lib, log)
	for i, o := range cfg.Edges {
		if !lib.HasPSI(o.PSI) {
			log.Error("edge override names an unknown set", logging.Int("override", i), logging.SetID(o.PSI))
		}
	}
	stage("config", t)

	t = time.Now()
	cat := model.NewCatalog(p, log)
	g := topology.FromCatalog(cat, tol, log)
	stage("topology", t)

	t = time.Now()
	an := analyzer.New(g, tol)
	cl := classifier.New(cat, classifier.Policy{Parapet: cfg.Options.Parapet}, tol)
	work := make([]edgeWork, len(g.Edges))
	err := parallel.ForEach(cfg.Options.Workers, len(g.Edges), log, func(e int) {
		w := &work[e]
		w.facts, w.err = an.Edge(e)
		w.class = cl.Classify(&w.facts)
		if len(w.class.Candidates) == 0 {
			return
		}
		candidates := w.class.Candidates
		scope := psi.Scope{Surfaces: scopes(cat, w.class.Deratable)}
		if o := matchOverride(cfg.Edges, cat, &w.facts, tol); o != nil {
			w.override = o
			scope.Edge = o.PSI
			if o.Type != "" {
				candidates = []psi.Type{o.Type}
			}
		}
		w.resolution, w.unresolved = h.Resolve(candidates, scope)
	})
	if err != nil {
		return nil, NewError("run").Options().Cause(fmt.Errorf("%w: %w", ErrInvalidOptions, err)).Err()
	}
	stage("classify", t)

	t = time.Now()
	acc := derate.NewAccumulator(cat, log)
	var edges []EdgeResult
	for e := range work {
		w := &work[e]
		if w.err != nil {
			log.Error("edge analysis incomplete", logging.EdgeIndex(e), logging.Error(w.err))
		}
		if len(w.class.Candidates) == 0 {
			continue
		}
		for _, u := range w.unresolved {
			log.Error("no set defines edge type", logging.EdgeIndex(e), logging.PSIType(string(u)))
		}
		r := w.resolution
		if r.Tier == psi.TierNone {
			log.Debug("edge falls back to transition", logging.EdgeIndex(e))
		}
		er := EdgeResult{
			Index:      e,
			Type:       r.Type,
			Candidates: w.class.Candidates,
			Factor:     r.Factor,
			Set:        r.Set,
			Tier:       r.Tier.String(),
			Length:     w.facts.Length,
			HeatLoss:   r.Factor * w.facts.Length,
			V0:         w.facts.V0,
			V1:         w.facts.V1,
			Forced:     w.override != nil && w.override.Type != "",
		}
		for _, f := range w.facts.Faces {
			er.Faces = append(er.Faces, cat.Records[f.Owner].ID)
		}
		shares := acc.AddEdge(w.class, r, w.facts.Length)
		if shares == nil {
			er.Skipped = true
		} else {
			er.Shares = make(map[string]float64, len(shares))
			for _, s := range shares {
				id := cat.Records[s.Surface].ID
				er.Surfaces = append(er.Surfaces, id)
				er.Shares[id] = s.HeatLoss
			}
		}
		if opts.Metrics != nil {
			opts.Metrics.RecordEdge(string(psi.Base(r.Type)), er.Length, er.HeatLoss)
		}
		edges = append(edges, er)
	}
	addPoints(cfg, lib, cat, acc, log)
	surfaces := derate.Derate(acc)
	stage("derate", t)

	t = time.Now()
	res := &Result{
		RunID:         runID,
		Edges:         edges,
		Surfaces:      make(map[string]SurfaceResult, len(surfaces)),
		Unapportioned: acc.Unapportioned,
		Config:        cfg,
		Library:       lib,
	}
	for _, s := range surfaces {
		if s.Applied && !opts.DryRun {
			if err := p.ReplaceInsulatingLayer(s.ID, s.Layer); err != nil {
				log.Error("cannot write derated layer", logging.SurfaceID(s.ID), logging.Error(WriteBackError(s.ID, err)))
				s.Applied = false
				s.Layer, _ = cat.Records[s.Index].Insulation()
				s.RevisedR, s.RevisedRSI, s.Ratio = s.R, s.RSI, 0
			}
		}
		res.Surfaces[s.ID] = SurfaceResult{
			ID:         s.ID,
			HeatLoss:   s.HeatLoss,
			Linear:     s.Linear,
			Points:     s.Points,
			NetArea:    s.NetArea,
			R:          s.R,
			RevisedR:   s.RevisedR,
			RSI:        s.RSI,
			RevisedRSI: s.RevisedRSI,
			Ratio:      s.Ratio,
			Layer:      s.Layer.ID,
			Applied:    s.Applied,
		}
		if opts.Metrics != nil {
			opts.Metrics.RecordSurface(s.Applied, s.Ratio, s.Points)
		}
	}
	if acc.Unapportioned != 0 {
		log.Warn("heat loss left unapportioned", logging.Float64("heat_loss", acc.Unapportioned))
	}
	stage("write-back", t)

	timer.End(logging.Count(len(edges)), logging.Int("surfaces", len(res.Surfaces)))
	res.Status = collector.Status()
	res.Log = collector.Records()
	if opts.Metrics != nil {
		opts.Metrics.SetUnapportioned(acc.Unapportioned)
		for _, lvl := range []logging.Level{logging.DebugLevel, logging.InfoLevel, logging.WarnLevel, logging.ErrorLevel, logging.FatalLevel} {
			opts.Metrics.RecordLogEntries(lvl.String(), len(collector.RecordsAt(lvl)))
		}
		opts.Metrics.RecordRun(res.Status.String(), time.Since(start))
	}
	return res, nil
}

func checkOptions(o config.Options) error {
	return config.NewValidator("options").
		When(o.Tolerance != 0, func(v *config.Validator) {
			v.RangeFloat("tolerance", o.Tolerance, config.MinTolerance, config.MaxTolerance)
		}).
		RangeInt("workers", o.Workers, 0, config.MaxWorkers).
		Validate()
}

// scopes locates the deratable surfaces of an edge for the resolver.
func scopes(cat *model.Catalog, owners []int) []psi.SurfaceScope {
	out := make([]psi.SurfaceScope, 0, len(owners))
	for _, o := range owners {
		r := &cat.Records[o]
		out = append(out, psi.SurfaceScope{ID: r.ID, Space: r.Space, SpaceType: r.SpaceType, Story: r.Story})
	}
	return out
}

// matchOverride returns the first edge override targeting the edge.
func matchOverride(overrides []config.EdgeOverride, cat *model.Catalog, ef *analyzer.EdgeFacts, tol float64) *config.EdgeOverride {
	if len(overrides) == 0 {
		return nil
	}
	ids := make([]string, len(ef.Faces))
	for i, f := range ef.Faces {
		ids[i] = cat.Records[f.Owner].ID
	}
	for i := range overrides {
		if overrides[i].Matches(ids, ef.V0, ef.V1, tol) {
			return &overrides[i]
		}
	}
	return nil
}

// addPoints adds the configured KHI counts of every surface.
func addPoints(cfg *config.Config, lib *psi.Library, cat *model.Catalog, acc *derate.Accumulator, log logging.Logger) {
	for _, id := range slices.Sorted(maps.Keys(cfg.Surfaces)) {
		refs := cfg.Surfaces[id].KHIs
		if len(refs) == 0 {
			continue
		}
		rec, ok := cat.Lookup(id)
		if !ok {
			log.Error("point bridges on unknown surface", logging.SurfaceID(id))
			continue
		}
		if !rec.Deratable || rec.Excluded {
			log.Warn("point bridges on a surface that is not deratable", logging.SurfaceID(id))
			continue
		}
		for _, ref := range refs {
			pt, err := lib.KHI(ref.ID)
			if err != nil {
				log.Error("unknown khi entry", logging.SurfaceID(id), logging.SetID(ref.ID), logging.Error(err))
				continue
			}
			acc.AddPoints(rec.Index, pt.Value*float64(ref.Count))
		}
	}
}
