package tbd

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dd0wney/tbd/pkg/config"
	"github.com/dd0wney/tbd/pkg/logging"
	"github.com/dd0wney/tbd/pkg/psi"
)

// EdgeResult is the classification and heat loss of one edge.
type EdgeResult struct {
	Index      int        `json:"index" yaml:"index"`
	Type       psi.Type   `json:"type" yaml:"type"`
	Candidates []psi.Type `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Factor     float64    `json:"psi" yaml:"psi"`
	Set        string     `json:"set,omitempty" yaml:"set,omitempty"`
	Tier       string     `json:"tier" yaml:"tier"`
	Length     float64    `json:"length" yaml:"length"`
	HeatLoss   float64    `json:"heat_loss" yaml:"heat_loss"`
	V0         r3.Vec     `json:"v0" yaml:"v0"`
	V1         r3.Vec     `json:"v1" yaml:"v1"`
	// Faces lists every record on the edge; Surfaces the ones that
	// received heat loss.
	Faces    []string           `json:"faces" yaml:"faces"`
	Surfaces []string           `json:"surfaces,omitempty" yaml:"surfaces,omitempty"`
	Shares   map[string]float64 `json:"shares,omitempty" yaml:"shares,omitempty"`
	Forced   bool               `json:"forced,omitempty" yaml:"forced,omitempty"`
	Skipped  bool               `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// SurfaceResult is the derating outcome of one surface.
type SurfaceResult struct {
	ID         string  `json:"id" yaml:"id"`
	HeatLoss   float64 `json:"heat_loss" yaml:"heat_loss"`
	Linear     float64 `json:"linear" yaml:"linear"`
	Points     float64 `json:"points" yaml:"points"`
	NetArea    float64 `json:"net_area" yaml:"net_area"`
	R          float64 `json:"r" yaml:"r"`
	RevisedR   float64 `json:"revised_r" yaml:"revised_r"`
	RSI        float64 `json:"rsi" yaml:"rsi"`
	RevisedRSI float64 `json:"revised_rsi" yaml:"revised_rsi"`
	Ratio      float64 `json:"ratio" yaml:"ratio"`
	Layer      string  `json:"layer" yaml:"layer"`
	Applied    bool    `json:"applied" yaml:"applied"`
}

// Result is everything a run produced.
type Result struct {
	RunID    string                   `json:"run_id" yaml:"run_id"`
	Status   logging.Level            `json:"-" yaml:"-"`
	Log      []logging.Record         `json:"-" yaml:"-"`
	Edges    []EdgeResult             `json:"edges" yaml:"edges"`
	Surfaces map[string]SurfaceResult `json:"surfaces" yaml:"surfaces"`
	// Unapportioned is heat loss (W/K) of edges that were skipped.
	Unapportioned float64 `json:"unapportioned" yaml:"unapportioned"`

	// Config and Library are what the run resolved against.
	Config  *config.Config `json:"-" yaml:"-"`
	Library *psi.Library   `json:"-" yaml:"-"`
}

// Edge returns the result of edge index i, if it was classified.
func (r *Result) Edge(i int) (EdgeResult, bool) {
	for _, e := range r.Edges {
		if e.Index == i {
			return e, true
		}
	}
	return EdgeResult{}, false
}

// HeatLoss returns the total heat loss assigned to surfaces, in W/K.
func (r *Result) HeatLoss() float64 {
	var sum float64
	for _, s := range r.Surfaces {
		sum += s.HeatLoss
	}
	return sum
}
