package derate

import (
	"gonum.org/v1/gonum/floats"

	"github.com/dd0wney/tbd/pkg/classifier"
	"github.com/dd0wney/tbd/pkg/logging"
	"github.com/dd0wney/tbd/pkg/model"
	"github.com/dd0wney/tbd/pkg/psi"
)

// minTotalR is the summed resistance below which shares become equal.
const minTotalR = 1e-6

// Apportion splits total across surfaces in proportion to rs. The returned
// shares always sum to total.
func Apportion(total float64, rs []float64) []float64 {
	out := make([]float64, len(rs))
	if len(rs) == 0 {
		return out
	}
	sum := floats.Sum(rs)
	if sum < minTotalR {
		for i := range out {
			out[i] = total / float64(len(rs))
		}
		return out
	}
	floats.AddScaled(out, total/sum, rs)
	return out
}

// Share is the heat loss one edge hands to one surface.
type Share struct {
	Surface  int
	HeatLoss float64
}

// Accumulator sums heat loss per catalog record. It is not safe for
// concurrent use; edges are added in a fixed order so sums are repeatable.
type Accumulator struct {
	cat    *model.Catalog
	log    logging.Logger
	linear map[int]float64
	points map[int]float64
	// Unapportioned is heat loss from edges that could not be assigned.
	Unapportioned float64
}

// NewAccumulator creates an empty accumulator over cat.
func NewAccumulator(cat *model.Catalog, log logging.Logger) *Accumulator {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Accumulator{
		cat:    cat,
		log:    log.With(logging.Component("derate")),
		linear: make(map[int]float64),
		points: make(map[int]float64),
	}
}

// Recipients returns the surfaces an edge's heat loss is split across, or
// false when the edge must be skipped. When an opening, its host and another
// deratable surface meet on one edge, the host is left out.
func (a *Accumulator) Recipients(res classifier.Result) ([]int, bool) {
	if len(res.Openings) > 1 {
		a.log.Warn("edge borders more than one opening, skipping",
			logging.EdgeIndex(res.Edge), logging.Count(len(res.Openings)))
		return nil, false
	}
	out := append([]int(nil), res.Deratable...)
	if len(res.Openings) == 1 && len(out) > 1 {
		host := a.cat.Records[res.Openings[0]].Host
		for i, s := range out {
			if s == host {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}
	return out, len(out) > 0
}

// AddEdge apportions one resolved edge and returns the shares it handed out.
func (a *Accumulator) AddEdge(res classifier.Result, r psi.Resolution, length float64) []Share {
	total := r.Factor * length
	recipients, ok := a.Recipients(res)
	if !ok {
		a.Unapportioned += total
		return nil
	}
	rs := make([]float64, len(recipients))
	for i, s := range recipients {
		if l, ok := a.cat.Records[s].Insulation(); ok {
			rs[i] = l.R()
		}
	}
	shares := Apportion(total, rs)
	out := make([]Share, len(recipients))
	for i, s := range recipients {
		a.linear[s] += shares[i]
		out[i] = Share{Surface: s, HeatLoss: shares[i]}
	}
	return out
}

// AddPoints adds point-bridge heat loss (W/K) to one surface.
func (a *Accumulator) AddPoints(surface int, heatLoss float64) {
	a.points[surface] += heatLoss
}

// Linear returns the summed edge heat loss of a surface.
func (a *Accumulator) Linear(surface int) float64 {
	return a.linear[surface]
}

// Points returns the summed point heat loss of a surface.
func (a *Accumulator) Points(surface int) float64 {
	return a.points[surface]
}

// Surfaces returns every record with heat loss, in catalog order.
func (a *Accumulator) Surfaces() []int {
	var out []int
	for i := range a.cat.Records {
		_, l := a.linear[i]
		_, p := a.points[i]
		if l || p {
			out = append(out, i)
		}
	}
	return out
}
