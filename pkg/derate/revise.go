package derate

import (
	"errors"
	"fmt"
	"math"

	"github.com/dd0wney/tbd/pkg/logging"
	"github.com/dd0wney/tbd/pkg/model"
)

// Guardrails on revised layers.
const (
	MinResistance   = 0.001 // m2K/W, massless layers
	MaxConductivity = 3.0   // W/mK, standard layers
	MinThickness    = 0.003 // m, standard layers
)

var (
	ErrAlreadyDerated = errors.New("layer already derated")
	ErrNoArea         = errors.New("surface has no net area")
	ErrTooResistive   = errors.New("revised resistance below minimum")
	ErrTooThin        = errors.New("revised thickness below minimum")
	ErrNoInsulation   = errors.New("insulating layer has no resistance")
	ErrNonPhysical    = errors.New("revised layer is not physical")
)

// Revise returns the insulating layer weakened by heatLoss (W/K) spread over
// area (m2). Standard layers keep their conductivity at or below
// MaxConductivity by giving up thickness.
func Revise(l model.Layer, heatLoss, area float64) (model.Layer, error) {
	if l.Derated {
		return l, ErrAlreadyDerated
	}
	if area <= 0 {
		return l, ErrNoArea
	}
	r := l.R()
	if r <= 0 {
		return l, ErrNoInsulation
	}
	// Heat gains can cancel or exceed the layer conductance.
	rNew := 1 / (1/r + heatLoss/area)
	if math.IsInf(rNew, 0) || math.IsNaN(rNew) || rNew <= 0 {
		return l, fmt.Errorf("%w: resistance %v", ErrNonPhysical, rNew)
	}

	out := l
	out.Derated = true
	out.ID = l.ID + " tbd"
	if l.Massless {
		if rNew < MinResistance {
			return l, fmt.Errorf("%w: %.4f < %.4f", ErrTooResistive, rNew, MinResistance)
		}
		out.Resistance = rNew
		return out, nil
	}

	k := l.Thickness / rNew
	if k <= 0 || math.IsNaN(k) {
		return l, fmt.Errorf("%w: conductivity %v", ErrNonPhysical, k)
	}
	if k > MaxConductivity {
		d := rNew * MaxConductivity
		if d < MinThickness {
			return l, fmt.Errorf("%w: %.4f m < %.4f m", ErrTooThin, d, MinThickness)
		}
		out.Thickness = d
		k = MaxConductivity
	}
	out.Conductivity = k
	return out, nil
}

// Ratio is the percentage change of total construction resistance; derated
// constructions give negative values.
func Ratio(rsi, rsiNew float64) float64 {
	if rsi <= 0 {
		return 0
	}
	return -(rsi - rsiNew) / rsi * 100
}

// Surface is the derating outcome of one record.
type Surface struct {
	Index      int
	ID         string
	HeatLoss   float64 // W/K, edges and points
	Linear     float64
	Points     float64
	NetArea    float64
	R          float64
	RevisedR   float64
	RSI        float64
	RevisedRSI float64
	Ratio      float64
	Layer      model.Layer
	// Applied is false when the layer was left unchanged.
	Applied bool
}

// Derate computes the revised insulating layer of every surface that
// received heat loss. Refusals are logged and leave the layer unchanged.
func Derate(acc *Accumulator) []Surface {
	var out []Surface
	for _, i := range acc.Surfaces() {
		rec := &acc.cat.Records[i]
		s := Surface{
			Index:   i,
			ID:      rec.ID,
			Linear:  acc.Linear(i),
			Points:  acc.Points(i),
			NetArea: rec.NetArea,
		}
		s.HeatLoss = s.Linear + s.Points
		l, ok := rec.Insulation()
		if !ok {
			acc.log.Error("surface with heat loss has no insulating layer", logging.SurfaceID(rec.ID))
			continue
		}
		s.Layer = l
		s.R, s.RevisedR = l.R(), l.R()
		s.RSI = rec.Construction.RSI()
		s.RevisedRSI = s.RSI

		switch {
		case rec.Excluded:
			acc.log.Error("excluded surface received heat loss, not derating", logging.SurfaceID(rec.ID))
		case s.HeatLoss == 0:
			acc.log.Debug("no heat loss", logging.SurfaceID(rec.ID))
		default:
			revised, err := Revise(l, s.HeatLoss, s.NetArea)
			switch {
			case errors.Is(err, ErrAlreadyDerated):
				acc.log.Info("layer already derated, skipping", logging.SurfaceID(rec.ID), logging.String("layer", l.ID))
			case err != nil:
				acc.log.Error("cannot derate layer", logging.SurfaceID(rec.ID), logging.Error(err))
			default:
				s.Layer = revised
				s.RevisedR = revised.R()
				s.RevisedRSI = s.RSI - s.R + s.RevisedR
				s.Applied = true
			}
		}
		s.Ratio = Ratio(s.RSI, s.RevisedRSI)
		out = append(out, s)
	}
	return out
}
