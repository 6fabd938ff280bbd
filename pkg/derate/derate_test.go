package derate

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/dd0wney/tbd/pkg/classifier"
	"github.com/dd0wney/tbd/pkg/logging"
	"github.com/dd0wney/tbd/pkg/model"
	"github.com/dd0wney/tbd/pkg/model/modeltest"
	"github.com/dd0wney/tbd/pkg/psi"
)

func TestApportion(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		rs    []float64
		want  []float64
	}{
		{"corner split by resistance", 0.3 * 3, []float64{2, 4}, []float64{0.3, 0.6}},
		{"single surface", 5, []float64{3}, []float64{5}},
		{"equal when resistance vanishes", 1, []float64{0, 0}, []float64{0.5, 0.5}},
		{"negative factor stays negative", -0.6, []float64{1, 2}, []float64{-0.2, -0.4}},
		{"empty", 1, nil, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apportion(tt.total, tt.rs)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestApportionConservation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("shares sum to factor times length", prop.ForAll(
		func(factor, length float64, rs []float64) bool {
			total := factor * length
			got := Apportion(total, rs)
			return math.Abs(floats.Sum(got)-total) < 1e-9*math.Max(1, math.Abs(total))
		},
		gen.Float64Range(-2, 2),
		gen.Float64Range(0.01, 50),
		gen.SliceOfN(3, gen.Float64Range(0, 10)),
	))

	properties.Property("larger resistance never gets a smaller share", prop.ForAll(
		func(a, b float64) bool {
			got := Apportion(1, []float64{a, b})
			if a >= b {
				return got[0] >= got[1]-1e-12
			}
			return got[1] >= got[0]-1e-12
		},
		gen.Float64Range(0.1, 10),
		gen.Float64Range(0.1, 10),
	))

	properties.TestingRun(t)
}

func TestRevise(t *testing.T) {
	insulation := model.Layer{ID: "eps", Thickness: 0.1, Conductivity: 0.05} // R 2
	massless := model.Layer{ID: "batt", Massless: true, Resistance: 2}

	t.Run("standard layer", func(t *testing.T) {
		got, err := Revise(insulation, 5, 10) // 1/R' = 0.5 + 0.5
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.R(), 1e-9)
		assert.InDelta(t, 0.1, got.Thickness, 1e-12)
		assert.InDelta(t, 0.1, got.Conductivity, 1e-9)
		assert.True(t, got.Derated)
		assert.Equal(t, "eps tbd", got.ID)
	})

	t.Run("massless layer", func(t *testing.T) {
		got, err := Revise(massless, 5, 10)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.Resistance, 1e-9)
	})

	t.Run("massless below minimum", func(t *testing.T) {
		got, err := Revise(massless, 10000, 1)
		assert.ErrorIs(t, err, ErrTooResistive)
		assert.Equal(t, massless, got)
	})

	t.Run("conductivity capped by thinning", func(t *testing.T) {
		// R' = 1/(0.5 + 39.5) = 0.025, k would be 4
		got, err := Revise(insulation, 39.5, 1)
		require.NoError(t, err)
		assert.InDelta(t, MaxConductivity, got.Conductivity, 1e-12)
		assert.InDelta(t, 0.075, got.Thickness, 1e-9)
		assert.InDelta(t, 0.025, got.R(), 1e-9)
	})

	t.Run("too thin", func(t *testing.T) {
		// R' = 1/(0.5 + 1999.5) = 0.0005, needing 0.0015 m at k = 3
		_, err := Revise(insulation, 1999.5, 1)
		assert.ErrorIs(t, err, ErrTooThin)
	})

	t.Run("already derated", func(t *testing.T) {
		l := insulation
		l.Derated = true
		_, err := Revise(l, 1, 1)
		assert.ErrorIs(t, err, ErrAlreadyDerated)
	})

	t.Run("no area", func(t *testing.T) {
		_, err := Revise(insulation, 1, 0)
		assert.ErrorIs(t, err, ErrNoArea)
	})

	t.Run("heat gain cancels standard layer", func(t *testing.T) {
		for _, loss := range []float64{-0.5, -1.0} { // 1/R' = 0 and < 0
			got, err := Revise(insulation, loss, 1)
			assert.ErrorIs(t, err, ErrNonPhysical, "loss %v", loss)
			assert.Equal(t, insulation, got)
		}
	})

	t.Run("heat gain cancels massless layer", func(t *testing.T) {
		for _, loss := range []float64{-0.5, -2.0} {
			got, err := Revise(massless, loss, 1)
			assert.ErrorIs(t, err, ErrNonPhysical, "loss %v", loss)
			assert.Equal(t, massless, got)
		}
	})

	t.Run("heat gain strengthens", func(t *testing.T) {
		got, err := Revise(insulation, -2.5, 10) // 1/R' = 0.5 - 0.25
		require.NoError(t, err)
		assert.InDelta(t, 4.0, got.R(), 1e-9)
	})
}

func TestReviseStaysPhysical(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	physical := func(l model.Layer, err error) bool {
		if err != nil {
			return true
		}
		r := l.R()
		return r > 0 && !math.IsInf(r, 0) && (l.Massless || l.Conductivity > 0)
	}
	properties.Property("standard layers are refused or physical", prop.ForAll(
		func(loss, area float64) bool {
			return physical(Revise(model.Layer{Thickness: 0.1, Conductivity: 0.05}, loss, area))
		},
		gen.Float64Range(-20, 20),
		gen.Float64Range(0.5, 20),
	))
	properties.Property("massless layers are refused or physical", prop.ForAll(
		func(loss, area float64) bool {
			return physical(Revise(model.Layer{Massless: true, Resistance: 2}, loss, area))
		},
		gen.Float64Range(-20, 20),
		gen.Float64Range(0.5, 20),
	))

	properties.TestingRun(t)
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, -25, Ratio(4, 3), 1e-9)
	assert.Zero(t, Ratio(0, 1))
}

func newCatalog(t *testing.T, o modeltest.BoxOptions) (*model.Catalog, map[string]int) {
	t.Helper()
	cat := model.NewCatalog(modeltest.Box(o), logging.NopLogger{})
	idx := make(map[string]int)
	for _, r := range cat.Records {
		idx[r.ID] = r.Index
	}
	return cat, idx
}

func TestRecipients(t *testing.T) {
	cat, idx := newCatalog(t, modeltest.BoxOptions{Window: true, Door: true})
	log := logging.NewCollector(nil)
	acc := NewAccumulator(cat, log)

	south, east := idx[modeltest.SouthWall], idx[modeltest.EastWall]

	got, ok := acc.Recipients(classifier.Result{Deratable: []int{south, east}})
	require.True(t, ok)
	assert.Equal(t, []int{south, east}, got)

	got, ok = acc.Recipients(classifier.Result{
		Deratable: []int{south, east},
		Openings:  []int{idx[modeltest.Window]},
	})
	require.True(t, ok)
	assert.Equal(t, []int{east}, got, "host is left out when a third surface is present")

	got, ok = acc.Recipients(classifier.Result{
		Deratable: []int{south},
		Openings:  []int{idx[modeltest.Window]},
	})
	require.True(t, ok)
	assert.Equal(t, []int{south}, got)

	_, ok = acc.Recipients(classifier.Result{
		Deratable: []int{south},
		Openings:  []int{idx[modeltest.Window], idx[modeltest.Door]},
	})
	assert.False(t, ok)
	assert.Len(t, log.RecordsAt(logging.WarnLevel), 1)
}

func TestAccumulateAndDerate(t *testing.T) {
	cat, idx := newCatalog(t, modeltest.BoxOptions{WallR: 2, RoofR: 4})
	log := logging.NewCollector(nil)
	acc := NewAccumulator(cat, log)

	south, roof := idx[modeltest.SouthWall], idx[modeltest.Roof]

	// parapet 0.5 x 10 m split 2:4 by insulating resistance
	shares := acc.AddEdge(classifier.Result{Deratable: []int{south, roof}},
		psi.Resolution{Type: psi.Parapet, Factor: 0.5}, 10)
	require.Len(t, shares, 2)
	assert.InDelta(t, 5.0, shares[0].HeatLoss+shares[1].HeatLoss, 1e-9)
	assert.InDelta(t, 5.0/3, shares[0].HeatLoss, 1e-9)

	acc.AddPoints(south, 0.9*2)

	// skipped edge
	acc.AddEdge(classifier.Result{Deratable: []int{south}, Openings: []int{0, 1}},
		psi.Resolution{Factor: 0.2}, 2)
	assert.InDelta(t, 0.4, acc.Unapportioned, 1e-9)

	out := Derate(acc)
	require.Len(t, out, 2)
	assert.Equal(t, modeltest.SouthWall, out[0].ID)
	assert.Equal(t, modeltest.Roof, out[1].ID)

	w := out[0]
	assert.True(t, w.Applied)
	assert.InDelta(t, 5.0/3+1.8, w.HeatLoss, 1e-9)
	assert.InDelta(t, 30, w.NetArea, 1e-9)
	assert.InDelta(t, 1/(1/2.0+w.HeatLoss/30), w.RevisedR, 1e-9)
	assert.Less(t, w.Ratio, 0.0)
	assert.InDelta(t, Ratio(w.RSI, w.RSI-2+w.RevisedR), w.Ratio, 1e-9)
	assert.True(t, w.Layer.Derated)
}

func TestDerateSkipsDeratedLayers(t *testing.T) {
	m := modeltest.Box(modeltest.BoxOptions{})
	l, _ := modeltest.Insulated("wall", 2).InsulatingLayer()
	l.Derated = true
	require.NoError(t, m.ReplaceInsulatingLayer(modeltest.SouthWall, l))

	cat := model.NewCatalog(m, logging.NopLogger{})
	south, _ := cat.Lookup(modeltest.SouthWall)
	log := logging.NewCollector(nil)
	acc := NewAccumulator(cat, log)
	acc.AddEdge(classifier.Result{Deratable: []int{south.Index}}, psi.Resolution{Factor: 0.5}, 10)

	out := Derate(acc)
	require.Len(t, out, 1)
	assert.False(t, out[0].Applied)
	assert.Zero(t, out[0].Ratio)
	assert.Equal(t, out[0].R, out[0].RevisedR)
	assert.Len(t, log.RecordsAt(logging.InfoLevel), 1)
	assert.Equal(t, logging.InfoLevel, log.Status())
}
