package psi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLibrary(t *testing.T) {
	lib := DefaultLibrary()
	require.Len(t, lib.PSIs(), 7)
	require.Len(t, lib.KHIs(), 6)

	for _, s := range lib.PSIs() {
		assert.True(t, s.Complete(), "built-in %q must be complete", s.ID)
		assert.NoError(t, ValidateSet(s))
	}

	poor, err := lib.PSI(PoorBETBG)
	require.NoError(t, err)
	v, key, ok := poor.Lookup("rimjoist-convex")
	require.True(t, ok)
	assert.Equal(t, RimJoist, key)
	assert.InDelta(t, 1.0, v, 1e-9)

	p, err := lib.KHI(EfficientBETBG)
	require.NoError(t, err)
	assert.InDelta(t, 0.15, p.Value, 1e-9)
}

func TestLibraryRejectsDuplicates(t *testing.T) {
	lib := DefaultLibrary()
	err := lib.AddPSI(Set{ID: PoorBETBG, Values: map[Type]float64{Corner: 0.1}})
	assert.ErrorIs(t, err, ErrDuplicateSet)

	err = lib.AddKHI(Point{ID: PoorBETBG, Value: 1})
	assert.ErrorIs(t, err, ErrDuplicateSet)
}

func TestLibraryUnknown(t *testing.T) {
	lib := NewLibrary()
	_, err := lib.PSI("nope")
	assert.ErrorIs(t, err, ErrUnknownSet)
	_, err = lib.KHI("nope")
	assert.ErrorIs(t, err, ErrUnknownSet)
}

func TestValidateSet(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		ok   bool
	}{
		{"valid", Set{ID: "a", Values: map[Type]float64{"corner-convex": 0.2}}, true},
		{"negative kept", Set{ID: "a", Values: map[Type]float64{Corner: -0.05}}, true},
		{"missing id", Set{Values: map[Type]float64{Corner: 0.2}}, false},
		{"empty values", Set{ID: "a", Values: map[Type]float64{}}, false},
		{"unknown type", Set{ID: "a", Values: map[Type]float64{"mullion": 0.2}}, false},
		{"nan", Set{ID: "a", Values: map[Type]float64{Corner: math.NaN()}}, false},
		{"inf", Set{ID: "a", Values: map[Type]float64{Corner: math.Inf(1)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSet(&tt.set)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSet)
			}
		})
	}
}

func TestValidatePoint(t *testing.T) {
	assert.NoError(t, ValidatePoint(&Point{ID: "k", Value: 0.4}))
	assert.ErrorIs(t, ValidatePoint(&Point{ID: "k", Value: -1}), ErrInvalidSet)
	assert.ErrorIs(t, ValidatePoint(&Point{Value: 1}), ErrInvalidSet)
}

func TestSetMissingAndRange(t *testing.T) {
	s := Set{ID: "partial", Values: map[Type]float64{Corner: 0.3, Parapet: 2.5, Grade: -3}}
	assert.False(t, s.Complete())
	assert.Equal(t, []Type{RimJoist, Fenestration, Balcony, Party}, s.Missing())
	assert.Equal(t, []Type{Grade, Parapet}, s.OutOfRange(2))
}
