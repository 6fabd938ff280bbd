package psi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	tests := []struct {
		in   Type
		want []Type
	}{
		{"parapet-convex", []Type{"parapet-convex", Parapet}},
		{"sill-convex", []Type{"sill-convex", Sill, Fenestration}},
		{DoorHead, []Type{DoorHead, Door, Fenestration}},
		{"skylight-jamb-concave", []Type{"skylight-jamb-concave", SkylightJamb, Skylight, Fenestration}},
		{"balcony-sill-convex", []Type{"balcony-sill-convex", BalconySill, Balcony}},
		{"roof-concave", []Type{"roof-concave", Roof, Parapet}},
		{Corner, []Type{Corner}},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Chain(tt.in))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Corner))
	assert.True(t, Valid("corner-concave"))
	assert.True(t, Valid("balcony-sill-convex"))
	assert.True(t, Valid(DoorSill))
	assert.False(t, Valid("door-sill-convex"))
	assert.False(t, Valid("fenestration-convex"))
	assert.False(t, Valid("mullion"))
	assert.False(t, Valid(""))
}

func TestDecorations(t *testing.T) {
	assert.Equal(t, Type("corner-convex"), Convex(Corner))
	assert.Equal(t, Type("corner-concave"), Concave("corner-convex"))
	assert.Equal(t, Transition, Convex(Transition))
	assert.Equal(t, Door, Concave(Door))
	assert.Equal(t, Sill, Base("sill-concave"))
}

func TestIsFenestration(t *testing.T) {
	assert.True(t, IsFenestration("head-convex"))
	assert.True(t, IsFenestration(SkylightSill))
	assert.False(t, IsFenestration(Spandrel))
	assert.False(t, IsFenestration(BalconySill))
}
