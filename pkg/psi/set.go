package psi

import (
	"math"
	"sort"
)

// Set is a named PSI set. Values are W/(K·m); negative values are heat gains
// and are kept signed.
type Set struct {
	ID     string           `json:"id" yaml:"id" validate:"required,max=128"`
	Values map[Type]float64 `json:"values" yaml:"values" validate:"required,min=1,dive,keys,psitype,endkeys,finite"`
}

// Get returns the value stored for exactly t.
func (s *Set) Get(t Type) (float64, bool) {
	v, ok := s.Values[t]
	return v, ok
}

// Lookup walks the shorthand chain of t and returns the first defined value
// with the key that supplied it.
func (s *Set) Lookup(t Type) (float64, Type, bool) {
	for _, k := range Chain(t) {
		if v, ok := s.Values[k]; ok {
			return v, k, true
		}
	}
	return 0, "", false
}

// Missing returns the mandatory types s does not define.
func (s *Set) Missing() []Type {
	var out []Type
	for _, t := range Mandatory {
		if _, ok := s.Values[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// Complete reports whether s can serve as a building default.
func (s *Set) Complete() bool {
	return len(s.Missing()) == 0
}

// OutOfRange returns the types whose magnitude exceeds limit, sorted.
func (s *Set) OutOfRange(limit float64) []Type {
	var out []Type
	for t, v := range s.Values {
		if math.Abs(v) > limit {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a deep copy of s.
func (s *Set) Clone() *Set {
	out := &Set{ID: s.ID, Values: make(map[Type]float64, len(s.Values))}
	for k, v := range s.Values {
		out.Values[k] = v
	}
	return out
}

// Point is a KHI entry: a named point thermal bridge in W/K.
type Point struct {
	ID    string  `json:"id" yaml:"id" validate:"required,max=128"`
	Value float64 `json:"point" yaml:"point" validate:"finite,gte=0"`
}
