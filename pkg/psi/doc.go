// Package psi resolves linear (PSI, W/K·m) and point (KHI, W/K) thermal
// transmittance factors.
//
// Edge types are plain symbols such as "parapet" or "sill-convex". A set may
// omit decorated variants and even base types; lookups walk a shorthand
// chain:
//
//	parapet-convex -> parapet
//	sill-convex    -> sill -> fenestration
//	door-head      -> door -> fenestration
//	balcony-sill   -> balcony
//	roof           -> parapet
//
// A Hierarchy layers sets by scope, narrowest first: edge, surface, space,
// space type, story, building. For each candidate type the first tier that
// yields a value wins; among candidates the largest magnitude wins and ties
// keep the first registered candidate.
package psi
