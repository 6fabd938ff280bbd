// Package geometry holds the small amount of 3D vector arithmetic the
// topology builder and edge analyzer share: Newell normals, polygon areas,
// collinearity and tolerance comparisons. Points are gonum r3 vectors in
// metres; +Z is the zenith and +Y is north.
package geometry
