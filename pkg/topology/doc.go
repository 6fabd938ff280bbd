// Package topology builds the shared vertex/edge/face graph of a building
// envelope.
//
// Every surface, opening and shade polygon becomes a Face. Opening polygons
// are also added to their host face as hole wires, so the jamb, head and sill
// of a window exist once, shared by the window and the wall around it.
// Vertices closer than the tolerance are merged through a spatial hash;
// edges are undirected and keyed by their vertex pair.
//
// Everything is stored in flat slices and addressed by index:
//
//	Vertices []Vertex
//	Edges    []Edge   -> Assoc{Face, Wire, Forward}
//	Faces    []Face   -> Owner (catalog index), Wires [][]vertex index
//
// The graph holds no pointers between its parts.
package topology
