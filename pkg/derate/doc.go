// Package derate turns resolved edge factors into per-surface heat loss and
// revised insulating layers.
//
// Each edge's heat loss (factor × length, W/K) is split across the deratable
// surfaces on it in proportion to their insulating resistance. Point
// bridges (KHI × count) are added to their surface directly. The insulating
// layer of every surface with heat loss is then weakened so that
//
//	1/R' = 1/R + ΣHL / A
//
// where A is the surface's net opaque area.
package derate
