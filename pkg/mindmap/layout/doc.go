// Package layout assigns canvas positions to mind-map nodes.
//
// [Radial] places every node that lacks coordinates evenly around a circle
// centered on a fixed canvas point. Nodes that already carry both coordinates
// keep them, so partial manual layouts coexist with auto-layout.
//
// The radius grows with the node count up to a cap:
//
//	r = 0                              if n == 1
//	r = min(n * RadiusStep, MaxRadius) otherwise
//
// and node i (its index in the full list, placed or not) sits at angle
// i/n * 2π. Positioned nodes still occupy their angular slot; their computed
// angle is discarded.
//
// # Known Limitation
//
// When only some nodes lack coordinates, an auto-placed node can land on top of
// a manually placed one that happens to sit at the same angular slot. This is
// accepted behavior.
//
// # Caching
//
// Layout is computed once per graph identity. [Memo] holds the last graph
// pointer and its layout; pan and zoom never recompute it.
package layout
