// Package meshgen builds triangle meshes for parametric primitives: a unit
// box, a latitude/longitude sphere and a capped cylinder.
//
// Builders are pure. Each call validates its arguments, allocates a fresh
// kernel.Mesh and touches no shared state, so they may be called from any
// number of goroutines. Vertex colors are always opaque white; callers
// recolor downstream.
package meshgen
