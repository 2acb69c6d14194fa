// Package scene defines the scene tree for the gym demo.
// Nodes live in an index-addressed arena; parent/child links are indices,
// never pointers, and each node carries a transform local to its parent.
package scene
