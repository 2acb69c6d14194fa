package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// NodeIndex addresses a node in its scene's arena.
type NodeIndex int

// NoParent marks a root node.
const NoParent NodeIndex = -1

// ShapeKind enumerates the primitive a node renders as.
type ShapeKind int

const (
	ShapeNone     ShapeKind = iota // grouping node, no geometry
	ShapeBox                       // unit cube scaled by the transform
	ShapeSphere                    // radius, segments
	ShapeCylinder                  // radius, height, segments
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeNone:
		return "none"
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapeCylinder:
		return "cylinder"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Shape holds the builder parameters for a node's geometry.
type Shape struct {
	Kind     ShapeKind `json:"kind"`
	Radius   float64   `json:"radius,omitempty"`
	Height   float64   `json:"height,omitempty"`
	Segments int       `json:"segments,omitempty"`
}

// Transform is a node's placement relative to its parent: scale first,
// then roll/pitch/heading, then translation.
type Transform struct {
	Position r3.Vec `json:"position"`
	HPR      r3.Vec `json:"hpr"` // heading (Z), pitch (X), roll (Y), degrees
	Scale    r3.Vec `json:"scale"`
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{Scale: r3.Vec{X: 1, Y: 1, Z: 1}}
}

// White is the default node colour.
var White = [4]float32{1, 1, 1, 1}

// Node is one element of the scene tree.
type Node struct {
	Index    NodeIndex   `json:"index"`
	Name     string      `json:"name,omitempty"`
	Parent   NodeIndex   `json:"parent"`
	Children []NodeIndex `json:"children,omitempty"`
	Local    Transform   `json:"local"`
	Shape    Shape       `json:"shape"`
	Color    [4]float32  `json:"color"`
}
