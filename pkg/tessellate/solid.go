package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/highbar/pkg/kernel"
	"github.com/chazu/highbar/pkg/scene"
)

// Solid builds the collider for a shaped node in world space using the
// geometry kernel. The node's own scale is folded into the primitive's
// dimensions whenever the shape allows it (any box, a uniformly scaled
// sphere, a cylinder scaled equally in X and Y) so the signed distance stays
// exact. Other scales, and any ancestor scale, go through Kernel.Scale, whose
// distance is only a bound.
func Solid(sc *scene.Scene, k kernel.Kernel, idx scene.NodeIndex) (kernel.Solid, error) {
	n := sc.Get(idx)
	if n == nil {
		return nil, fmt.Errorf("tessellate: no node %d", idx)
	}

	solid, scaled, err := handlePrimitive(k, n)
	if err != nil {
		return nil, fmt.Errorf("tessellate: collider %s: %w", nodeLabel(n), err)
	}

	t := n.Local
	if scaled {
		t.Scale.X, t.Scale.Y, t.Scale.Z = 1, 1, 1
	}
	solid = place(k, solid, t)

	steps := 0
	for p := n.Parent; p != scene.NoParent; p = sc.Get(p).Parent {
		if sc.Get(p) == nil {
			return nil, fmt.Errorf("tessellate: collider %s has dangling ancestor %d", nodeLabel(n), p)
		}
		if steps++; steps > sc.NodeCount() {
			return nil, fmt.Errorf("tessellate: cycle above collider %s", nodeLabel(n))
		}
		solid = place(k, solid, sc.Get(p).Local)
	}
	return solid, nil
}

// handlePrimitive creates the kernel primitive for a node's shape. The
// second result reports whether the node's scale was folded into it.
func handlePrimitive(k kernel.Kernel, n *scene.Node) (kernel.Solid, bool, error) {
	sh := n.Shape
	switch sh.Kind {
	case scene.ShapeBox:
		s := n.Local.Scale
		solid, err := k.Box(2*math.Abs(s.X), 2*math.Abs(s.Y), 2*math.Abs(s.Z))
		return solid, true, err
	case scene.ShapeSphere:
		sx, sy, sz := math.Abs(n.Local.Scale.X), math.Abs(n.Local.Scale.Y), math.Abs(n.Local.Scale.Z)
		if sx == sy && sy == sz {
			solid, err := k.Sphere(sh.Radius * sx)
			return solid, true, err
		}
		solid, err := k.Sphere(sh.Radius)
		return solid, false, err
	case scene.ShapeCylinder:
		sx, sy, sz := math.Abs(n.Local.Scale.X), math.Abs(n.Local.Scale.Y), math.Abs(n.Local.Scale.Z)
		if sx == sy {
			solid, err := k.Cylinder(sh.Height*sz, sh.Radius*sx)
			return solid, true, err
		}
		solid, err := k.Cylinder(sh.Height, sh.Radius)
		return solid, false, err
	default:
		return nil, false, fmt.Errorf("node has no collidable shape (%s)", sh.Kind)
	}
}

// place applies one local transform: scale, roll, pitch, heading, then
// translation. Identity steps are skipped.
func place(k kernel.Kernel, s kernel.Solid, t scene.Transform) kernel.Solid {
	if t.Scale.X != 1 || t.Scale.Y != 1 || t.Scale.Z != 1 {
		s = k.Scale(s, t.Scale.X, t.Scale.Y, t.Scale.Z)
	}
	if t.HPR.Z != 0 {
		s = k.Rotate(s, 0, t.HPR.Z, 0)
	}
	if t.HPR.Y != 0 {
		s = k.Rotate(s, t.HPR.Y, 0, 0)
	}
	if t.HPR.X != 0 {
		s = k.Rotate(s, 0, 0, t.HPR.X)
	}
	if p := t.Position; p.X != 0 || p.Y != 0 || p.Z != 0 {
		s = k.Translate(s, p.X, p.Y, p.Z)
	}
	return s
}
