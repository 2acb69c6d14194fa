package gym

import (
	"fmt"

	"github.com/chazu/highbar/pkg/kernel"
	"github.com/chazu/highbar/pkg/scene"
	"github.com/chazu/highbar/pkg/tessellate"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultColliders names the scene nodes the player bumps into.
var DefaultColliders = []string{"mat", "left-post", "right-post"}

const (
	pushPasses = 4
	gradStep   = 1e-4
)

// Collider is a named solid in world space.
type Collider struct {
	Name  string
	Solid kernel.Solid
}

// World holds the static colliders.
type World struct {
	colliders []Collider
}

// NewWorld returns a world made of the given colliders.
func NewWorld(colliders ...Collider) *World {
	return &World{colliders: colliders}
}

// WorldFromScene builds colliders for the named scene nodes with k.
// PushOut resolves penetration exactly for boxes, uniformly scaled spheres
// and cylinders scaled equally in X and Y. Other scales, including any
// scale on an ancestor group, give a conservative distance, so a single
// push can leave the ball slightly inside and later passes finish the job.
func WorldFromScene(k kernel.Kernel, sc *scene.Scene, names ...string) (*World, error) {
	w := &World{}
	for _, name := range names {
		n := sc.Lookup(name)
		if n == nil {
			return nil, fmt.Errorf("gym: scene has no collider node %q", name)
		}
		solid, err := tessellate.Solid(sc, k, n.Index)
		if err != nil {
			return nil, fmt.Errorf("gym: %w", err)
		}
		w.colliders = append(w.colliders, Collider{Name: name, Solid: solid})
	}
	return w, nil
}

// Colliders returns the world's colliders.
func (w *World) Colliders() []Collider {
	return w.colliders
}

// PushOut moves a ball of the given radius out of every collider it
// penetrates, along the signed distance gradient.
func (w *World) PushOut(center r3.Vec, radius float64) r3.Vec {
	for pass := 0; pass < pushPasses; pass++ {
		moved := false
		for _, c := range w.colliders {
			d := c.Solid.Distance(arr(center))
			if d >= radius {
				continue
			}
			n := gradient(c.Solid, center)
			center = r3.Add(center, r3.Scale(radius-d, n))
			moved = true
		}
		if !moved {
			break
		}
	}
	return center
}

// gradient estimates the outward surface normal at p by central differences.
func gradient(s kernel.Solid, p r3.Vec) r3.Vec {
	axes := [3]r3.Vec{{X: gradStep}, {Y: gradStep}, {Z: gradStep}}
	var g [3]float64
	for i, a := range axes {
		g[i] = s.Distance(arr(r3.Add(p, a))) - s.Distance(arr(r3.Sub(p, a)))
	}
	v := r3.Vec{X: g[0], Y: g[1], Z: g[2]}
	l := r3.Norm(v)
	if l == 0 {
		return r3.Vec{Z: 1}
	}
	return r3.Scale(1/l, v)
}

func arr(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
