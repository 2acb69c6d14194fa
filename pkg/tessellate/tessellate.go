// Package tessellate walks a scene and produces triangle meshes.
// One mesh is produced per shaped node, in world space, coloured with the
// node's colour. Collider solids for the same nodes are built through a
// geometry kernel.
package tessellate

import (
	"fmt"

	"github.com/chazu/highbar/pkg/kernel"
	"github.com/chazu/highbar/pkg/logging"
	"github.com/chazu/highbar/pkg/meshgen"
	"github.com/chazu/highbar/pkg/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// transformStack accumulates world transforms during scene traversal.
type transformStack struct {
	frames []scene.Affine
}

func newTransformStack() *transformStack {
	return &transformStack{frames: []scene.Affine{scene.IdentityAffine()}}
}

// push composes local onto the current frame.
func (ts *transformStack) push(local scene.Affine) {
	ts.frames = append(ts.frames, ts.top().Mul(local))
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 1 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

func (ts *transformStack) top() scene.Affine {
	return ts.frames[len(ts.frames)-1]
}

// Tessellate walks the scene roots depth-first and produces one triangle
// mesh per shaped node. The tessellator is read-only and never mutates the
// scene.
func Tessellate(sc *scene.Scene) ([]*kernel.Mesh, error) {
	if sc == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	ts := newTransformStack()

	for _, root := range sc.Roots() {
		collected, err := walkNode(sc, root, ts, 0)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", label(sc, root), err)
		}
		meshes = append(meshes, collected...)
	}

	logging.Debug("tessellate: scene %s produced %d meshes", sc.ID, len(meshes))
	return meshes, nil
}

// walkNode emits the node's own mesh, then recurses into its children with
// the node's transform pushed.
func walkNode(sc *scene.Scene, idx scene.NodeIndex, ts *transformStack, depth int) ([]*kernel.Mesh, error) {
	if depth > sc.NodeCount() {
		return nil, fmt.Errorf("cycle detected below %s", label(sc, idx))
	}
	n := sc.Get(idx)
	if n == nil {
		return nil, fmt.Errorf("dangling node index %d", idx)
	}

	ts.push(n.Local.Affine())
	defer ts.pop()

	var meshes []*kernel.Mesh
	if n.Shape.Kind != scene.ShapeNone {
		mesh, err := handleShape(n, ts.top())
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, mesh)
	}

	for _, child := range n.Children {
		collected, err := walkNode(sc, child, ts, depth+1)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// Mesh builds the world-space mesh of a single shaped node.
func Mesh(sc *scene.Scene, idx scene.NodeIndex) (*kernel.Mesh, error) {
	n := sc.Get(idx)
	if n == nil {
		return nil, fmt.Errorf("tessellate: no node %d", idx)
	}
	if n.Shape.Kind == scene.ShapeNone {
		return nil, fmt.Errorf("tessellate: node %s has no shape", label(sc, idx))
	}
	world, err := sc.World(idx)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	return handleShape(n, world)
}

// buildLocal runs the mesh builder for a shape in its own frame.
func buildLocal(sh scene.Shape) (*kernel.Mesh, error) {
	switch sh.Kind {
	case scene.ShapeBox:
		return meshgen.Box(), nil
	case scene.ShapeSphere:
		return meshgen.Sphere(sh.Radius, sh.Segments)
	case scene.ShapeCylinder:
		return meshgen.Cylinder(sh.Radius, sh.Height, sh.Segments)
	default:
		return nil, fmt.Errorf("unsupported shape %s", sh.Kind)
	}
}

// handleShape builds the node's mesh and moves it into world space.
func handleShape(n *scene.Node, world scene.Affine) (*kernel.Mesh, error) {
	mesh, err := buildLocal(n.Shape)
	if err != nil {
		return nil, fmt.Errorf("tessellate: node %s: %w", nodeLabel(n), err)
	}

	for i := 0; i < mesh.VertexCount(); i++ {
		p := mesh.Position(i)
		wp := world.Apply(r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])})
		mesh.Vertices[i*3] = float32(wp.X)
		mesh.Vertices[i*3+1] = float32(wp.Y)
		mesh.Vertices[i*3+2] = float32(wp.Z)

		nv := mesh.Normal(i)
		wn := world.ApplyNormal(r3.Vec{X: float64(nv[0]), Y: float64(nv[1]), Z: float64(nv[2])})
		mesh.Normals[i*3] = float32(wn.X)
		mesh.Normals[i*3+1] = float32(wn.Y)
		mesh.Normals[i*3+2] = float32(wn.Z)
	}

	// A mirroring transform turns every triangle inside out.
	if world.Det() < 0 {
		for t := 0; t < mesh.TriangleCount(); t++ {
			mesh.Indices[t*3+1], mesh.Indices[t*3+2] = mesh.Indices[t*3+2], mesh.Indices[t*3+1]
		}
	}

	mesh.SetColor(n.Color)
	mesh.PartName = nodeLabel(n)
	return mesh, nil
}

func nodeLabel(n *scene.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("#%d", n.Index)
}

func label(sc *scene.Scene, idx scene.NodeIndex) string {
	if n := sc.Get(idx); n != nil {
		return nodeLabel(n)
	}
	return fmt.Sprintf("#%d", idx)
}
