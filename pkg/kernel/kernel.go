// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx) provide collider solids and signed distance
// queries behind this interface. The kernel abstraction allows swapping
// backends without changing the collision code in the rest of the system.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
	// Distance returns the signed distance from p to the surface,
	// negative inside the solid.
	Distance(p [3]float64) float64
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives, centred at the origin. Cylinders run along Z.
	Box(x, y, z float64) (Solid, error)
	Sphere(radius float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Scale(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
