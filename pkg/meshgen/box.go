package meshgen

import "github.com/chazu/highbar/pkg/kernel"

// boxCorners lists the bottom face (z=-1) then the top face (z=+1),
// each counter-clockwise seen from outside.
var boxCorners = [8][3]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

// boxTriangles covers bottom, top, front, right, back and left, two
// triangles each, over the eight shared corners.
var boxTriangles = [12][3]uint32{
	{0, 1, 2}, {0, 2, 3},
	{4, 6, 5}, {4, 7, 6},
	{0, 4, 5}, {0, 5, 1},
	{1, 5, 6}, {1, 6, 2},
	{2, 6, 7}, {2, 7, 3},
	{3, 7, 4}, {3, 4, 0},
}

// Box returns the unit cube centred at the origin with corners at ±1.
//
// Faces share the eight corner vertices, and normals only distinguish the
// bottom four (down) from the top four (up), so side shading is faceted.
// Callers are expected to scale and recolor the result.
func Box() *kernel.Mesh {
	b := newBuilder(len(boxCorners), len(boxTriangles))
	for _, c := range boxCorners {
		b.vertex(c[0], c[1], c[2], 0, 0, c[2])
	}
	for _, t := range boxTriangles {
		b.triangle(t[0], t[1], t[2])
	}
	return b.mesh()
}
