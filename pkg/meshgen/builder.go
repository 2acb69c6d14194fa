package meshgen

import "github.com/chazu/highbar/pkg/kernel"

var white = [4]float32{1, 1, 1, 1}

// builder accumulates vertex attributes and triangles into a kernel.Mesh
// whose arrays are preallocated to their final size.
type builder struct {
	m *kernel.Mesh
}

func newBuilder(vertices, triangles int) *builder {
	return &builder{m: &kernel.Mesh{
		Vertices: make([]float32, 0, vertices*3),
		Normals:  make([]float32, 0, vertices*3),
		Colors:   make([]float32, 0, vertices*4),
		Indices:  make([]uint32, 0, triangles*3),
	}}
}

// vertex appends a white vertex and returns its index.
func (b *builder) vertex(x, y, z, nx, ny, nz float64) uint32 {
	idx := uint32(len(b.m.Vertices) / 3)
	b.m.Vertices = append(b.m.Vertices, float32(x), float32(y), float32(z))
	b.m.Normals = append(b.m.Normals, float32(nx), float32(ny), float32(nz))
	b.m.Colors = append(b.m.Colors, white[0], white[1], white[2], white[3])
	return idx
}

func (b *builder) triangle(a, c, d uint32) {
	b.m.Indices = append(b.m.Indices, a, c, d)
}

func (b *builder) vertexCount() uint32 {
	return uint32(len(b.m.Vertices) / 3)
}

func (b *builder) mesh() *kernel.Mesh {
	return b.m
}
