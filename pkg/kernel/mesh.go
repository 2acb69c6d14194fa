package kernel

import "fmt"

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, colors has 4 floats per vertex (r,g,b,a),
// indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`           // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`            // [nx0,ny0,nz0, ...]
	Colors   []float32 `json:"colors"`             // [r0,g0,b0,a0, ...]
	Indices  []uint32  `json:"indices"`            // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName,omitempty"` // which scene node this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) [3]float32 {
	return [3]float32{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) [3]float32 {
	return [3]float32{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
}

// Triangle returns the three vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// SetColor overwrites every vertex color with rgba.
func (m *Mesh) SetColor(rgba [4]float32) {
	for i := 0; i+3 < len(m.Colors); i += 4 {
		m.Colors[i] = rgba[0]
		m.Colors[i+1] = rgba[1]
		m.Colors[i+2] = rgba[2]
		m.Colors[i+3] = rgba[3]
	}
}

// Clone returns a deep copy that shares no backing arrays with m.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]float32(nil), m.Vertices...),
		Normals:  append([]float32(nil), m.Normals...),
		Colors:   append([]float32(nil), m.Colors...),
		Indices:  append([]uint32(nil), m.Indices...),
		PartName: m.PartName,
	}
}

// Validate checks the structural invariants of the mesh: parallel attribute
// arrays and in-range triangle indices.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("mesh: vertices length %d is not a multiple of 3", len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: indices length %d is not a multiple of 3", len(m.Indices))
	}
	n := m.VertexCount()
	if len(m.Normals) != n*3 {
		return fmt.Errorf("mesh: %d normals for %d vertices", len(m.Normals)/3, n)
	}
	if len(m.Colors) != n*4 {
		return fmt.Errorf("mesh: %d colors for %d vertices", len(m.Colors)/4, n)
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh: triangle %d references vertex %d, only %d vertices", i/3, idx, n)
		}
	}
	return nil
}
