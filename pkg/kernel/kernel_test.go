package kernel

import (
	"strings"
	"testing"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func triangleMesh() *Mesh {
	return &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Colors:   []float32{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		Indices:  []uint32{0, 1, 2},
	}
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Mesh)
		wantErr string
	}{
		{"valid", func(m *Mesh) {}, ""},
		{"ragged vertices", func(m *Mesh) { m.Vertices = m.Vertices[:8] }, "multiple of 3"},
		{"ragged indices", func(m *Mesh) { m.Indices = m.Indices[:2] }, "multiple of 3"},
		{"missing normal", func(m *Mesh) { m.Normals = m.Normals[:6] }, "normals"},
		{"missing color", func(m *Mesh) { m.Colors = m.Colors[:8] }, "colors"},
		{"index out of range", func(m *Mesh) { m.Indices[2] = 3 }, "references vertex 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := triangleMesh()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestMeshAccessors(t *testing.T) {
	m := triangleMesh()
	if got := m.Position(1); got != [3]float32{1, 0, 0} {
		t.Errorf("Position(1) = %v, want [1 0 0]", got)
	}
	if got := m.Normal(2); got != [3]float32{0, 0, 1} {
		t.Errorf("Normal(2) = %v, want [0 0 1]", got)
	}
	if got := m.Triangle(0); got != [3]uint32{0, 1, 2} {
		t.Errorf("Triangle(0) = %v, want [0 1 2]", got)
	}
}

func TestMeshCloneIsIndependent(t *testing.T) {
	m := triangleMesh()
	c := m.Clone()
	c.Vertices[0] = 42
	c.SetColor([4]float32{0.5, 0.25, 0, 1})
	if m.Vertices[0] != 0 {
		t.Errorf("clone shares vertex storage with original")
	}
	if m.Colors[0] != 1 {
		t.Errorf("clone shares color storage with original")
	}
	if c.Colors[4] != 0.5 || c.Colors[5] != 0.25 || c.Colors[6] != 0 || c.Colors[7] != 1 {
		t.Errorf("SetColor did not recolor vertex 1: %v", c.Colors[4:8])
	}
}
