package meshgen

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/chazu/highbar/pkg/kernel"
)

// checkInvariants verifies the structural contract every builder shares.
func checkInvariants(t *testing.T, m *kernel.Mesh) {
	t.Helper()
	if m == nil {
		t.Fatal("mesh is nil")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for i := 0; i+3 < len(m.Colors); i += 4 {
		if m.Colors[i] != 1 || m.Colors[i+1] != 1 || m.Colors[i+2] != 1 || m.Colors[i+3] != 1 {
			t.Fatalf("vertex %d color = %v, want opaque white", i/4, m.Colors[i:i+4])
		}
	}
}

func length(v [3]float32) float64 {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	return math.Sqrt(x*x + y*y + z*z)
}

// ---------------------------------------------------------------------------
// Box
// ---------------------------------------------------------------------------

func TestBoxCounts(t *testing.T) {
	m := Box()
	checkInvariants(t, m)
	if m.VertexCount() != 8 {
		t.Errorf("VertexCount() = %d, want 8", m.VertexCount())
	}
	if len(m.Normals)/3 != 8 {
		t.Errorf("normal count = %d, want 8", len(m.Normals)/3)
	}
	if len(m.Colors)/4 != 8 {
		t.Errorf("color count = %d, want 8", len(m.Colors)/4)
	}
	if m.TriangleCount() != 12 {
		t.Errorf("TriangleCount() = %d, want 12", m.TriangleCount())
	}
	for _, idx := range m.Indices {
		if idx >= 8 {
			t.Errorf("index %d out of range", idx)
		}
	}
}

func TestBoxLayout(t *testing.T) {
	m := Box()
	for i := 0; i < 8; i++ {
		p := m.Position(i)
		for axis, c := range p {
			if c != 1 && c != -1 {
				t.Errorf("vertex %d axis %d = %v, want ±1", i, axis, c)
			}
		}
		wantZ := float32(-1)
		if i >= 4 {
			wantZ = 1
		}
		if p[2] != wantZ {
			t.Errorf("vertex %d z = %v, want %v", i, p[2], wantZ)
		}
		if n := m.Normal(i); n != [3]float32{0, 0, wantZ} {
			t.Errorf("vertex %d normal = %v, want [0 0 %v]", i, n, wantZ)
		}
	}
	if got := m.Triangle(0); got != [3]uint32{0, 1, 2} {
		t.Errorf("first bottom triangle = %v, want [0 1 2]", got)
	}
	if got := m.Triangle(2); got != [3]uint32{4, 6, 5} {
		t.Errorf("first top triangle = %v, want [4 6 5]", got)
	}
	if got := m.Triangle(11); got != [3]uint32{3, 4, 0} {
		t.Errorf("last left triangle = %v, want [3 4 0]", got)
	}
}

// Faces share one winding: every triangle's geometric normal points to the
// same side (inward, as the reference vertex order dictates) of the cube.
func TestBoxConsistentWinding(t *testing.T) {
	m := Box()
	want := outwardSign(m, 0)
	for i := 1; i < m.TriangleCount(); i++ {
		if got := outwardSign(m, i); got != want {
			t.Errorf("triangle %d winds differently from triangle 0", i)
		}
	}
}

// outwardSign reports whether triangle i's geometric normal points away
// from the origin.
func outwardSign(m *kernel.Mesh, i int) bool {
	tri := m.Triangle(i)
	a, b, c := m.Position(int(tri[0])), m.Position(int(tri[1])), m.Position(int(tri[2]))
	e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float32{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	centroid := [3]float32{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3, (a[2] + b[2] + c[2]) / 3}
	return n[0]*centroid[0]+n[1]*centroid[1]+n[2]*centroid[2] > 0
}

// ---------------------------------------------------------------------------
// Sphere
// ---------------------------------------------------------------------------

func TestSphereCounts(t *testing.T) {
	for _, segments := range []int{1, 2, 3, 8, 16, 33} {
		m, err := Sphere(1, segments)
		if err != nil {
			t.Fatalf("Sphere(1, %d) error = %v", segments, err)
		}
		checkInvariants(t, m)
		wantV := (segments + 1) * (2*segments + 1)
		if m.VertexCount() != wantV || SphereVertexCount(segments) != wantV {
			t.Errorf("segments=%d: VertexCount() = %d, want %d", segments, m.VertexCount(), wantV)
		}
		wantT := 2 * segments * (2 * segments)
		if m.TriangleCount() != wantT || SphereTriangleCount(segments) != wantT {
			t.Errorf("segments=%d: TriangleCount() = %d, want %d", segments, m.TriangleCount(), wantT)
		}
	}
}

func TestSphereVerticesOnRadius(t *testing.T) {
	for _, radius := range []float64{0.3, 0.5, 1, 7.25, 100} {
		m, err := Sphere(radius, 8)
		if err != nil {
			t.Fatalf("Sphere(%v, 8) error = %v", radius, err)
		}
		for i := 0; i < m.VertexCount(); i++ {
			if d := length(m.Position(i)); math.Abs(d-radius) > 1e-5*radius {
				t.Fatalf("radius=%v vertex %d |p| = %v", radius, i, d)
			}
			if l := length(m.Normal(i)); math.Abs(l-1) > 1e-5 {
				t.Fatalf("radius=%v vertex %d |n| = %v, want 1", radius, i, l)
			}
		}
	}
}

func TestSphereNormalsMatchPositions(t *testing.T) {
	m, err := Sphere(2, 4)
	if err != nil {
		t.Fatalf("Sphere() error = %v", err)
	}
	for i := 0; i < m.VertexCount(); i++ {
		p, n := m.Position(i), m.Normal(i)
		for axis := 0; axis < 3; axis++ {
			if math.Abs(float64(p[axis]/2-n[axis])) > 1e-6 {
				t.Fatalf("vertex %d normal %v not parallel to position %v", i, n, p)
			}
		}
	}
}

func TestSpherePolesAndSeam(t *testing.T) {
	const segments = 4
	m, err := Sphere(1, segments)
	if err != nil {
		t.Fatalf("Sphere() error = %v", err)
	}
	vpr := 2*segments + 1

	// Every vertex of the first ring sits on the north pole.
	for j := 0; j < vpr; j++ {
		p := m.Position(j)
		if math.Abs(float64(p[2])-1) > 1e-6 {
			t.Errorf("north ring vertex %d = %v, want z=1", j, p)
		}
	}
	// The seam column is duplicated: j=0 and j=2*segments coincide.
	for i := 0; i <= segments; i++ {
		first, last := m.Position(i*vpr), m.Position(i*vpr+vpr-1)
		for axis := 0; axis < 3; axis++ {
			if math.Abs(float64(first[axis]-last[axis])) > 1e-6 {
				t.Errorf("ring %d seam vertices differ: %v vs %v", i, first, last)
			}
		}
	}
}

func TestSphereFirstQuad(t *testing.T) {
	m, err := Sphere(1, 2)
	if err != nil {
		t.Fatalf("Sphere() error = %v", err)
	}
	// vpr = 5: quad (0,1,5,6) emits (0,1,6) then (0,6,5).
	if got := m.Triangle(0); got != [3]uint32{0, 1, 6} {
		t.Errorf("Triangle(0) = %v, want [0 1 6]", got)
	}
	if got := m.Triangle(1); got != [3]uint32{0, 6, 5} {
		t.Errorf("Triangle(1) = %v, want [0 6 5]", got)
	}
}

// ---------------------------------------------------------------------------
// Cylinder
// ---------------------------------------------------------------------------

func TestCylinderCounts(t *testing.T) {
	for _, segments := range []int{3, 4, 8, 16, 31} {
		m, err := Cylinder(0.2, 4, segments)
		if err != nil {
			t.Fatalf("Cylinder(0.2, 4, %d) error = %v", segments, err)
		}
		checkInvariants(t, m)
		if want := 2 + 4*segments; m.VertexCount() != want || CylinderVertexCount(segments) != want {
			t.Errorf("segments=%d: VertexCount() = %d, want %d", segments, m.VertexCount(), want)
		}
		if want := 4 * segments; m.TriangleCount() != want || CylinderTriangleCount(segments) != want {
			t.Errorf("segments=%d: TriangleCount() = %d, want %d", segments, m.TriangleCount(), want)
		}
	}
}

func TestCylinderZOnCaps(t *testing.T) {
	const height = 1.2
	m, err := Cylinder(0.1, height, 12)
	if err != nil {
		t.Fatalf("Cylinder() error = %v", err)
	}
	for i := 0; i < m.VertexCount(); i++ {
		z := m.Position(i)[2]
		if z != float32(height/2) && z != float32(-height/2) {
			t.Errorf("vertex %d z = %v, want ±%v", i, z, height/2)
		}
	}
}

func TestCylinderLayout(t *testing.T) {
	const (
		radius   = 2.0
		height   = 6.0
		segments = 4
	)
	m, err := Cylinder(radius, height, segments)
	if err != nil {
		t.Fatalf("Cylinder() error = %v", err)
	}

	if p := m.Position(0); p != [3]float32{0, 0, 3} {
		t.Errorf("top centre = %v, want [0 0 3]", p)
	}
	if n := m.Normal(0); n != [3]float32{0, 0, 1} {
		t.Errorf("top centre normal = %v, want [0 0 1]", n)
	}
	if p := m.Position(1); p != [3]float32{0, 0, -3} {
		t.Errorf("bottom centre = %v, want [0 0 -3]", p)
	}
	if n := m.Normal(1); n != [3]float32{0, 0, -1} {
		t.Errorf("bottom centre normal = %v, want [0 0 -1]", n)
	}

	for i := 0; i < segments; i++ {
		top, bottom := 2+i, 2+segments+i
		if n := m.Normal(top); n != [3]float32{0, 0, 1} {
			t.Errorf("top rim %d normal = %v", i, n)
		}
		if n := m.Normal(bottom); n != [3]float32{0, 0, -1} {
			t.Errorf("bottom rim %d normal = %v", i, n)
		}
		st, sb := 2+2*segments+2*i, 2+2*segments+2*i+1
		if m.Normal(st) != m.Normal(sb) {
			t.Errorf("side pair %d normals differ: %v vs %v", i, m.Normal(st), m.Normal(sb))
		}
		if m.Normal(st)[2] != 0 {
			t.Errorf("side pair %d normal has z component: %v", i, m.Normal(st))
		}
		p := m.Position(st)
		if r := math.Hypot(float64(p[0]), float64(p[1])); math.Abs(r-radius) > 1e-5 {
			t.Errorf("side vertex %d at radius %v, want %v", st, r, radius)
		}
	}

	// Fans wrap the last segment back to the first rim vertex.
	last := segments - 1
	if got := m.Triangle(last); got != [3]uint32{0, uint32(2 + last), 2} {
		t.Errorf("last top fan triangle = %v", got)
	}
	if got := m.Triangle(segments + last); got != [3]uint32{1, uint32(2 + segments), uint32(2 + segments + last)} {
		t.Errorf("last bottom fan triangle = %v", got)
	}
	side := uint32(2 + 2*segments)
	if got := m.Triangle(2 * segments); got != [3]uint32{side, side + 2, side + 3} {
		t.Errorf("first side triangle = %v", got)
	}
	if got := m.Triangle(2*segments + 1); got != [3]uint32{side, side + 3, side + 1} {
		t.Errorf("second side triangle = %v", got)
	}
}

// ---------------------------------------------------------------------------
// Determinism, concurrency and argument validation
// ---------------------------------------------------------------------------

func TestBuildersAreDeterministic(t *testing.T) {
	builds := map[string]func() (*kernel.Mesh, error){
		"box":      func() (*kernel.Mesh, error) { return Box(), nil },
		"sphere":   func() (*kernel.Mesh, error) { return Sphere(0.5, 8) },
		"cylinder": func() (*kernel.Mesh, error) { return Cylinder(0.07, 0.8, 16) },
	}
	for name, build := range builds {
		t.Run(name, func(t *testing.T) {
			a, err := build()
			if err != nil {
				t.Fatalf("first build error = %v", err)
			}
			b, err := build()
			if err != nil {
				t.Fatalf("second build error = %v", err)
			}
			if !reflect.DeepEqual(a, b) {
				t.Error("repeated builds differ")
			}
			a.Vertices[0] = 99
			if b.Vertices[0] == 99 {
				t.Error("builds share vertex storage")
			}
		})
	}
}

func TestBuildersConcurrent(t *testing.T) {
	want, err := Sphere(1, 6)
	if err != nil {
		t.Fatalf("Sphere() error = %v", err)
	}
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Sphere(1, 6)
			if err != nil || !reflect.DeepEqual(got, want) {
				errs <- "concurrent build differs"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestMinimumSegments(t *testing.T) {
	s, err := Sphere(1.0, 1)
	if err != nil {
		t.Fatalf("Sphere(1, 1) error = %v", err)
	}
	checkInvariants(t, s)
	if s.VertexCount() != 6 || s.TriangleCount() != 4 {
		t.Errorf("Sphere(1, 1) = %d vertices / %d triangles, want 6 / 4", s.VertexCount(), s.TriangleCount())
	}

	c, err := Cylinder(1.0, 1.0, 3)
	if err != nil {
		t.Fatalf("Cylinder(1, 1, 3) error = %v", err)
	}
	checkInvariants(t, c)
	if c.VertexCount() != 14 || c.TriangleCount() != 12 {
		t.Errorf("Cylinder(1, 1, 3) = %d vertices / %d triangles, want 14 / 12", c.VertexCount(), c.TriangleCount())
	}
}

func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name      string
		build     func() (*kernel.Mesh, error)
		wantShape string
		wantParam string
	}{
		{"cylinder negative radius", func() (*kernel.Mesh, error) { return Cylinder(-1, 2, 8) }, "cylinder", "radius"},
		{"cylinder zero radius", func() (*kernel.Mesh, error) { return Cylinder(0, 2, 8) }, "cylinder", "radius"},
		{"cylinder zero height", func() (*kernel.Mesh, error) { return Cylinder(1, 0, 8) }, "cylinder", "height"},
		{"cylinder negative height", func() (*kernel.Mesh, error) { return Cylinder(1, -3, 8) }, "cylinder", "height"},
		{"cylinder two segments", func() (*kernel.Mesh, error) { return Cylinder(1, 1, 2) }, "cylinder", "segments"},
		{"cylinder NaN radius", func() (*kernel.Mesh, error) { return Cylinder(math.NaN(), 1, 8) }, "cylinder", "radius"},
		{"sphere zero radius", func() (*kernel.Mesh, error) { return Sphere(0, 8) }, "sphere", "radius"},
		{"sphere infinite radius", func() (*kernel.Mesh, error) { return Sphere(math.Inf(1), 8) }, "sphere", "radius"},
		{"sphere zero segments", func() (*kernel.Mesh, error) { return Sphere(1, 0) }, "sphere", "segments"},
		{"sphere negative segments", func() (*kernel.Mesh, error) { return Sphere(1, -4) }, "sphere", "segments"},
		{"sphere segments past uint32 indices", func() (*kernel.Mesh, error) { return Sphere(1, MaxSphereSegments+1) }, "sphere", "segments"},
		{"sphere huge segments", func() (*kernel.Mesh, error) { return Sphere(1, math.MaxInt) }, "sphere", "segments"},
		{"cylinder segments past uint32 indices", func() (*kernel.Mesh, error) { return Cylinder(1, 1, MaxCylinderSegments+1) }, "cylinder", "segments"},
		{"cylinder huge segments", func() (*kernel.Mesh, error) { return Cylinder(1, 1, math.MaxInt) }, "cylinder", "segments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.build()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if m != nil {
				t.Error("expected nil mesh on error")
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("errors.Is(err, ErrInvalidArgument) = false for %v", err)
			}
			var argErr *ArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("error %T is not *ArgumentError", err)
			}
			if argErr.Shape != tt.wantShape || argErr.Param != tt.wantParam {
				t.Errorf("ArgumentError = %s/%s, want %s/%s", argErr.Shape, argErr.Param, tt.wantShape, tt.wantParam)
			}
			if !strings.Contains(err.Error(), tt.wantParam) {
				t.Errorf("error message %q does not name %q", err, tt.wantParam)
			}
		})
	}
}

func TestMaximumSegmentsFitUint32Indices(t *testing.T) {
	tests := []struct {
		name  string
		count func(int) int
		max   int
	}{
		{"sphere", SphereVertexCount, MaxSphereSegments},
		{"cylinder", CylinderVertexCount, MaxCylinderSegments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uint64(tt.count(tt.max)); got > math.MaxUint32 {
				t.Errorf("vertex count at max segments = %d, exceeds uint32", got)
			}
			if got := uint64(tt.count(tt.max + 1)); got <= math.MaxUint32 {
				t.Errorf("vertex count at max+1 segments = %d, want past uint32", got)
			}
		})
	}
}
