package meshgen

import (
	"math"

	"github.com/chazu/highbar/pkg/kernel"
)

// MinSphereSegments is the smallest segment count Sphere accepts.
const MinSphereSegments = 1

// MaxSphereSegments is the largest segment count whose vertex count,
// (segments+1) * (2*segments+1), still fits in uint32.
const MaxSphereSegments = 46340

// SphereVertexCount returns (segments+1) * (2*segments+1).
func SphereVertexCount(segments int) int {
	return (segments + 1) * (2*segments + 1)
}

// SphereTriangleCount returns the number of triangles Sphere emits when no
// boundary triangle is skipped: 2 * segments * 2*segments.
func SphereTriangleCount(segments int) int {
	return 2 * segments * 2 * segments
}

// Sphere returns a latitude/longitude sphere of the given radius centred at
// the origin, with segments+1 rings from +Z to -Z and 2*segments+1 samples
// per ring.
//
// The seam column is duplicated rather than wrapped and the poles are rings
// of coincident points, so the triangles touching a pole are degenerate.
func Sphere(radius float64, segments int) (*kernel.Mesh, error) {
	if err := checkPositive("sphere", "radius", radius); err != nil {
		return nil, err
	}
	if err := checkSegments("sphere", segments, MinSphereSegments, MaxSphereSegments); err != nil {
		return nil, err
	}

	longSteps := 2 * segments
	vpr := longSteps + 1
	b := newBuilder(SphereVertexCount(segments), SphereTriangleCount(segments))

	for i := 0; i <= segments; i++ {
		phi := float64(i) / float64(segments) * math.Pi
		sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
		for j := 0; j <= longSteps; j++ {
			theta := float64(j) / float64(longSteps) * 2 * math.Pi
			x := radius * sinPhi * math.Cos(theta)
			y := radius * sinPhi * math.Sin(theta)
			z := radius * cosPhi

			nx, ny, nz := 0.0, 0.0, 1.0
			if l := math.Sqrt(x*x + y*y + z*z); l > 0 {
				nx, ny, nz = x/l, y/l, z/l
			}
			b.vertex(x, y, z, nx, ny, nz)
		}
	}

	n := b.vertexCount()
	for i := 0; i < segments; i++ {
		for j := 0; j < longSteps; j++ {
			p1 := uint32(i*vpr + j)
			p2 := p1 + 1
			p3 := uint32((i+1)*vpr + j)
			p4 := p3 + 1

			// Never false for these loop bounds; kept so the emitted
			// topology matches the bounded form exactly.
			if p1 < n && p2 < n && p4 < n {
				b.triangle(p1, p2, p4)
			}
			if p1 < n && p4 < n && p3 < n {
				b.triangle(p1, p4, p3)
			}
		}
	}
	return b.mesh(), nil
}
