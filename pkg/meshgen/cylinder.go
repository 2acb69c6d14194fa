package meshgen

import (
	"math"

	"github.com/chazu/highbar/pkg/kernel"
)

// MinCylinderSegments is the smallest segment count Cylinder accepts.
const MinCylinderSegments = 3

// MaxCylinderSegments is the largest segment count whose vertex count,
// 2 + 4*segments, still fits in uint32.
const MaxCylinderSegments = (math.MaxUint32 - 2) / 4

// CylinderVertexCount returns 2 + 4*segments.
func CylinderVertexCount(segments int) int {
	return 2 + 4*segments
}

// CylinderTriangleCount returns 4*segments.
func CylinderTriangleCount(segments int) int {
	return 4 * segments
}

// Cylinder returns a capped cylinder along Z, centred at the origin, with
// its caps at ±height/2.
//
// Vertex layout: top centre, bottom centre, the top rim, the bottom rim,
// then the side rim as top/bottom pairs per angle. Cap vertices carry axial
// normals; side pairs share one radial normal per angle.
func Cylinder(radius, height float64, segments int) (*kernel.Mesh, error) {
	if err := checkPositive("cylinder", "radius", radius); err != nil {
		return nil, err
	}
	if err := checkPositive("cylinder", "height", height); err != nil {
		return nil, err
	}
	if err := checkSegments("cylinder", segments, MinCylinderSegments, MaxCylinderSegments); err != nil {
		return nil, err
	}

	n := uint32(segments)
	half := height / 2
	b := newBuilder(CylinderVertexCount(segments), CylinderTriangleCount(segments))

	b.vertex(0, 0, half, 0, 0, 1)
	b.vertex(0, 0, -half, 0, 0, -1)

	cos := make([]float64, segments)
	sin := make([]float64, segments)
	for i := range cos {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		cos[i], sin[i] = math.Cos(angle), math.Sin(angle)
	}

	for i := range cos {
		b.vertex(radius*cos[i], radius*sin[i], half, 0, 0, 1)
	}
	for i := range cos {
		b.vertex(radius*cos[i], radius*sin[i], -half, 0, 0, -1)
	}
	for i := range cos {
		b.vertex(radius*cos[i], radius*sin[i], half, cos[i], sin[i], 0)
		b.vertex(radius*cos[i], radius*sin[i], -half, cos[i], sin[i], 0)
	}

	topRim, bottomRim, side := uint32(2), 2+n, 2+2*n
	for i := uint32(0); i < n; i++ {
		b.triangle(0, topRim+i, topRim+(i+1)%n)
	}
	for i := uint32(0); i < n; i++ {
		b.triangle(1, bottomRim+(i+1)%n, bottomRim+i)
	}
	for i := uint32(0); i < n; i++ {
		v1 := side + 2*i
		v2 := v1 + 1
		v3 := side + 2*((i+1)%n)
		v4 := v3 + 1
		b.triangle(v1, v3, v4)
		b.triangle(v1, v4, v2)
	}
	return b.mesh(), nil
}
