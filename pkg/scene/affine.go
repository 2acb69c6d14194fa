package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// Affine is a 3x4 transform stored as three basis columns and an origin.
type Affine struct {
	X, Y, Z r3.Vec
	Origin  r3.Vec
}

// IdentityAffine returns the identity transform.
func IdentityAffine() Affine {
	return Affine{X: axisX, Y: axisY, Z: axisZ}
}

// Rotation returns the rotation for heading, pitch and roll in degrees,
// applied roll first, then pitch, then heading.
func Rotation(hpr r3.Vec) func(r3.Vec) r3.Vec {
	h := r3.NewRotation(hpr.X*math.Pi/180, axisZ)
	p := r3.NewRotation(hpr.Y*math.Pi/180, axisX)
	r := r3.NewRotation(hpr.Z*math.Pi/180, axisY)
	return func(v r3.Vec) r3.Vec {
		return h.Rotate(p.Rotate(r.Rotate(v)))
	}
}

// Affine converts t to matrix form.
func (t Transform) Affine() Affine {
	rot := Rotation(t.HPR)
	return Affine{
		X:      r3.Scale(t.Scale.X, rot(axisX)),
		Y:      r3.Scale(t.Scale.Y, rot(axisY)),
		Z:      r3.Scale(t.Scale.Z, rot(axisZ)),
		Origin: t.Position,
	}
}

// Apply transforms a point.
func (a Affine) Apply(p r3.Vec) r3.Vec {
	return r3.Add(a.Origin, a.ApplyDir(p))
}

// ApplyDir transforms a direction, ignoring translation.
func (a Affine) ApplyDir(v r3.Vec) r3.Vec {
	return r3.Add(r3.Add(r3.Scale(v.X, a.X), r3.Scale(v.Y, a.Y)), r3.Scale(v.Z, a.Z))
}

// Det returns the determinant of the linear part.
func (a Affine) Det() float64 {
	return r3.Dot(a.X, r3.Cross(a.Y, a.Z))
}

// ApplyNormal transforms a surface normal by the inverse transpose of the
// linear part and renormalises it. A singular transform returns n unchanged.
func (a Affine) ApplyNormal(n r3.Vec) r3.Vec {
	c := r3.Add(r3.Add(
		r3.Scale(n.X, r3.Cross(a.Y, a.Z)),
		r3.Scale(n.Y, r3.Cross(a.Z, a.X))),
		r3.Scale(n.Z, r3.Cross(a.X, a.Y)))
	if a.Det() < 0 {
		c = r3.Scale(-1, c)
	}
	l := r3.Norm(c)
	if l == 0 {
		return n
	}
	return r3.Scale(1/l, c)
}

// Mul returns the composition a∘b: b is applied first.
func (a Affine) Mul(b Affine) Affine {
	return Affine{
		X:      a.ApplyDir(b.X),
		Y:      a.ApplyDir(b.Y),
		Z:      a.ApplyDir(b.Z),
		Origin: a.Apply(b.Origin),
	}
}
