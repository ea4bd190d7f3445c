package icosphere

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// FaceCount is the number of faces of an icosahedron, and so the number of patches.
const FaceCount = 20

var (
	goldenRatio = (1 + math.Sqrt(5)) / 2

	// normalAngleDelta is the angle in degrees between the normals of two
	// adjacent faces of a regular icosahedron.
	normalAngleDelta = math.Acos(math.Sqrt(5)/3) * 180 / math.Pi

	// inRadius is the distance from the centre to a face of a regular
	// icosahedron with unit edges.
	inRadius = goldenRatio * goldenRatio / (2 * math.Sqrt(3))

	// triangleHeight is the height of an equilateral triangle with unit sides.
	triangleHeight = math.Sqrt(3) / 2
)

// Face is one icosahedron face. Corner order fixes the winding.
type Face struct {
	A, B, C r3.Vec
}

// Normal returns the unit normal of the face.
func (f Face) Normal() r3.Vec {
	return r3.Unit(r3.Cross(r3.Sub(f.B, f.A), r3.Sub(f.C, f.A)))
}

// Centre returns the centroid of the face.
func (f Face) Centre() r3.Vec {
	return r3.Scale(1.0/3, r3.Add(r3.Add(f.A, f.B), f.C))
}

// basis is the frame used to lay the lattice onto this face.
func (f Face) basis() Basis {
	return NewBasis(f.Normal(), r3.Unit(r3.Sub(f.A, f.B)), true)
}

// Faces returns the twenty faces of a regular icosahedron with unit edges,
// built from three orthogonal golden rectangles.
func Faces() [FaceCount]Face {
	h := goldenRatio / 2

	// xz rectangle
	nXnZ := r3.Vec{X: -h, Z: -0.5}
	nXpZ := r3.Vec{X: -h, Z: 0.5}
	pXpZ := r3.Vec{X: h, Z: 0.5}
	pXnZ := r3.Vec{X: h, Z: -0.5}

	// yz rectangle
	nYnZ := r3.Vec{Y: -0.5, Z: -h}
	pYnZ := r3.Vec{Y: 0.5, Z: -h}
	pYpZ := r3.Vec{Y: 0.5, Z: h}
	nYpZ := r3.Vec{Y: -0.5, Z: h}

	// xy rectangle
	nXnY := r3.Vec{X: -0.5, Y: -h}
	nXpY := r3.Vec{X: -0.5, Y: h}
	pXpY := r3.Vec{X: 0.5, Y: h}
	pXnY := r3.Vec{X: 0.5, Y: -h}

	return [FaceCount]Face{
		{pYnZ, nXpY, pXpY},
		{pXpY, pXnZ, pYnZ},
		{pXnZ, pXpY, pXpZ},
		{pXpZ, pXpY, pYpZ},
		{pYpZ, pXpY, nXpY},
		{pYpZ, nXpY, nXpZ},
		{nXpZ, nXpY, nXnZ},
		{nXnZ, nXpY, pYnZ},
		{nYnZ, pYnZ, pXnZ},
		{pXnZ, pXnY, nYnZ},
		{pXnZ, pXpZ, pXnY},
		{pXpZ, nYpZ, pXnY},
		{pXpZ, pYpZ, nYpZ},
		{nYpZ, pYpZ, nXpZ},
		{nXnY, nYnZ, pXnY},
		{nXnY, pXnY, nYpZ},
		{nYpZ, nXpZ, nXnY},
		{nXnY, nXpZ, nXnZ},
		{nXnZ, pYnZ, nYnZ},
		{nXnY, nXnZ, nYnZ},
	}
}
