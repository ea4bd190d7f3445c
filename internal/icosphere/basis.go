package icosphere

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Basis is an orthonormal frame attached to one icosahedron face. Flat
// lattice coordinates are mapped through it into 3D space.
type Basis struct {
	Normal    r3.Vec
	Tangent   r3.Vec
	Cotangent r3.Vec
}

// NewBasis derives the cotangent from normal and tangent. With flip the
// cotangent is tangent x normal, otherwise normal x tangent.
func NewBasis(normal, tangent r3.Vec, flip bool) Basis {
	cotangent := r3.Cross(normal, tangent)
	if flip {
		cotangent = r3.Cross(tangent, normal)
	}
	return Basis{Normal: normal, Tangent: tangent, Cotangent: cotangent}
}

// TransformPoint maps p so that x runs along the tangent, z along the
// cotangent and y along the normal.
func (b Basis) TransformPoint(p r3.Vec) r3.Vec {
	right := r3.Scale(p.X, b.Tangent)
	forward := r3.Scale(p.Z, b.Cotangent)
	up := r3.Scale(p.Y, b.Normal)

	return r3.Add(r3.Add(forward, right), up)
}

// RotateByAxis rotates all three vectors by degrees about axis. With flip the
// rotated cotangent is negated, switching the frame's handedness.
func (b Basis) RotateByAxis(degrees float64, axis r3.Vec, flip bool) Basis {
	rot := rotation(degrees, axis)

	out := Basis{
		Normal:    rot.Rotate(b.Normal),
		Tangent:   rot.Rotate(b.Tangent),
		Cotangent: rot.Rotate(b.Cotangent),
	}
	if flip {
		out.Cotangent = r3.Scale(-1, out.Cotangent)
	}
	return out
}

func rotation(degrees float64, axis r3.Vec) r3.Rotation {
	return r3.NewRotation(degrees*math.Pi/180, axis)
}

// borderingBases derives the frames of the six faces around current.
// Indices 0-2 share an edge with current (below, upper right, upper left);
// 3-5 share only a corner (bottom right, top, bottom left).
//
// Every step depends on the one before it. Changing the order, an angle sign
// or a flip breaks seam continuity even though each patch still looks fine.
func borderingBases(current Basis) [6]Basis {
	var bases [6]Basis

	edgeHinge0 := current.Tangent
	edgeHinge1 := rotation(-30, current.Normal).Rotate(current.Cotangent)
	edgeHinge2 := rotation(30, current.Normal).Rotate(current.Cotangent)

	bases[0] = current.RotateByAxis(-normalAngleDelta, edgeHinge0, true)
	bases[1] = current.RotateByAxis(-normalAngleDelta, edgeHinge1, true)
	bases[1] = bases[1].RotateByAxis(-120, bases[1].Normal, false)
	bases[2] = current.RotateByAxis(normalAngleDelta, edgeHinge2, true)
	bases[2] = bases[2].RotateByAxis(120, bases[2].Normal, false)
	bases[2].Tangent = r3.Scale(-1, bases[2].Tangent)

	cornerHinge0 := rotation(30, bases[0].Normal).Rotate(bases[0].Cotangent)
	cornerHinge1 := rotation(30, bases[1].Normal).Rotate(bases[1].Cotangent)
	cornerHinge2 := rotation(30, bases[2].Normal).Rotate(bases[2].Cotangent)

	bases[3] = bases[0].RotateByAxis(normalAngleDelta, cornerHinge0, false)
	bases[3] = bases[3].RotateByAxis(60, bases[3].Normal, false)
	bases[4] = bases[1].RotateByAxis(normalAngleDelta, cornerHinge1, false)
	bases[4] = bases[4].RotateByAxis(60, bases[4].Normal, false)
	bases[5] = bases[2].RotateByAxis(normalAngleDelta, cornerHinge2, false)
	bases[5] = bases[5].RotateByAxis(240, bases[5].Normal, true)

	return bases
}
