package icosphere

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// bumpy is a smooth, non-spherical shape so that seam normals depend on
// positions from both sides of the seam.
var bumpy = ShapeFunc(func(p r3.Vec) r3.Vec {
	r := 10 * (1 + 0.2*math.Sin(3*p.X+1)*math.Cos(4*p.Y) + 0.1*p.Z*p.Z*p.Z)
	return r3.Scale(r, p)
})

type vertexRef struct {
	patch int
	index int
	pos   r3.Vec
}

func buildAll(t *testing.T, n int, shape Shape) ([]*Patch, []*patchBuilder) {
	t.Helper()
	b, err := NewBuilder(n, shape, nil)
	require.NoError(t, err)

	patches := make([]*Patch, FaceCount)
	builders := make([]*patchBuilder, FaceCount)
	for i := range patches {
		p, err := b.Build(context.Background(), i)
		require.NoError(t, err)
		patches[i] = p
		builders[i] = b.build(i)
	}
	return patches, builders
}

func allVertices(patches []*Patch) []vertexRef {
	var refs []vertexRef
	for pi, p := range patches {
		for i, v := range p.Vertices {
			refs = append(refs, vertexRef{patch: pi, index: i, pos: v})
		}
	}
	return refs
}

func TestSeamContinuity(t *testing.T) {
	for _, n := range []int{0, 1, 2, 4} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			patches, builders := buildAll(t, n, bumpy)
			refs := allVertices(patches)

			for pi, pb := range builders {
				for g := 1; g <= pb.ghosts; g++ {
					ghost := pb.verts.At(-g)

					best := math.Inf(1)
					bestPatch := -1
					for _, r := range refs {
						if d := r3.Norm(r3.Sub(r.pos, ghost)); d < best {
							best, bestPatch = d, r.patch
						}
					}
					require.Less(t, best, tolerance, "patch %d ghost %d has no matching real vertex", pi, g)
					require.NotEqual(t, pi, bestPatch, "patch %d ghost %d lands on its own patch", pi, g)
				}
			}
		})
	}
}

func TestSeamNormalsAgree(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			patches, _ := buildAll(t, n, bumpy)
			refs := allVertices(patches)

			shared := 0
			for i, a := range refs {
				for _, b := range refs[i+1:] {
					if a.patch == b.patch || r3.Norm(r3.Sub(a.pos, b.pos)) > tolerance {
						continue
					}
					shared++
					na := patches[a.patch].Normals[a.index]
					nb := patches[b.patch].Normals[b.index]
					require.Less(t, r3.Norm(r3.Sub(na, nb)), tolerance,
						"normal mismatch between patch %d vertex %d and patch %d vertex %d", a.patch, a.index, b.patch, b.index)
				}
			}
			assert.Positive(t, shared)
		})
	}
}

func TestDistinctVertexCount(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3} {
		patches, _ := buildAll(t, n, UnitSphere)

		var distinct []r3.Vec
		for _, r := range allVertices(patches) {
			seen := false
			for _, d := range distinct {
				if r3.Norm(r3.Sub(d, r.pos)) < tolerance {
					seen = true
					break
				}
			}
			if !seen {
				distinct = append(distinct, r.pos)
			}
		}

		// A geodesic sphere with f = n+1 edge divisions has 10f^2 + 2 vertices.
		f := n + 1
		assert.Len(t, distinct, 10*f*f+2, "n=%d", n)
	}
}

func TestWindingAndNormalsPointOutward(t *testing.T) {
	for _, shape := range []Shape{UnitSphere, bumpy} {
		patches, _ := buildAll(t, 3, shape)

		for _, p := range patches {
			require.Len(t, p.Normals, len(p.Vertices))
			require.Equal(t, IndexCount(3), len(p.Triangles))

			for i := 0; i < len(p.Triangles); i += 3 {
				a := p.Vertices[p.Triangles[i]]
				b := p.Vertices[p.Triangles[i+1]]
				c := p.Vertices[p.Triangles[i+2]]
				n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
				require.Positive(t, r3.Dot(n, a), "patch %d triangle %d winds inward", p.Face, i/3)
			}

			for i, nv := range p.Normals {
				assert.InDelta(t, 1, r3.Norm(nv), tolerance)
				assert.Positive(t, r3.Dot(nv, r3.Unit(p.Vertices[i])), "patch %d normal %d points inward", p.Face, i)
			}
		}
	}
}

func TestUnitSphereNormalsMatchPositions(t *testing.T) {
	// On a sphere the averaged normal of a vertex stays close to its position.
	patches, _ := buildAll(t, 6, UnitSphere)
	for _, p := range patches {
		for i, v := range p.Vertices {
			assert.InDelta(t, 1, r3.Norm(v), tolerance)
			assert.Greater(t, r3.Dot(p.Normals[i], v), 0.99)
		}
	}
}

func TestPatchCornersAreIcosahedronVertices(t *testing.T) {
	faces := Faces()
	for _, n := range []int{0, 2} {
		patches, _ := buildAll(t, n, UnitSphere)
		for i, p := range patches {
			f := faces[i]
			assertVecNear(t, r3.Unit(f.B), p.Vertices[0])
			assertVecNear(t, r3.Unit(f.A), p.Vertices[n+1])
			assertVecNear(t, r3.Unit(f.C), p.Vertices[len(p.Vertices)-1])
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	b, err := NewBuilder(2, bumpy, nil)
	require.NoError(t, err)

	p1, err := b.Build(context.Background(), 11)
	require.NoError(t, err)
	p2, err := b.Build(context.Background(), 11)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
}

func TestBuildErrors(t *testing.T) {
	_, err := NewBuilder(-1, UnitSphere, nil)
	require.ErrorIs(t, err, ErrInvalidResolution)

	_, err = Generate(-3, UnitSphere)
	require.ErrorIs(t, err, ErrInvalidResolution)

	b, err := NewBuilder(0, nil, nil)
	require.NoError(t, err)

	_, err = b.Build(context.Background(), FaceCount)
	require.Error(t, err)
	_, err = b.Build(context.Background(), -1)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Build(ctx, 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerate(t *testing.T) {
	patches, err := Generate(1, bumpy)
	require.NoError(t, err)
	require.Len(t, patches, FaceCount)

	for i, p := range patches {
		assert.Equal(t, i, p.Face)
		assert.Len(t, p.Vertices, VertexCount(1))
		assert.Equal(t, 4, p.TriangleCount())

		lo, hi := p.Bounds()
		assert.LessOrEqual(t, lo, hi)
		assert.Greater(t, lo, 0.0)
	}
}

func TestPatchBounds(t *testing.T) {
	p := &Patch{Vertices: []r3.Vec{{X: 2}, {Y: -5}, {Z: 3}}}
	lo, hi := p.Bounds()
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 5.0, hi)

	empty := &Patch{}
	lo, hi = empty.Bounds()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}
