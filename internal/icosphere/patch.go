package icosphere

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Patch is one subdivided, shaped icosahedron face. Indices in Triangles
// refer to Vertices of the same patch only.
type Patch struct {
	Face      int
	Vertices  []r3.Vec
	Normals   []r3.Vec
	Triangles []int
}

// TriangleCount returns the number of emitted triangles.
func (p *Patch) TriangleCount() int {
	return len(p.Triangles) / 3
}

// Bounds returns the smallest and largest distance of any vertex from the centre.
func (p *Patch) Bounds() (minRadius, maxRadius float64) {
	for i, v := range p.Vertices {
		r := r3.Norm(v)
		if i == 0 || r < minRadius {
			minRadius = r
		}
		if i == 0 || r > maxRadius {
			maxRadius = r
		}
	}
	return minRadius, maxRadius
}

// patchBuilder builds a single patch. It is used once and is not shared.
type patchBuilder struct {
	n       int
	shape   Shape
	current Basis
	borders [6]Basis

	verts   *VertexBuffer
	indices *IndexBuffer

	// Ghost indices past the bottom, top-right and top-left edges. The last
	// entry of each holds the ghost past the matching corner.
	bottom   []int
	topRight []int
	topLeft  []int

	ghosts int
}

func newPatchBuilder(n int, shape Shape, face Face) *patchBuilder {
	current := face.basis()

	return &patchBuilder{
		n:        n,
		shape:    shape,
		current:  current,
		borders:  borderingBases(current),
		verts:    NewVertexBuffer(n),
		indices:  NewIndexBuffer(n),
		bottom:   make([]int, n+2),
		topRight: make([]int, n+2),
		topLeft:  make([]int, n+2),
	}
}

// sample walks the flat triangular lattice row by row, projecting each point
// onto the sphere through the face basis. Points next to an edge or corner
// are also projected through the neighbouring face's basis, landing exactly
// where that face puts its own real vertex.
func (b *patchBuilder) sample() {
	rows := b.n + 2
	xStep := 1.0 / float64(b.n+1)
	zStep := triangleHeight / float64(b.n+1)
	xStart := 0.0

	vert := 0
	ghost := -1
	bottomCount, topRightCount, topLeftCount := 0, 0, 0
	last := b.n + 1

	for z := 0; z < rows; z++ {
		rowLength := rows - z

		for x := 0; x < rowLength; x++ {
			point := r3.Vec{
				X: xStart + float64(x)*xStep - 0.5,
				Y: inRadius,
				Z: float64(z)*zStep - triangleHeight/3,
			}

			b.verts.Set(vert, b.project(b.current, point))
			vert++

			if x == 1 && z == 0 {
				b.bottom[last] = ghost
				b.verts.Set(ghost, b.project(b.borders[3], point))
				ghost--

				b.topRight[last] = ghost
				b.verts.Set(ghost, b.project(b.borders[4], point))
				ghost--

				b.topLeft[last] = ghost
				b.verts.Set(ghost, b.project(b.borders[5], point))
				ghost--
			}

			if z == 1 {
				b.bottom[bottomCount] = ghost
				bottomCount++
				b.verts.Set(ghost, b.project(b.borders[0], point))
				ghost--

				b.topRight[topRightCount] = ghost
				topRightCount++
				b.verts.Set(ghost, b.project(b.borders[1], point))
				ghost--

				b.topLeft[topLeftCount] = ghost
				topLeftCount++
				b.verts.Set(ghost, b.project(b.borders[2], point))
				ghost--
			}
		}

		xStart += xStep * 0.5
	}

	b.ghosts = -ghost - 1
}

func (b *patchBuilder) project(basis Basis, point r3.Vec) r3.Vec {
	return b.shape.Evaluate(r3.Unit(basis.TransformPoint(point)))
}

// triangulate emits an upward triangle for every lattice point below the top
// row and a downward one for every interior point, plus the border triangles
// that tie the outer ring of real vertices to the ghosts.
func (b *patchBuilder) triangulate() {
	rows := b.n + 2
	last := b.n + 1
	idx := b.indices
	vert := 0

	for y := 0; y < rows-1; y++ {
		rowLength := rows - y

		for x := 0; x < rowLength; x++ {
			if x < rowLength-1 {
				idx.AddTriangle(vert, vert+rowLength, vert+1)
				if y == 0 {
					idx.AddBorderTriangle(vert, vert+1, b.bottom[x])
				}

				if x > 0 {
					idx.AddTriangle(vert, vert+rowLength-1, vert+rowLength)
					if y == 0 {
						idx.AddBorderTriangle(vert, b.bottom[x], b.bottom[x-1])
					}
				}
			}

			// Left edge.
			if x == 0 {
				idx.AddBorderTriangle(vert, b.topLeft[y], vert+rowLength)
				if y > 0 {
					idx.AddBorderTriangle(vert, b.topLeft[y-1], b.topLeft[y])
				} else {
					idx.AddBorderTriangle(vert, b.topLeft[last], b.topLeft[0])
					idx.AddBorderTriangle(vert, b.bottom[0], b.topLeft[last])
				}
			}

			// Right edge.
			if x == rowLength-1 {
				idx.AddBorderTriangle(vert, vert+rowLength-1, b.topRight[y])
				if y > 0 {
					idx.AddBorderTriangle(vert, b.topRight[y], b.topRight[y-1])
				} else {
					idx.AddBorderTriangle(vert, b.topRight[y], b.bottom[last])
					idx.AddBorderTriangle(vert, b.bottom[last], b.bottom[x-1])
				}
			}

			vert++
		}
	}

	// The apex has no row above it, so its two remaining triangles are added here.
	idx.AddBorderTriangle(vert, b.topRight[last], b.topRight[last-1])
	idx.AddBorderTriangle(vert, b.topLeft[last-1], b.topRight[last])
}

// normals accumulates area-weighted face normals of every triangle touching a
// real vertex, border triangles included, then normalizes.
func (b *patchBuilder) normals() []r3.Vec {
	normals := make([]r3.Vec, b.verts.Size())

	accumulate := func(tris []int) {
		for i := 0; i+2 < len(tris); i += 3 {
			ia, ib, ic := tris[i], tris[i+1], tris[i+2]
			a, bv, c := b.verts.At(ia), b.verts.At(ib), b.verts.At(ic)

			n := r3.Cross(r3.Sub(bv, a), r3.Sub(c, a))

			for _, j := range [3]int{ia, ib, ic} {
				if j >= 0 {
					normals[j] = r3.Add(normals[j], n)
				}
			}
		}
	}

	accumulate(b.indices.real)
	accumulate(b.indices.border)

	for i := range normals {
		normals[i] = r3.Unit(normals[i])
	}

	return normals
}
