package icosphere

import "gonum.org/v1/gonum/spatial/r3"

// VertexCount is the number of real vertices of a patch at resolution n:
// 3 + 3n + sum(1..n-1).
func VertexCount(n int) int {
	count := 3 + 3*n
	for i := 1; i <= n-1; i++ {
		count += i
	}
	return count
}

// GhostVertexCapacity is the size of a patch's ghost range, 6(n+1). The
// lattice walk fills 3(n+2) of these slots; see GhostVertexCount.
func GhostVertexCapacity(n int) int {
	return 6 * (n + 1)
}

// GhostVertexCount is the number of ghost vertices a patch actually samples:
// three per point of the first interior row plus three corners.
func GhostVertexCount(n int) int {
	return 3 * (n + 2)
}

// IndexCount is the number of triangle corners emitted for a patch:
// 3 * sum over t in [1,n+1] of (2t-1).
func IndexCount(n int) int {
	count := 0
	for t := 1; t <= n+1; t++ {
		count += 2*t - 1
	}
	return 3 * count
}

// BorderIndexCount is the number of triangle corners in a patch's border
// triangles, 3(9+6n).
func BorderIndexCount(n int) int {
	return 3 * (9 + 6*n)
}

// VertexBuffer holds a patch's real vertices and the ghost vertices sampled
// just outside its edges. A signed index addresses both ranges: i >= 0 is
// real[i], i < 0 is ghost[-i-1].
type VertexBuffer struct {
	real  []r3.Vec
	ghost []r3.Vec
}

// NewVertexBuffer allocates both ranges for resolution n. The ghost range is
// sized by GhostVertexCapacity, so slots past GhostVertexCount stay zero.
func NewVertexBuffer(n int) *VertexBuffer {
	return &VertexBuffer{
		real:  make([]r3.Vec, VertexCount(n)),
		ghost: make([]r3.Vec, GhostVertexCapacity(n)),
	}
}

func (b *VertexBuffer) slot(i int) *r3.Vec {
	if i >= 0 {
		return &b.real[i]
	}
	return &b.ghost[-i-1]
}

// At returns the vertex at signed index i.
func (b *VertexBuffer) At(i int) r3.Vec {
	return *b.slot(i)
}

// Set stores v at signed index i.
func (b *VertexBuffer) Set(i int, v r3.Vec) {
	*b.slot(i) = v
}

// Size is the length of the real range.
func (b *VertexBuffer) Size() int { return len(b.real) }

// GhostSize is the length of the ghost range.
func (b *VertexBuffer) GhostSize() int { return len(b.ghost) }

// Vertices returns a copy of the real range.
func (b *VertexBuffer) Vertices() []r3.Vec {
	out := make([]r3.Vec, len(b.real))
	copy(out, b.real)
	return out
}

// IndexBuffer collects triangles in two lists: real triangles that are
// emitted and border triangles that only contribute to normals.
type IndexBuffer struct {
	real   []int
	border []int
}

// NewIndexBuffer preallocates both lists for resolution n.
func NewIndexBuffer(n int) *IndexBuffer {
	return &IndexBuffer{
		real:   make([]int, 0, IndexCount(n)),
		border: make([]int, 0, BorderIndexCount(n)),
	}
}

// AddTriangle appends a real triangle. All indices must be non-negative.
func (b *IndexBuffer) AddTriangle(i0, i1, i2 int) {
	b.real = append(b.real, i0, i1, i2)
}

// AddBorderTriangle appends a triangle that may reference ghost vertices.
func (b *IndexBuffer) AddBorderTriangle(i0, i1, i2 int) {
	b.border = append(b.border, i0, i1, i2)
}

// Size is the number of emitted triangle corners.
func (b *IndexBuffer) Size() int { return len(b.real) }

// BorderSize is the number of border triangle corners.
func (b *IndexBuffer) BorderSize() int { return len(b.border) }

// Triangles returns a copy of the real triangle list.
func (b *IndexBuffer) Triangles() []int {
	out := make([]int, len(b.real))
	copy(out, b.real)
	return out
}
